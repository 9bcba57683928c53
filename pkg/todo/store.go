package todo

import (
	"sort"
	"sync"
	"time"
)

// Store holds all todo items and the id allocation counter.
type Store struct {
	mu       sync.Mutex
	items    map[int]Item
	nextID   int
	observer Observer
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithObserver installs an Observer. A nil observer is ignored.
func WithObserver(o Observer) StoreOption {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewStore creates an empty Store whose first allocated id is 1.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		items:    make(map[int]Item),
		nextID:   1,
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates the next id and inserts a new item.
// Title validation is the caller's job.
func (s *Store) Create(title string, completed bool) Item {
	start := time.Now()

	s.mu.Lock()
	item := Item{
		ID:        s.nextID,
		Title:     title,
		Completed: completed,
	}
	s.nextID++
	s.items[item.ID] = item
	s.mu.Unlock()

	s.observer.OnCreate(item.ID, time.Since(start))
	return item
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id int) (Item, error) {
	start := time.Now()

	s.mu.Lock()
	item, ok := s.items[id]
	s.mu.Unlock()

	if !ok {
		s.observer.OnNotFound(OpRead, id)
		return Item{}, &NotFoundError{ID: id}
	}
	s.observer.OnRead(id, time.Since(start))
	return item, nil
}

// List returns a snapshot of all items in ascending id order.
// Callers must not rely on the order.
func (s *Store) List() []Item {
	start := time.Now()

	s.mu.Lock()
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	s.observer.OnList(len(items), time.Since(start))
	return items
}

// Update applies the non-nil fields of patch to an existing item.
func (s *Store) Update(id int, patch Patch) (Item, error) {
	start := time.Now()

	s.mu.Lock()
	item, ok := s.items[id]
	if ok {
		patch.apply(&item)
		s.items[id] = item
	}
	s.mu.Unlock()

	if !ok {
		s.observer.OnNotFound(OpUpdate, id)
		return Item{}, &NotFoundError{ID: id}
	}
	s.observer.OnUpdate(id, time.Since(start))
	return item, nil
}

// Delete removes an item. The id is retired and never allocated again.
func (s *Store) Delete(id int) error {
	start := time.Now()

	s.mu.Lock()
	_, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()

	if !ok {
		s.observer.OnNotFound(OpDelete, id)
		return &NotFoundError{ID: id}
	}
	s.observer.OnDelete(id, time.Since(start))
	return nil
}

// Count returns the number of items currently stored.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
