// Package todo provides the concurrent in-memory store behind the todo API.
//
// The store owns every item and the id counter. Callers only ever receive
// value copies, so nothing outside the store can observe or cause a partially
// applied mutation.
//
// Core Types:
//
//   - Store: the id -> Item map plus the monotonic id counter
//   - Item: a single todo record
//   - Patch: a partial update where nil fields are left unchanged
//
// Thread Safety:
//
// All operations run under a single sync.Mutex that covers both the map and
// the counter. Id allocation and insertion happen in the same critical
// section, so two concurrent creates can never receive the same id. The lock
// is never held across I/O or Observer callbacks.
//
// Usage:
//
//	store := todo.NewStore()
//
//	item := store.Create("buy milk", false)
//	item, err := store.Get(item.ID)
//	items := store.List()
//
//	done := true
//	item, err = store.Update(item.ID, todo.Patch{Completed: &done})
//	err = store.Delete(item.ID)
//
//	if errors.Is(err, todo.ErrNotFound) {
//	    // id was never allocated or already deleted
//	}
package todo
