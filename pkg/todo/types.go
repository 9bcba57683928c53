package todo

// Item represents a single todo record.
type Item struct {
	// ID is assigned by the store and never reused.
	ID int `json:"id"`
	// Title is required and non-empty at creation.
	Title string `json:"title"`
	// Completed defaults to false.
	Completed bool `json:"completed"`
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// apply writes the non-nil fields of p onto item.
func (p Patch) apply(item *Item) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
}
