package todo

import "time"

// Observer defines hooks for observability and metrics collection.
// Hooks run after the store lock has been released.
type Observer interface {
	// OnCreate is called after a successful create operation.
	OnCreate(id int, duration time.Duration)

	// OnRead is called after a successful read operation.
	OnRead(id int, duration time.Duration)

	// OnList is called after a list operation.
	OnList(count int, duration time.Duration)

	// OnUpdate is called after a successful update operation.
	OnUpdate(id int, duration time.Duration)

	// OnDelete is called after a successful delete operation.
	OnDelete(id int, duration time.Duration)

	// OnNotFound is called when an operation addresses a missing id.
	OnNotFound(operation string, id int)
}

// Operation names passed to Observer.OnNotFound.
const (
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

// NoopObserver is a no-op implementation of Observer for when metrics are disabled.
type NoopObserver struct{}

func (NoopObserver) OnCreate(id int, duration time.Duration)  {}
func (NoopObserver) OnRead(id int, duration time.Duration)    {}
func (NoopObserver) OnList(count int, duration time.Duration) {}
func (NoopObserver) OnUpdate(id int, duration time.Duration)  {}
func (NoopObserver) OnDelete(id int, duration time.Duration)  {}
func (NoopObserver) OnNotFound(operation string, id int)      {}
