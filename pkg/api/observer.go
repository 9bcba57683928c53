package api

import (
	"time"

	"github.com/getmockd/todod/pkg/metrics"
	"github.com/getmockd/todod/pkg/todo"
)

// Store operation results used as metric label values.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
)

// StoreObserver records todo.Store operations as Prometheus metrics.
type StoreObserver struct {
	operations *metrics.Counter
	durations  *metrics.Histogram
	items      *metrics.Gauge
}

var _ todo.Observer = (*StoreObserver)(nil)

// NewStoreObserver registers the store metrics in r.
// It panics if called twice with the same registry.
func NewStoreObserver(r *metrics.Registry) *StoreObserver {
	return &StoreObserver{
		operations: r.NewCounter("todod_store_operations_total",
			"Total number of store operations", "operation", "result"),
		durations: r.NewHistogram("todod_store_operation_duration_seconds",
			"Store operation latency in seconds", metrics.DefaultBuckets, "operation"),
		items: r.NewGauge("todod_items",
			"Number of todo items currently stored"),
	}
}

func (o *StoreObserver) record(operation, result string, d time.Duration) {
	if c, err := o.operations.WithLabels(operation, result); err == nil {
		c.Inc()
	}
	if result != resultOK {
		return
	}
	if h, err := o.durations.WithLabels(operation); err == nil {
		h.Observe(d.Seconds())
	}
}

func (o *StoreObserver) addItems(delta float64) {
	if g, err := o.items.WithLabels(); err == nil {
		g.Add(delta)
	}
}

// OnCreate implements todo.Observer.
func (o *StoreObserver) OnCreate(id int, d time.Duration) {
	o.record("create", resultOK, d)
	o.addItems(1)
}

// OnRead implements todo.Observer.
func (o *StoreObserver) OnRead(id int, d time.Duration) {
	o.record(todo.OpRead, resultOK, d)
}

// OnList implements todo.Observer.
func (o *StoreObserver) OnList(count int, d time.Duration) {
	o.record("list", resultOK, d)
}

// OnUpdate implements todo.Observer.
func (o *StoreObserver) OnUpdate(id int, d time.Duration) {
	o.record(todo.OpUpdate, resultOK, d)
}

// OnDelete implements todo.Observer.
func (o *StoreObserver) OnDelete(id int, d time.Duration) {
	o.record(todo.OpDelete, resultOK, d)
	o.addItems(-1)
}

// OnNotFound implements todo.Observer.
func (o *StoreObserver) OnNotFound(operation string, id int) {
	o.record(operation, resultNotFound, 0)
}

// httpMetrics holds the request-level metrics.
type httpMetrics struct {
	requests *metrics.Counter
	duration *metrics.Histogram
}

func newHTTPMetrics(r *metrics.Registry, version string) *httpMetrics {
	info := r.NewGauge("todod_build_info", "Build information", "version")
	if g, err := info.WithLabels(version); err == nil {
		g.Set(1)
	}

	return &httpMetrics{
		requests: r.NewCounter("todod_http_requests_total",
			"Total number of HTTP requests", "method", "route", "status"),
		duration: r.NewHistogram("todod_http_request_duration_seconds",
			"HTTP request latency in seconds", metrics.DefaultBuckets, "method", "route"),
	}
}

func (m *httpMetrics) observe(method, route, status string, d time.Duration) {
	if c, err := m.requests.WithLabels(method, route, status); err == nil {
		c.Inc()
	}
	if h, err := m.duration.WithLabels(method, route); err == nil {
		h.Observe(d.Seconds())
	}
}
