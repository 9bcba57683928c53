package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Collect returns all metric samples for exposition.
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// atomicFloat64 stores float64 bits in a uint64 for atomic access.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := a.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if a.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// desc is the name/help/label schema shared by every metric type.
type desc struct {
	name       string
	help       string
	labelNames []string
}

func (d *desc) Name() string { return d.name }
func (d *desc) Help() string { return d.help }

// labels maps label values onto label names, checking the count.
func (d *desc) labels(values []string) (map[string]string, error) {
	if len(values) != len(d.labelNames) {
		return nil, fmt.Errorf("%w: %s expected %d labels, got %d", ErrLabelCountMismatch, d.name, len(d.labelNames), len(values))
	}
	m := make(map[string]string, len(values))
	for i, name := range d.labelNames {
		m[name] = values[i]
	}
	return m, nil
}

// family holds one child per distinct label combination.
type family[T any] struct {
	mu       sync.RWMutex
	children map[string]*T
	labels   map[string]map[string]string
}

func (f *family[T]) get(d *desc, values []string, create func() *T) (*T, error) {
	key := strings.Join(values, "\x00")

	f.mu.RLock()
	child, ok := f.children[key]
	f.mu.RUnlock()
	if ok {
		return child, nil
	}

	labels, err := d.labels(values)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.children == nil {
		f.children = make(map[string]*T)
		f.labels = make(map[string]map[string]string)
	}
	if child, ok = f.children[key]; !ok {
		child = create()
		f.children[key] = child
		f.labels[key] = labels
	}
	return child, nil
}

func (f *family[T]) each(fn func(labels map[string]string, child *T)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.children))
	for k := range f.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(f.labels[k], f.children[k])
	}
}

// ============================================================================
// Counter
// ============================================================================

// Counter is a monotonically increasing metric.
type Counter struct {
	desc
	values family[CounterVec]
}

// CounterVec is a counter for one label combination.
type CounterVec struct {
	value atomicFloat64
}

// Type returns the metric type.
func (c *Counter) Type() MetricType { return MetricTypeCounter }

// WithLabels returns the child counter for the given label values.
func (c *Counter) WithLabels(values ...string) (*CounterVec, error) {
	return c.values.get(&c.desc, values, func() *CounterVec { return &CounterVec{} })
}

// Inc increments an unlabelled counter by 1.
func (c *Counter) Inc() error {
	v, err := c.WithLabels()
	if err != nil {
		return err
	}
	v.Inc()
	return nil
}

// Collect returns all metric samples.
func (c *Counter) Collect() []Sample {
	var samples []Sample
	c.values.each(func(labels map[string]string, v *CounterVec) {
		samples = append(samples, Sample{Name: c.name, Labels: labels, Value: v.value.Load()})
	})
	return samples
}

// Inc increments the counter by 1.
func (v *CounterVec) Inc() { v.value.Add(1) }

// Add adds a non-negative delta. Negative deltas are ignored.
func (v *CounterVec) Add(delta float64) {
	if delta > 0 {
		v.value.Add(delta)
	}
}

// ============================================================================
// Gauge
// ============================================================================

// Gauge is a metric that can go up and down.
type Gauge struct {
	desc
	values family[GaugeVec]
}

// GaugeVec is a gauge for one label combination.
type GaugeVec struct {
	value atomicFloat64
}

// Type returns the metric type.
func (g *Gauge) Type() MetricType { return MetricTypeGauge }

// WithLabels returns the child gauge for the given label values.
func (g *Gauge) WithLabels(values ...string) (*GaugeVec, error) {
	return g.values.get(&g.desc, values, func() *GaugeVec { return &GaugeVec{} })
}

// Collect returns all metric samples.
func (g *Gauge) Collect() []Sample {
	var samples []Sample
	g.values.each(func(labels map[string]string, v *GaugeVec) {
		samples = append(samples, Sample{Name: g.name, Labels: labels, Value: v.value.Load()})
	})
	return samples
}

func (v *GaugeVec) Set(value float64) { v.value.Store(value) }
func (v *GaugeVec) Inc()              { v.value.Add(1) }
func (v *GaugeVec) Dec()              { v.value.Add(-1) }
func (v *GaugeVec) Add(delta float64) { v.value.Add(delta) }

// ============================================================================
// Histogram
// ============================================================================

// Histogram tracks the distribution of observed values.
type Histogram struct {
	desc
	buckets []float64
	values  family[HistogramVec]
}

// HistogramVec is a histogram for one label combination.
type HistogramVec struct {
	buckets []float64
	counts  []atomic.Uint64
	sum     atomicFloat64
	count   atomic.Uint64
}

// Type returns the metric type.
func (h *Histogram) Type() MetricType { return MetricTypeHistogram }

// WithLabels returns the child histogram for the given label values.
func (h *Histogram) WithLabels(values ...string) (*HistogramVec, error) {
	return h.values.get(&h.desc, values, func() *HistogramVec {
		return &HistogramVec{buckets: h.buckets, counts: make([]atomic.Uint64, len(h.buckets))}
	})
}

// Observe records a value.
func (v *HistogramVec) Observe(value float64) {
	for i, bound := range v.buckets {
		if value <= bound {
			v.counts[i].Add(1)
			break
		}
	}
	v.sum.Add(value)
	v.count.Add(1)
}

// Collect returns cumulative bucket samples plus _sum and _count.
func (h *Histogram) Collect() []Sample {
	var samples []Sample
	h.values.each(func(labels map[string]string, v *HistogramVec) {
		var cumulative uint64
		for i, bound := range v.buckets {
			cumulative += v.counts[i].Load()
			bl := make(map[string]string, len(labels)+1)
			for k, val := range labels {
				bl[k] = val
			}
			bl["le"] = formatFloat(bound)
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: bl, Value: float64(cumulative)})
		}
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: labels, Value: v.sum.Load()},
			Sample{Name: h.name + "_count", Labels: labels, Value: float64(v.count.Load())},
		)
	})
	return samples
}

// DefaultBuckets are the default histogram buckets for request durations (in seconds).
var DefaultBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// ============================================================================
// Registry
// ============================================================================

// Registry holds all registered metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a new counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{desc: desc{name: name, help: help, labelNames: labels}}
	r.register(c)
	return c
}

// NewGauge creates and registers a new gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := &Gauge{desc: desc{name: name, help: help, labelNames: labels}}
	r.register(g)
	return g
}

// NewHistogram creates and registers a new histogram with the given buckets.
// A +Inf bucket is appended when missing.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	sorted := append([]float64(nil), buckets...)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{desc: desc{name: name, help: help, labelNames: labels}, buckets: sorted}
	r.register(h)
	return h
}

// register panics on duplicate names, since they produce invalid exposition output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// Handler returns an http.Handler that serves the metrics in text format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_ = r.Write(w)
	})
}

// Write writes every metric with at least one sample in text format.
func (r *Registry) Write(w io.Writer) error {
	r.mu.RLock()
	metrics := append([]Metric(nil), r.metrics...)
	r.mu.RUnlock()

	for _, m := range metrics {
		samples := m.Collect()
		if len(samples) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", m.Name(), escape(m.Help(), false), m.Name(), m.Type()); err != nil {
			return err
		}
		for _, s := range samples {
			if _, err := fmt.Fprintf(w, "%s%s %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatLabels formats labels as {key="value",...} with sorted keys.
func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escape(labels[k], true) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escape(s string, quotes bool) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	if quotes {
		s = strings.ReplaceAll(s, `"`, `\"`)
	}
	return s
}
