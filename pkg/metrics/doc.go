// Package metrics provides Prometheus-compatible metrics collection for todod.
//
// It implements the Prometheus text exposition format (text/plain; version=0.0.4)
// for counters, gauges and histograms. All metrics are safe for concurrent use.
//
// # Usage
//
//	registry := metrics.NewRegistry()
//	requests := registry.NewCounter("todod_http_requests_total", "HTTP requests served", "method", "route", "status")
//	requests.WithLabels("GET", "GET /todos", "200").Inc()
//
//	http.Handle("GET /metrics", registry.Handler())
package metrics
