package api

import (
	"log/slog"
	"time"

	"github.com/getmockd/todod/pkg/metrics"
)

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetricsRegistry sets the registry that request metrics are recorded in
// and that GET /metrics serves. Pass the same registry to NewStoreObserver to
// expose store metrics alongside.
func WithMetricsRegistry(r *metrics.Registry) Option {
	return func(a *API) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithMaxBodyBytes caps request body size. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBodyBytes = n
		}
	}
}

// WithCORSOrigins enables CORS for the given origins. "*" allows any origin.
// CORS is disabled when no origins are configured.
func WithCORSOrigins(origins ...string) Option {
	return func(a *API) {
		a.corsOrigins = append([]string(nil), origins...)
	}
}

// WithTimeouts sets the server read, write and shutdown timeouts.
// Zero values keep the current setting.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(a *API) {
		if read > 0 {
			a.readTimeout = read
		}
		if write > 0 {
			a.writeTimeout = write
		}
		if shutdown > 0 {
			a.shutdownTimeout = shutdown
		}
	}
}

// WithVersion sets the version reported by the todod_build_info metric.
func WithVersion(version string) Option {
	return func(a *API) {
		if version != "" {
			a.version = version
		}
	}
}
