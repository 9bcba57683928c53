package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/todod/pkg/logging"
	"github.com/getmockd/todod/pkg/metrics"
	"github.com/getmockd/todod/pkg/todo"
	"github.com/getmockd/todod/pkg/validation"
)

// Defaults applied by New.
const (
	DefaultMaxBodyBytes    = 1 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// API exposes a todo.Store over HTTP.
type API struct {
	store *todo.Store
	log   *slog.Logger

	registry    *metrics.Registry
	httpMetrics *httpMetrics
	version     string

	createValidator *validation.BodyValidator
	updateValidator *validation.BodyValidator
	openapi         *openapiDocument

	maxBodyBytes    int64
	corsOrigins     []string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	startTime time.Time
	handler   http.Handler
}

// New creates an API serving store.
func New(store *todo.Store, opts ...Option) (*API, error) {
	if store == nil {
		return nil, errors.New("api: store is required")
	}

	a := &API{
		store:           store,
		log:             logging.Nop(),
		version:         "dev",
		maxBodyBytes:    DefaultMaxBodyBytes,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		startTime:       time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = metrics.NewRegistry()
	}

	var err error
	if a.createValidator, err = validation.NewEmbeddedValidator(validation.SchemaCreate); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if a.updateValidator, err = validation.NewEmbeddedValidator(validation.SchemaUpdate); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if a.openapi, err = loadOpenAPIDocument(); err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	a.httpMetrics = newHTTPMetrics(a.registry, a.version)

	mux := http.NewServeMux()
	a.registerRoutes(mux)
	a.handler = a.withMiddleware(mux)

	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *API) Handler() http.Handler {
	return a.handler
}

// Uptime returns the time since the API was created, in whole seconds.
func (a *API) Uptime() int64 {
	return int64(time.Since(a.startTime).Seconds())
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. In-flight requests get up to the shutdown timeout to finish.
func (a *API) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadTimeout:       a.readTimeout,
		ReadHeaderTimeout: a.readTimeout,
		WriteTimeout:      a.writeTimeout,
		ErrorLog:          slog.NewLogLogger(a.log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down server", "timeout", a.shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Run listens on addr and serves until ctx is done.
func (a *API) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	a.log.Info("starting server", "addr", ln.Addr().String())
	return a.Serve(ctx, ln)
}
