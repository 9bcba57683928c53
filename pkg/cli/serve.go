package cli

import (
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/todod/pkg/api"
	"github.com/getmockd/todod/pkg/cli/internal/output"
	"github.com/getmockd/todod/pkg/config"
	"github.com/getmockd/todod/pkg/logging"
	"github.com/getmockd/todod/pkg/metrics"
	"github.com/getmockd/todod/pkg/todo"
)

// serveFlagVals is the package-level instance bound to serve's flags.
var serveFlagVals serverFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the todo HTTP API (foreground)",
	Example: `  # Start with defaults (0.0.0.0:8888)
  todod serve

  # Custom port with JSON logs
  todod serve --port 3000 --log-format json

  # Load settings from a file, allow a browser app to call the API
  todod serve --config todod.yaml --cors-origins https://app.example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveFlagVals.resolveConfig(cmd, nil)
		if err != nil {
			return err
		}
		return runServe(cmd, cfg)
	},
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	log := logging.New(logging.Settings(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()))

	if slices.Contains(cfg.CORSOrigins, "*") {
		output.Warn(cmd.ErrOrStderr(), "CORS allows requests from any origin")
	}

	registry := metrics.NewRegistry()
	store := todo.NewStore(todo.WithObserver(api.NewStoreObserver(registry)))

	server, err := api.New(store,
		api.WithLogger(log),
		api.WithMetricsRegistry(registry),
		api.WithVersion(Version),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
		api.WithCORSOrigins(cfg.CORSOrigins...),
		api.WithTimeouts(cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration(), cfg.ShutdownTimeoutDuration()),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Addr()); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
