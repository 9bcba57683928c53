package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/todod/pkg/config"
)

// serverFlags holds the configuration flags shared by serve and config.
type serverFlags struct {
	configFile      string
	host            string
	port            int
	logLevel        string
	logFormat       string
	readTimeout     int
	writeTimeout    int
	shutdownTimeout int
	maxBodyBytes    int64
	corsOrigins     []string
}

func (f *serverFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "Path to a YAML, TOML or JSON configuration file")
	fs.StringVar(&f.host, "host", config.DefaultHost, "Interface to listen on")
	fs.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	fs.IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	fs.IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	fs.IntVar(&f.shutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	fs.StringSliceVar(&f.corsOrigins, "cors-origins", nil, "Comma-separated list of allowed CORS origins (\"*\" for any)")
}

// resolveConfig builds the effective configuration for cmd.
// lookup reads environment variables; nil means the process environment.
func (f *serverFlags) resolveConfig(cmd *cobra.Command, lookup config.LookupFunc) (*config.Config, error) {
	cfg := config.Default()

	if f.configFile != "" {
		loaded, err := config.LoadFromFile(f.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("host") {
		cfg.Host = f.host
	}
	if fs.Changed("port") {
		cfg.Port = f.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if fs.Changed("read-timeout") {
		cfg.ReadTimeout = f.readTimeout
	}
	if fs.Changed("write-timeout") {
		cfg.WriteTimeout = f.writeTimeout
	}
	if fs.Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = f.shutdownTimeout
	}
	if fs.Changed("max-body-bytes") {
		cfg.MaxBodyBytes = f.maxBodyBytes
	}
	if fs.Changed("cors-origins") {
		cfg.CORSOrigins = append([]string(nil), f.corsOrigins...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
