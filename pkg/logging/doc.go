// Package logging provides structured logging configuration for todod.
//
// This package wraps log/slog so every component logs the same way. The
// server config's logLevel and logFormat (TODOD_LOG_LEVEL, TODOD_LOG_FORMAT,
// --log-level, --log-format) select the level and handler; config.Validate
// rejects values ValidLevel and ValidFormat do not accept.
//
// # Usage
//
//	logger := logging.New(logging.Settings(cfg.LogLevel, cfg.LogFormat, os.Stderr))
//
//	logger.Info("starting server", "addr", "0.0.0.0:8888")
//
// # Integration
//
// Components should accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, use logging.Nop() for a no-op logger.
package logging
