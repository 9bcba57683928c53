package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/todod/pkg/logging"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks every field and returns ValidationErrors when any are invalid.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Port < 1 || c.Port > 65535 {
		add("port", "must be between 1 and 65535, got %d", c.Port)
	}
	if !logging.ValidLevel(c.LogLevel) {
		add("logLevel", "must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		add("logFormat", "must be text or json, got %q", c.LogFormat)
	}
	if c.ReadTimeout <= 0 {
		add("readTimeout", "must be positive, got %d", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		add("writeTimeout", "must be positive, got %d", c.WriteTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		add("shutdownTimeout", "must be positive, got %d", c.ShutdownTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		add("maxBodyBytes", "must be positive, got %d", c.MaxBodyBytes)
	}
	for _, origin := range c.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			add("corsOrigins", "must not contain empty entries")
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var errs ValidationErrors
	return errors.As(err, &errs)
}
