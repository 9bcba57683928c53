package config

import (
	"net"
	"strconv"
	"time"
)

// Default values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8888
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultReadTimeout     = 30
	DefaultWriteTimeout    = 30
	DefaultShutdownTimeout = 10
	DefaultMaxBodyBytes    = 1 << 20
)

// Config is the server configuration. Timeouts are in seconds.
type Config struct {
	Host            string   `json:"host" yaml:"host" toml:"host"`
	Port            int      `json:"port" yaml:"port" toml:"port"`
	LogLevel        string   `json:"logLevel" yaml:"logLevel" toml:"logLevel"`
	LogFormat       string   `json:"logFormat" yaml:"logFormat" toml:"logFormat"`
	ReadTimeout     int      `json:"readTimeout" yaml:"readTimeout" toml:"readTimeout"`
	WriteTimeout    int      `json:"writeTimeout" yaml:"writeTimeout" toml:"writeTimeout"`
	ShutdownTimeout int      `json:"shutdownTimeout" yaml:"shutdownTimeout" toml:"shutdownTimeout"`
	MaxBodyBytes    int64    `json:"maxBodyBytes" yaml:"maxBodyBytes" toml:"maxBodyBytes"`
	CORSOrigins     []string `json:"corsOrigins,omitempty" yaml:"corsOrigins,omitempty" toml:"corsOrigins,omitempty"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}
