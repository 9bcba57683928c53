// Package config holds the todod server configuration.
//
// Values are resolved in order of increasing precedence:
//
//  1. Default()
//  2. a config file (.yaml/.yml, .toml, anything else as JSON) via LoadFromFile
//  3. TODOD_* environment variables via ApplyEnv
//  4. command-line flags, applied by the CLI
//
// Validate should be called on the final value before it is used.
package config
