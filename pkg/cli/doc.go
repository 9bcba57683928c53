// Package cli provides the command-line interface for todod.
//
// Commands:
//   - serve: run the todo HTTP API in the foreground until SIGINT/SIGTERM
//   - config: print the effective configuration as YAML
//   - version: show build information
//
// serve and config share the same configuration flags. Values are resolved
// as defaults, then the --config file, then TODOD_* environment variables,
// then flags that were set explicitly.
package cli
