package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todod",
	Short: "todod serves an in-memory todo list over HTTP",
	Long: `todod is a small JSON HTTP service for creating, reading, updating and
deleting todo items. Items live in memory and are lost on exit.

Configuration can be provided via flags, TODOD_* environment variables, or a
YAML, TOML or JSON configuration file passed with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Main()
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the CLI and exits the process on error.
func Execute() {
	os.Exit(Main())
}

func init() {
	rootCmd.AddCommand(serveCmd, configCmd, versionCmd)
	serveFlagVals.register(serveCmd)
	configFlagVals.register(configCmd)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information as JSON")
}
