package cli

import (
	"github.com/spf13/cobra"
)

// configFlagVals is bound to the config command's flags.
var configFlagVals serverFlags

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration serve would run with, after applying the
--config file, TODOD_* environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFlagVals.resolveConfig(cmd, nil)
		if err != nil {
			return err
		}
		data, err := cfg.ToYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
