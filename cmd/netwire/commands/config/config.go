// Package config implements the netwire config subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/pkg/config"
)

// Cmd is the parent command for configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage netwire configuration",
	Long: `Create, inspect and validate the netwire configuration file.

The configuration file is read from --config when given, otherwise from
$XDG_CONFIG_HOME/netwire/config.yaml.`,
	// Config commands handle broken configuration themselves, so the
	// root's loading step is skipped.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

func init() {
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(schemaCmd)
}

// configPath returns --config, or the default location.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}
