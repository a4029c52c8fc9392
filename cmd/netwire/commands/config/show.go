package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/cli/output"
	"github.com/marmos91/netwire/pkg/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and NETWIRE_*
environment overrides are merged. YAML is printed unless -o json is given.`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	format := output.FormatYAML
	if f, _ := cmd.Flags().GetString("output"); f == string(output.FormatJSON) {
		format = output.FormatJSON
	}
	return output.NewPrinter(cmd.OutOrStdout(), format, false).Print(cfg)
}
