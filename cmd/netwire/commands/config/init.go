package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/bytesize"
	"github.com/marmos91/netwire/internal/cli/prompt"
	"github.com/marmos91/netwire/pkg/config"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Write a configuration file with default values.

With --interactive the main decoder and output settings are asked for
before the file is written.

Examples:
  # Create the default config file
  netwire config init

  # Overwrite an existing file without asking
  netwire config init --force

  # Choose settings interactively and write to a custom path
  netwire config init --interactive --config ./netwire.yaml`,
	RunE: runConfigInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for settings")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	out := cmd.OutOrStdout()

	force := initForce
	if _, err := os.Stat(path); err == nil && !force {
		if !initInteractive {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Overwrite %s", path), false)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
		force = true
	}

	if !initInteractive {
		if err := config.InitConfigToPath(path, force); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Configuration written to %s\n", path)
		return nil
	}

	cfg, err := askConfig()
	if err != nil {
		if prompt.IsAborted(err) {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Configuration written to %s\n", path)
	return nil
}

func askConfig() (*config.Config, error) {
	cfg := config.GetDefaultConfig()

	level, err := prompt.Select("Log level", []prompt.SelectOption{
		{Label: "DEBUG", Value: "DEBUG", Description: "Every decode, verbose"},
		{Label: "INFO", Value: "INFO", Description: "Normal operation"},
		{Label: "WARN", Value: "WARN", Description: "Round-trip mismatches and problems"},
		{Label: "ERROR", Value: "ERROR", Description: "Failures only"},
	}, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Level = level

	format, err := prompt.Select("Output format", []prompt.SelectOption{
		{Label: "table", Value: "table", Description: "Aligned columns for terminals"},
		{Label: "json", Value: "json", Description: "Indented JSON"},
		{Label: "yaml", Value: "yaml", Description: "YAML"},
	}, cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	cfg.Output.Format = format

	charset, err := prompt.Select("Payload charset", []prompt.SelectOption{
		{Label: "utf-8", Value: "utf-8"},
		{Label: "ascii", Value: "ascii"},
		{Label: "latin1", Value: "latin1", Description: "ISO-8859-1"},
		{Label: "ebcdic", Value: "ebcdic", Description: "IBM code page 037"},
	}, cfg.Decoder.Charset)
	if err != nil {
		return nil, err
	}
	cfg.Decoder.Charset = charset

	current, _ := cfg.Decoder.MaxPacketSize.MarshalText()
	size, err := prompt.Input("Maximum packet size", string(current), func(s string) error {
		_, err := bytesize.ParseByteSize(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cfg.Decoder.MaxPacketSize, err = bytesize.ParseByteSize(size); err != nil {
		return nil, err
	}

	verify, err := prompt.Confirm("Verify round trips by default", cfg.Decoder.VerifyRoundTrip)
	if err != nil {
		return nil, err
	}
	cfg.Decoder.VerifyRoundTrip = verify

	return cfg, nil
}
