package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the netwire configuration file.

Checks for syntax errors, missing required fields, and invalid values.
Environment overrides (NETWIRE_*) are applied before validation.

Examples:
  # Validate default config
  netwire config validate

  # Validate specific config file
  netwire config validate --config /etc/netwire/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	out := cmd.OutOrStdout()

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	var warnings []string
	if _, err := os.Stat(path); os.IsNotExist(err) {
		warnings = append(warnings, "config file not found, built-in defaults are in use")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.SampleRate == 0 {
		warnings = append(warnings, "telemetry is enabled with sample_rate 0, no spans will be exported")
	}
	if cfg.Decoder.MaxPacketSize > 65535 {
		warnings = append(warnings, "decoder.max_packet_size is larger than any IPv4 packet")
	}

	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", path)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Max packet size: %s\n", cfg.Decoder.MaxPacketSize)
	_, _ = fmt.Fprintf(out, "  Charset:         %s\n", cfg.Decoder.Charset)
	_, _ = fmt.Fprintf(out, "  Verify:          %t\n", cfg.Decoder.VerifyRoundTrip)
	_, _ = fmt.Fprintf(out, "  Output format:   %s\n", cfg.Output.Format)
	_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
