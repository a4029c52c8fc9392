// Package commands implements the netwire command-line interface.
package commands

import (
	configcmd "github.com/marmos91/netwire/cmd/netwire/commands/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// skipSetup marks commands that run without loading configuration.
const skipSetup = "netwire/skip-setup"

var rootCmd = &cobra.Command{
	Use:   "netwire",
	Short: "Decode, encode and verify binary network packets",
	Long: `netwire decodes raw IP packets and related wire structures into
named fields, re-encodes them, and checks that decoding and encoding are
exact inverses.

Input is given as hex on the command line, or read from a file or stdin.

Use --config to specify a configuration file, or the default location at
$XDG_CONFIG_HOME/netwire/config.yaml is used when it exists.

Use "netwire [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return app.setup(cmd)
	},
}

// Execute runs the root command and releases telemetry and profiling.
func Execute() error {
	err := rootCmd.Execute()
	app.close(rootCmd.ErrOrStderr())
	return err
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "Path to config file (default: $XDG_CONFIG_HOME/netwire/config.yaml)")
	pf.StringP("output", "o", "", "Output format (table|json|yaml), overrides output.format")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR), overrides logging.level")
	pf.String("max-size", "", "Largest accepted packet, e.g. 1500 or 64Ki, overrides decoder.max_packet_size")
	pf.String("charset", "", "Payload text charset (utf-8|ascii|latin1|ebcdic), overrides decoder.charset")
	pf.Bool("metrics", false, "Print codec metrics in Prometheus text format to stderr on exit")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(ndrCmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
