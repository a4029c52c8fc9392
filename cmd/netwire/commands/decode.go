package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/cli/output"
	"github.com/marmos91/netwire/internal/logger"
	"github.com/marmos91/netwire/pkg/inspect"
)

var (
	decodeFile     string
	decodeHexInput bool
	decodeVerify   bool
	decodeNoVerify bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [HEX...]",
	Short: "Decode an IP packet into named fields",
	Long: `Decode a single IPv4 or IPv6 packet and print its header fields,
options, payload and round-trip verification result.

The packet is taken from the arguments as hex, from --file, or from stdin
when neither is given. File and stdin input is raw binary unless --hex is set.

Examples:
  # Decode hex from the command line
  netwire decode 45000018000100004011b8c0c0a80001c0a80002deadbeef

  # Decode a raw packet file
  netwire decode -f packet.bin

  # Decode a hex dump from stdin as JSON
  xxd -p packet.bin | netwire decode --hex -o json`,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "Read the packet from a file (- for stdin)")
	decodeCmd.Flags().BoolVar(&decodeHexInput, "hex", false, "File or stdin input is a hex dump")
	decodeCmd.Flags().BoolVar(&decodeVerify, "verify", false, "Force round-trip verification")
	decodeCmd.Flags().BoolVar(&decodeNoVerify, "no-verify", false, "Skip round-trip verification")
	decodeCmd.MarkFlagsMutuallyExclusive("verify", "no-verify")
}

func runDecode(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && decodeFile != "" {
		return fmt.Errorf("hex arguments and --file are mutually exclusive")
	}

	verify := app.cfg.Decoder.VerifyRoundTrip
	if decodeVerify {
		verify = true
	}
	if decodeNoVerify {
		verify = false
	}
	inspector := app.newInspector(verify)

	ctx, cancel := app.commandContext(cmd)
	defer cancel()

	var (
		report *inspect.Report
		err    error
	)
	switch {
	case len(args) > 0:
		data, perr := parseHex(strings.Join(args, ""))
		if perr != nil {
			return perr
		}
		ctx = logger.WithContext(ctx, logger.NewLogContext("", "args"))
		report, err = inspector.Inspect(ctx, data)

	default:
		path := decodeFile
		if path == "" {
			path = "-"
		}
		rc, source, oerr := openInput(path)
		if oerr != nil {
			return oerr
		}
		defer func() { _ = rc.Close() }()

		if decodeHexInput {
			report, err = decodeHexStream(ctx, inspector, source, rc)
		} else {
			report, err = inspector.InspectReader(ctx, source, rc)
		}
	}
	if err != nil {
		return err
	}

	if app.printer.Format() == output.FormatTable {
		return app.printer.Print(reportView{report})
	}
	return app.printer.Print(report)
}

// decodeHexStream decodes the first packet of a hex dump. The dump may span
// several lines, as xxd -p produces.
func decodeHexStream(ctx context.Context, inspector *inspect.Inspector, source string, r io.Reader) (*inspect.Report, error) {
	limit := int64(inspector.MaxPacketSize())*3 + 1024
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: %s has more than %d bytes of hex text", inspect.ErrTooLarge, source, limit)
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	data, err := parseHex(strings.Join(lines, ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return inspector.Inspect(logger.WithContext(ctx, logger.NewLogContext("", source)), data)
}
