package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/logger"
	"github.com/marmos91/netwire/pkg/inspect"
	"github.com/marmos91/netwire/pkg/wire"
)

var verifyRaw bool

var verifyCmd = &cobra.Command{
	Use:   "verify FILE...",
	Short: "Check that packets survive a decode and re-encode unchanged",
	Long: `Decode every packet in the given files, encode it again and compare the
result with the input byte for byte.

Files hold one hex-encoded packet per line by default. Blank lines and
lines starting with '#' are skipped. With --raw each file is a single
binary packet. Use - to read stdin.

The command exits non-zero when any packet fails to decode or re-encodes
differently.

Examples:
  # Verify a capture of hex packets
  netwire verify captures.hex

  # Verify raw packets as JSON
  netwire verify --raw a.bin b.bin -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyRaw, "raw", false, "Each file is one binary packet")
}

// verifyResult is one line of verify output.
type verifyResult struct {
	Source  string `json:"source" yaml:"source"`
	Version int    `json:"version,omitempty" yaml:"version,omitempty"`
	Size    int    `json:"size" yaml:"size"`
	Result  string `json:"result" yaml:"result"`
	Offset  int    `json:"offset" yaml:"offset"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// verifyResults implements output.TableRenderer.
type verifyResults []verifyResult

func (v verifyResults) Headers() []string {
	return []string{"Source", "Version", "Size", "Result", "Detail"}
}

func (v verifyResults) Rows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		version := "-"
		if r.Version != 0 {
			version = "IPv" + strconv.Itoa(r.Version)
		}
		rows = append(rows, []string{r.Source, version, strconv.Itoa(r.Size), r.Result, r.Detail})
	}
	return rows
}

// failed counts results other than a match.
func (v verifyResults) failed() int {
	n := 0
	for _, r := range v {
		if r.Result != "match" {
			n++
		}
	}
	return n
}

func runVerify(cmd *cobra.Command, args []string) error {
	inspector := app.newInspector(true)

	ctx, cancel := app.commandContext(cmd)
	defer cancel()

	var results verifyResults
	for _, path := range args {
		rc, source, err := openInput(path)
		if err != nil {
			return err
		}

		if verifyRaw {
			report, err := inspector.InspectReader(ctx, source, rc)
			results = append(results, verifyOutcome(source, 0, report, err))
			_ = rc.Close()
			continue
		}

		packets, err := readHexLines(source, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
		for _, p := range packets {
			report, err := inspector.Inspect(logger.WithContext(ctx, logger.NewLogContext("", p.Source)), p.Data)
			results = append(results, verifyOutcome(p.Source, len(p.Data), report, err))
		}
	}

	if err := app.printer.Print(results); err != nil {
		return err
	}

	if failed := results.failed(); failed > 0 {
		return fmt.Errorf("%d of %d packets failed verification", failed, len(results))
	}
	return nil
}

func verifyOutcome(source string, size int, report *inspect.Report, err error) verifyResult {
	res := verifyResult{Source: source, Size: size, Offset: -1}
	if err != nil {
		res.Result = "error"
		res.Detail = err.Error()
		if pos, ok := wire.PositionOf(err); ok {
			res.Offset = pos.Byte
		}
		return res
	}

	v := report.Verification
	res.Version = report.Version
	res.Size = report.Size
	res.Offset = v.Offset
	switch {
	case v.Error != "":
		res.Result = "error"
		res.Detail = v.Error
	case v.Match:
		res.Result = "match"
	default:
		res.Result = "mismatch"
		res.Detail = fmt.Sprintf("first difference at byte %d", v.Offset)
	}
	return res
}
