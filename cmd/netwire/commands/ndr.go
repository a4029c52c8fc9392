package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/cli/output"
	"github.com/marmos91/netwire/pkg/dcerpc/ndr"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
)

var ndrRead []string

var ndrCmd = &cobra.Command{
	Use:   "ndr HEX",
	Short: "Decode an NDR format label and the primitives that follow it",
	Long: `Decode the four-byte NDR data representation label at the start of the
input, then read the primitives named by --read in the label's byte order
and character set.

Primitive names: boolean, char, ulong. Unsigned longs are aligned to a
four-byte boundary before they are read.

Examples:
  # Little-endian ASCII IEEE label
  netwire ndr 10000000

  # Label followed by a character and an unsigned long
  netwire ndr 10000000410000002a000000 --read char,ulong`,
	Args: cobra.ExactArgs(1),
	RunE: runNDR,
}

func init() {
	ndrCmd.Flags().StringSliceVar(&ndrRead, "read", nil, "Primitives to read after the label (boolean|char|ulong)")
}

// ndrValue is one decoded primitive.
type ndrValue struct {
	Offset int    `json:"offset" yaml:"offset"`
	Type   string `json:"type" yaml:"type"`
	Value  string `json:"value" yaml:"value"`
}

// ndrResult is the decoded label plus any primitives read after it.
type ndrResult struct {
	ByteOrder string     `json:"byte_order" yaml:"byte_order"`
	Charset   string     `json:"charset" yaml:"charset"`
	Float     string     `json:"float" yaml:"float"`
	Values    []ndrValue `json:"values,omitempty" yaml:"values,omitempty"`
	Remaining int        `json:"remaining_bytes" yaml:"remaining_bytes"`
}

func (r ndrResult) Sections() []output.Section {
	label := output.NewTableData("Property", "Value")
	label.AddRow("Byte order", r.ByteOrder)
	label.AddRow("Charset", r.Charset)
	label.AddRow("Float", r.Float)
	label.AddRow("Remaining", fmt.Sprintf("%d bytes", r.Remaining))

	values := output.NewTableData("Offset", "Type", "Value")
	for _, v := range r.Values {
		values.AddRow(strconv.Itoa(v.Offset), v.Type, v.Value)
	}

	return []output.Section{
		{Title: "FORMAT LABEL", Table: label},
		{Title: "VALUES", Table: values},
	}
}

func runNDR(cmd *cobra.Command, args []string) error {
	data, err := parseHex(args[0])
	if err != nil {
		return err
	}
	res, err := decodeNDR(data, ndrRead)
	if err != nil {
		return err
	}
	return app.printer.Print(res)
}

func decodeNDR(data []byte, reads []string) (ndrResult, error) {
	r := bitcursor.NewReader(data)
	label, err := ndr.ReadFormatLabel(r)
	if err != nil {
		return ndrResult{}, err
	}

	res := ndrResult{
		ByteOrder: label.ByteOrder().String(),
		Charset:   label.Charset().String(),
		Float:     label.FloatName(),
	}

	for _, name := range reads {
		name = strings.ToLower(strings.TrimSpace(name))
		v := ndrValue{Type: name}
		switch name {
		case "boolean", "bool":
			v.Offset = r.Position().Byte
			b, err := ndr.ReadBoolean(r)
			if err != nil {
				return ndrResult{}, err
			}
			v.Type, v.Value = "boolean", strconv.FormatBool(b)
		case "char":
			v.Offset = r.Position().Byte
			c, err := ndr.ReadCharacter(r, label)
			if err != nil {
				return ndrResult{}, err
			}
			v.Value = strconv.QuoteRune(c)
		case "ulong":
			c, err := ndr.ReadULong(r, label)
			if err != nil {
				return ndrResult{}, err
			}
			v.Offset = r.Position().Byte - 4
			v.Value = strconv.FormatUint(uint64(c), 10)
		default:
			return ndrResult{}, fmt.Errorf("unknown NDR primitive %q (want boolean, char or ulong)", name)
		}
		res.Values = append(res.Values, v)
	}

	res.Remaining = r.RemainingBits() / 8
	return res, nil
}
