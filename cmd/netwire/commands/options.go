package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/pkg/ip/ipv4"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the IPv4 options the decoder understands",
	Long: `List the IPv4 header options in the decoder's catalog with their class,
number and length rules. Options missing from this list fail decoding.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.printer.Print(listOptions())
	},
}

// optionInfo describes one catalog entry.
type optionInfo struct {
	Name        string `json:"name" yaml:"name"`
	Class       uint64 `json:"class" yaml:"class"`
	Number      uint64 `json:"number" yaml:"number"`
	Length      bool   `json:"length_field" yaml:"length_field"`
	FixedLength int    `json:"fixed_length,omitempty" yaml:"fixed_length,omitempty"`
	Terminator  bool   `json:"terminator,omitempty" yaml:"terminator,omitempty"`
}

// optionList implements output.TableRenderer.
type optionList []optionInfo

func (l optionList) Headers() []string {
	return []string{"Class", "Number", "Name", "Length", "Terminator"}
}

func (l optionList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, o := range l {
		length := "none"
		switch {
		case o.FixedLength > 0:
			length = strconv.Itoa(o.FixedLength)
		case o.Length:
			length = "variable"
		}
		terminator := ""
		if o.Terminator {
			terminator = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatUint(o.Class, 10),
			strconv.FormatUint(o.Number, 10),
			o.Name,
			length,
			terminator,
		})
	}
	return rows
}

func listOptions() optionList {
	keys := ipv4.OptionCatalog.Keys()
	list := make(optionList, 0, len(keys))
	for _, k := range keys {
		e, _ := ipv4.OptionCatalog.Lookup(k)
		list = append(list, optionInfo{
			Name:        e.Name,
			Class:       k.Class,
			Number:      k.Number,
			Length:      e.RequiresLength,
			FixedLength: e.FixedLength,
			Terminator:  e.Terminator,
		})
	}
	return list
}
