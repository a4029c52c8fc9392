package commands

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/pkg/ip"
)

var classifyCmd = &cobra.Command{
	Use:   "classify ADDRESS...",
	Short: "Show the special-purpose blocks an IPv4 address belongs to",
	Long: `Look up each address in the IPv4 special-purpose address registry and
report the matching blocks with their forwarding and global scope flags.

Examples:
  netwire classify 10.1.2.3 192.0.2.7 8.8.8.8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

// addressClass is one matching block for an address.
type addressClass struct {
	Address     string `json:"address" yaml:"address"`
	Prefix      string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Forwardable bool   `json:"forwardable" yaml:"forwardable"`
	Global      bool   `json:"global" yaml:"global"`
}

type addressClasses []addressClass

func (a addressClasses) Headers() []string {
	return []string{"Address", "Prefix", "Block", "Forwardable", "Global"}
}

func (a addressClasses) Rows() [][]string {
	rows := make([][]string, 0, len(a))
	for _, c := range a {
		prefix := c.Prefix
		if prefix == "" {
			prefix = "-"
		}
		rows = append(rows, []string{
			c.Address, prefix, c.Name,
			strconv.FormatBool(c.Forwardable), strconv.FormatBool(c.Global),
		})
	}
	return rows
}

func runClassify(cmd *cobra.Command, args []string) error {
	classes, err := classifyAddresses(args)
	if err != nil {
		return err
	}
	return app.printer.Print(classes)
}

func classifyAddresses(args []string) (addressClasses, error) {
	var out addressClasses
	for _, arg := range args {
		addr, err := netip.ParseAddr(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", arg, err)
		}
		if !addr.Unmap().Is4() {
			return nil, fmt.Errorf("address %q is not IPv4", arg)
		}

		blocks := ip.Classify(addr)
		if len(blocks) == 0 {
			out = append(out, addressClass{Address: arg, Name: "Global Unicast", Forwardable: true, Global: true})
			continue
		}
		for _, b := range blocks {
			out = append(out, addressClass{
				Address:     arg,
				Prefix:      b.Prefix.String(),
				Name:        b.Name,
				Forwardable: b.Forwardable,
				Global:      b.Global,
			})
		}
	}
	return out, nil
}
