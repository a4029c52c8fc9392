package ip

import (
	"net/netip"
	"slices"
)

// Block is a special-purpose IPv4 address block.
type Block struct {
	Prefix      netip.Prefix
	Name        string
	Forwardable bool
	Global      bool
}

// SpecialBlocks is the IPv4 special-purpose address registry, most
// specific prefixes listed after the blocks that contain them.
var SpecialBlocks = []Block{
	{netip.MustParsePrefix("0.0.0.0/8"), "This network", false, false},
	{netip.MustParsePrefix("10.0.0.0/8"), "Private-Use", true, false},
	{netip.MustParsePrefix("100.64.0.0/10"), "Shared Address Space", true, false},
	{netip.MustParsePrefix("127.0.0.0/8"), "Loopback", false, false},
	{netip.MustParsePrefix("169.254.0.0/16"), "Link Local", false, false},
	{netip.MustParsePrefix("172.16.0.0/12"), "Private-Use", true, false},
	{netip.MustParsePrefix("192.0.0.0/24"), "IETF Protocol Assignments", false, false},
	{netip.MustParsePrefix("192.0.2.0/24"), "Documentation (TEST-NET-1)", false, false},
	{netip.MustParsePrefix("192.88.99.0/24"), "6to4 Relay Anycast", true, true},
	{netip.MustParsePrefix("192.168.0.0/16"), "Private-Use", true, false},
	{netip.MustParsePrefix("198.18.0.0/15"), "Benchmarking", true, false},
	{netip.MustParsePrefix("198.51.100.0/24"), "Documentation (TEST-NET-2)", false, false},
	{netip.MustParsePrefix("203.0.113.0/24"), "Documentation (TEST-NET-3)", false, false},
	{netip.MustParsePrefix("224.0.0.0/4"), "Multicast", true, true},
	{netip.MustParsePrefix("240.0.0.0/4"), "Reserved", false, false},
	{netip.MustParsePrefix("255.255.255.255/32"), "Limited Broadcast", false, false},
}

// Classify returns every special-purpose block containing addr. An
// IPv4-mapped IPv6 address is classified as its IPv4 form.
func Classify(addr netip.Addr) []Block {
	addr = addr.Unmap()
	if !addr.Is4() {
		return nil
	}
	var out []Block
	for _, b := range SpecialBlocks {
		if b.Prefix.Contains(addr) {
			out = append(out, b)
		}
	}
	return out
}

// IsSpecial reports whether addr falls in any special-purpose block.
func IsSpecial(addr netip.Addr) bool {
	addr = addr.Unmap()
	return slices.ContainsFunc(SpecialBlocks, func(b Block) bool {
		return b.Prefix.Contains(addr)
	})
}
