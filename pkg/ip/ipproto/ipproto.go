// Package ipproto names IP protocol numbers as carried in the IPv4 protocol
// field and the IPv6 next-header field.
package ipproto

import "strconv"

// Assigned protocol numbers used in displays.
const (
	HopByHop = 0
	ICMP     = 1
	IGMP     = 2
	IPIP     = 4
	TCP      = 6
	UDP      = 17
	IPv6     = 41
	Routing  = 43
	Fragment = 44
	GRE      = 47
	ESP      = 50
	AH       = 51
	ICMPv6   = 58
	NoNext   = 59
	DestOpts = 60
	OSPF     = 89
	SCTP     = 132
)

var names = map[uint8]string{
	HopByHop: "HOPOPT",
	ICMP:     "ICMP",
	IGMP:     "IGMP",
	IPIP:     "IPv4",
	TCP:      "TCP",
	UDP:      "UDP",
	IPv6:     "IPv6",
	Routing:  "IPv6-Route",
	Fragment: "IPv6-Frag",
	GRE:      "GRE",
	ESP:      "ESP",
	AH:       "AH",
	ICMPv6:   "IPv6-ICMP",
	NoNext:   "IPv6-NoNxt",
	DestOpts: "IPv6-Opts",
	OSPF:     "OSPF",
	SCTP:     "SCTP",
}

// Name returns the keyword for n, or its decimal value when unassigned here.
func Name(n uint8) string {
	if s, ok := names[n]; ok {
		return s
	}
	return strconv.Itoa(int(n))
}
