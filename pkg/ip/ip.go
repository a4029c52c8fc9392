// Package ip selects the packet decoder for a raw IP datagram from its
// leading version nibble.
package ip

import (
	"github.com/marmos91/netwire/pkg/ip/ipv4"
	"github.com/marmos91/netwire/pkg/ip/ipv6"
	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

// Packet is a decoded IP packet of either version.
type Packet interface {
	IPVersion() int
	Encode() ([]byte, error)
	EncodeTo(w *bitcursor.Writer) error
	Fields() []fieldcodec.FieldValue
	String() string
}

var (
	_ Packet = (*ipv4.Packet)(nil)
	_ Packet = (*ipv6.Packet)(nil)
)

// Version returns the value of the leading 4-bit version field.
func Version(data []byte) (int, error) {
	v, err := bitcursor.NewReader(data).PeekUint(4, wire.BigEndian)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Decode decodes data with the decoder for its IP version.
func Decode(data []byte) (Packet, error) {
	v, err := Version(data)
	if err != nil {
		return nil, err
	}

	switch v {
	case ipv4.Version:
		p, err := ipv4.Decode(data)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ipv6.Version:
		p, err := ipv6.Decode(data)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		e := wire.Errorf(wire.KindInvalidHeader, "Decode", wire.Position{}, "unsupported IP version %d", v)
		e.Field = "version"
		return nil, e
	}
}
