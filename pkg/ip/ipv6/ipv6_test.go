package ipv6

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/netwire/pkg/wire"
)

// sample is an ICMPv6 echo header from 2001:db8::1 to 2001:db8::2 with
// traffic class 0xB8 and flow label 0x12345, followed by 4 payload bytes.
var sample = []byte{
	0x6B, 0x81, 0x23, 0x45, 0x00, 0x04, 0x3A, 0x40,
	0x20, 0x01, 0x0D, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x01,
	0x20, 0x01, 0x0D, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x02,
	0x80, 0x00, 0xBE, 0xEF,
}

func TestDecode(t *testing.T) {
	pkt, err := Decode(sample)
	require.NoError(t, err)

	assert.Equal(t, uint8(6), pkt.Version)
	assert.Equal(t, uint8(0xB8), pkt.TrafficClass)
	assert.Equal(t, uint32(0x12345), pkt.FlowLabel)
	assert.Equal(t, uint16(4), pkt.PayloadLength)
	assert.Equal(t, uint8(58), pkt.NextHeader)
	assert.Equal(t, uint8(64), pkt.HopLimit)
	assert.Equal(t, netip.MustParseAddr("2001:db8::1"), pkt.Src)
	assert.Equal(t, netip.MustParseAddr("2001:db8::2"), pkt.Dst)
	assert.Equal(t, []byte{0x80, 0x00, 0xBE, 0xEF}, pkt.Payload)
	assert.Equal(t, 6, pkt.IPVersion())

	out, err := pkt.Encode()
	require.NoError(t, err)
	assert.Equal(t, sample, out)
}

func TestDecode_Errors(t *testing.T) {
	v4 := append([]byte(nil), sample...)
	v4[0] = 0x4B

	_, err := Decode(sample[:39])
	assert.ErrorIs(t, err, wire.ErrOutOfRange)

	_, err = Decode(v4)
	assert.ErrorIs(t, err, wire.ErrInvalidHeader)
}

func TestEncode_MappedAddress(t *testing.T) {
	pkt := &Packet{
		Version:  6,
		HopLimit: 1,
		Src:      netip.MustParseAddr("192.0.2.1"),
		Dst:      netip.MustParseAddr("ff02::1"),
	}
	out, err := pkt.Encode()
	require.NoError(t, err)
	require.Len(t, out, HeaderLen)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("::ffff:192.0.2.1"), back.Src)
	assert.Equal(t, pkt.Dst, back.Dst)
}

func TestEncode_MissingAddress(t *testing.T) {
	addr := netip.MustParseAddr("2001:db8::1")
	tests := []struct {
		name  string
		pkt   *Packet
		field string
	}{
		{"no source", &Packet{Version: Version, Dst: addr}, "source"},
		{"no destination", &Packet{Version: Version, Src: addr}, "destination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.pkt.Encode()
			require.ErrorIs(t, err, wire.ErrMissingField)

			var we *wire.Error
			require.ErrorAs(t, err, &we)
			assert.Equal(t, tt.field, we.Field)
		})
	}
}

func TestPacketString(t *testing.T) {
	pkt, err := Decode(sample)
	require.NoError(t, err)
	assert.Contains(t, pkt.String(), "2001:db8::1 > 2001:db8::2 next IPv6-ICMP")
}
