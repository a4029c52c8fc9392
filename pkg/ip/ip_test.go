package ip

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/netwire/pkg/ip/ipv4"
	"github.com/marmos91/netwire/pkg/ip/ipv6"
	"github.com/marmos91/netwire/pkg/wire"
)

var v4Header = []byte{
	0x45, 0x00, 0x00, 0x14, 0x00, 0x01, 0x00, 0x00,
	0x40, 0x11, 0x00, 0x00, 0x0A, 0x00, 0x00, 0x01,
	0x0A, 0x00, 0x00, 0x02,
}

func v6Header() []byte {
	b := make([]byte, 40)
	b[0] = 0x60
	b[6] = 17
	b[7] = 64
	b[23] = 1
	b[39] = 2
	return b
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"ipv4", v4Header, 4},
		{"ipv6", v6Header(), 6},
		{"single byte", []byte{0xF0}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Version(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Version(nil)
	assert.ErrorIs(t, err, wire.ErrOutOfRange)
}

func TestDecode_Dispatch(t *testing.T) {
	p, err := Decode(v4Header)
	require.NoError(t, err)
	assert.IsType(t, &ipv4.Packet{}, p)
	assert.Equal(t, 4, p.IPVersion())

	p, err = Decode(v6Header())
	require.NoError(t, err)
	assert.IsType(t, &ipv6.Packet{}, p)
	assert.Equal(t, netip.MustParseAddr("::2"), p.(*ipv6.Packet).Dst)

	out, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, v6Header(), out)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, wire.ErrOutOfRange},
		{"version 5", []byte{0x50, 0, 0, 0}, wire.ErrInvalidHeader},
		{"version 0", make([]byte, 40), wire.ErrInvalidHeader},
		{"truncated ipv4", v4Header[:10], wire.ErrOutOfRange},
		{"truncated ipv6", v6Header()[:39], wire.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.data)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, p)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		addr  string
		names []string
	}{
		{"10.1.2.3", []string{"Private-Use"}},
		{"172.22.178.234", []string{"Private-Use"}},
		{"127.0.0.1", []string{"Loopback"}},
		{"255.255.255.255", []string{"Reserved", "Limited Broadcast"}},
		{"::ffff:192.0.2.7", []string{"Documentation (TEST-NET-1)"}},
		{"8.8.8.8", nil},
		{"2001:db8::1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			var names []string
			for _, b := range Classify(netip.MustParseAddr(tt.addr)) {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestIsSpecial(t *testing.T) {
	assert.True(t, IsSpecial(netip.MustParseAddr("100.64.0.1")))
	assert.False(t, IsSpecial(netip.MustParseAddr("1.1.1.1")))
}
