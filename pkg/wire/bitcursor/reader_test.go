package bitcursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/netwire/pkg/wire"
)

func requireKind(t *testing.T, err error, kind wire.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, wire.KindOf(err), "unexpected error kind: %v", err)
}

func TestReader_SkipBytesThenRead(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x33})

	require.NoError(t, r.SkipBytes(2))
	v, err := r.ReadUint(8, wire.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x33), v)
	assert.True(t, r.Exhausted())
}

func TestReader_SkipBitsAlignsBeforeSkipBytes(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x33})

	require.NoError(t, r.SkipBits(4))
	assert.Equal(t, wire.Position{Byte: 0, Bit: 4}, r.Position())

	require.NoError(t, r.SkipBytes(1))
	assert.Equal(t, wire.Position{Byte: 2, Bit: 0}, r.Position())

	v, err := r.ReadUint(8, wire.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x33), v)
}

func TestReader_LowNibble(t *testing.T) {
	r := NewReader([]byte{0x13})

	require.NoError(t, r.SkipBits(4))
	v, err := r.ReadUint(4, wire.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestReader_SevenBitsAtBitOffsetOne(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34, 0x56, 0x78, 0x9A})

	require.NoError(t, r.SkipBits(9))
	assert.Equal(t, wire.Position{Byte: 1, Bit: 1}, r.Position())

	v, err := r.ReadUint(7, wire.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x34), v)
	assert.Equal(t, wire.Position{Byte: 2, Bit: 0}, r.Position())
}

func TestReader_FieldsStraddlingBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		skip int
		bits int
		want uint64
	}{
		{"12 bits at offset 4", []byte{0xAB, 0xCD}, 4, 12, 0xBCD},
		{"20 bits at offset 4", []byte{0x01, 0x23, 0x45, 0x67}, 4, 20, 0x12345},
		{"13 bits at offset 3", []byte{0x1F, 0xFF}, 3, 13, 0x1FFF},
		{"64 bits aligned", []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}, 0, 64, 0x0123456789ABCDEF},
		{"64 bits at offset 4", []byte{0x00, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}, 4, 64, 0x0123456789ABCDEF},
		{"64 bits at offset 7", []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE}, 7, 64, 0xFFFFFFFFFFFFFFFF},
		{"33 bits at offset 7", []byte{0x01, 0x00, 0x00, 0x00, 0x00}, 7, 33, 1 << 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			require.NoError(t, r.SkipBits(tt.skip))

			v, err := r.ReadUint(tt.bits, wire.BigEndian)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, wire.PositionAt(tt.skip+tt.bits), r.Position())
		})
	}
}

func TestReader_LittleEndian(t *testing.T) {
	r := NewReader([]byte{0x34, 0x12, 0x78, 0x56, 0x34, 0x12, 0xF0})

	v16, err := r.ReadUint(16, wire.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), v16)

	v32, err := r.ReadUint(32, wire.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12345678), v32)

	// Sub-byte fields ignore byte order.
	hi, err := r.ReadUint(4, wire.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xF), hi)
}

func TestReader_LittleEndianMisaligned(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00})
	require.NoError(t, r.SkipBits(4))

	_, err := r.ReadUint(16, wire.LittleEndian)
	requireKind(t, err, wire.KindInvalidArgument)
	assert.Equal(t, wire.Position{Byte: 0, Bit: 4}, r.Position())

	_, err = r.ReadUint(12, wire.LittleEndian)
	requireKind(t, err, wire.KindInvalidArgument)
}

func TestReader_LittleEndianStorageWord(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		bits  int
		want  uint64
		after wire.Position
	}{
		{"12 bits in a 16-bit word", []byte{0x34, 0x12}, 12, 0x123, wire.Position{Byte: 1, Bit: 4}},
		{"9 bits in a 16-bit word", []byte{0x80, 0xFF}, 9, 0x1FF, wire.Position{Byte: 1, Bit: 1}},
		{"20 bits in a 32-bit word", []byte{0x78, 0x56, 0x34, 0x12}, 20, 0x12345, wire.Position{Byte: 2, Bit: 4}},
		{"36 bits in a 64-bit word", []byte{0, 0, 0, 0x10, 0x32, 0x54, 0x76, 0x98}, 36, 0x987654321, wire.Position{Byte: 4, Bit: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			v, err := r.ReadUint(tt.bits, wire.LittleEndian)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.after, r.Position())
		})
	}
}

func TestReader_LittleEndianStorageWordShort(t *testing.T) {
	// Three bytes hold 20 bits but not the 32-bit storage word.
	r := NewReader([]byte{0x78, 0x56, 0x34})
	_, err := r.ReadUint(20, wire.LittleEndian)
	requireKind(t, err, wire.KindOutOfRange)
	assert.Equal(t, wire.Position{}, r.Position())
}

func TestReader_InvalidArguments(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	for _, bits := range []int{0, -1, 65} {
		_, err := r.ReadUint(bits, wire.BigEndian)
		requireKind(t, err, wire.KindInvalidArgument)
	}

	_, err := r.ReadUint(8, wire.ByteOrder(42))
	requireKind(t, err, wire.KindInvalidArgument)

	_, err = r.ReadBool(4)
	requireKind(t, err, wire.KindInvalidArgument)

	requireKind(t, r.SkipBits(-1), wire.KindInvalidArgument)
	requireKind(t, r.SkipBytes(-1), wire.KindInvalidArgument)
	assert.Equal(t, wire.Position{}, r.Position())
}

func TestReader_Boundary(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE}

	t.Run("exact remaining bits", func(t *testing.T) {
		r := NewReader(data)
		v, err := r.ReadUint(24, wire.BigEndian)
		require.NoError(t, err)
		assert.Equal(t, uint64(0xDEADBE), v)
		assert.Equal(t, wire.Position{Byte: 3, Bit: 0}, r.Position())
		assert.True(t, r.Exhausted())

		_, err = r.ReadUint(1, wire.BigEndian)
		requireKind(t, err, wire.KindOutOfRange)
	})

	t.Run("one bit too many", func(t *testing.T) {
		r := NewReader(data)
		_, err := r.ReadUint(25, wire.BigEndian)
		requireKind(t, err, wire.KindOutOfRange)
		assert.Equal(t, wire.Position{}, r.Position())
	})

	t.Run("exact remaining bytes", func(t *testing.T) {
		r := NewReader(data)
		b, err := r.ReadBytes(3)
		require.NoError(t, err)
		assert.Equal(t, data, b)
		assert.True(t, r.Exhausted())
	})

	t.Run("one byte too many", func(t *testing.T) {
		r := NewReader(data)
		_, err := r.ReadBytes(4)
		requireKind(t, err, wire.KindOutOfRange)
	})

	t.Run("skip past end", func(t *testing.T) {
		r := NewReader(data)
		require.NoError(t, r.SkipBits(20))
		requireKind(t, r.SkipBits(5), wire.KindOutOfRange)
		requireKind(t, r.SkipBytes(1), wire.KindOutOfRange)
		assert.Equal(t, wire.Position{Byte: 2, Bit: 4}, r.Position())
	})

	t.Run("empty buffer", func(t *testing.T) {
		r := NewReader(nil)
		_, err := r.ReadUint(1, wire.BigEndian)
		requireKind(t, err, wire.KindOutOfRange)
		_, err = r.ReadBytes(1)
		requireKind(t, err, wire.KindOutOfRange)
	})
}

func TestReader_AlignNearEnd(t *testing.T) {
	r := NewReader([]byte{0xFF})
	require.NoError(t, r.SkipBits(3))
	r.Align()
	assert.Equal(t, wire.Position{Byte: 1, Bit: 0}, r.Position())

	// Aligning an aligned cursor does nothing.
	r.Align()
	assert.Equal(t, wire.Position{Byte: 1, Bit: 0}, r.Position())
}

func TestReader_BitOffsetInvariant(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i*37 + 11)
	}
	widths := []int{3, 5, 7, 1, 9, 13, 2, 64, 17, 31, 8, 16, 4, 33, 6, 11, 20}

	r := NewReader(data)
	total := 0
	for i, w := range widths {
		if i%3 == 0 {
			require.NoError(t, r.SkipBits(w))
		} else {
			_, err := r.ReadUint(w, wire.BigEndian)
			require.NoError(t, err)
		}
		total += w
		assert.Equal(t, total/8, r.Position().Byte)
		assert.Equal(t, total%8, r.Position().Bit)
	}
	assert.Equal(t, len(data)*8-total, r.RemainingBits())
}

func TestReader_FixedString(t *testing.T) {
	data := []byte("Hello3")

	r := NewReader(data)
	s, err := r.ReadFixedString(5, wire.CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, "Hello", s)

	r = NewReader(data)
	_, err = r.ReadFixedString(9, wire.CharsetUTF8)
	requireKind(t, err, wire.KindOutOfRange)
}

func TestReader_FixedStringInvalidText(t *testing.T) {
	r := NewReader([]byte{'o', 'k', 0xFF})

	_, err := r.ReadFixedString(3, wire.CharsetASCII)
	requireKind(t, err, wire.KindDecodeError)
	assert.Equal(t, wire.Position{}, r.Position())

	_, err = r.ReadFixedString(3, wire.CharsetUTF8)
	requireKind(t, err, wire.KindDecodeError)

	s, err := r.ReadFixedString(3, wire.CharsetLatin1)
	require.NoError(t, err)
	assert.Equal(t, "okÿ", s)
}

func TestReader_FixedStringEBCDIC(t *testing.T) {
	r := NewReader([]byte{0xC8, 0x85, 0x93, 0x93, 0x96})

	s, err := r.ReadFixedString(5, wire.CharsetEBCDIC)
	require.NoError(t, err)
	assert.Equal(t, "Hello", s)
}

func TestReader_LengthPrefixedString(t *testing.T) {
	r := NewReader(append([]byte{0x05}, "Hello3"...))
	s, err := r.ReadLengthPrefixedString(wire.CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, "Hello", s)
	assert.Equal(t, wire.Position{Byte: 6, Bit: 0}, r.Position())

	r = NewReader(append([]byte{0x09}, "Hello3"...))
	_, err = r.ReadLengthPrefixedString(wire.CharsetUTF8)
	requireKind(t, err, wire.KindOutOfRange)
	assert.Equal(t, wire.Position{}, r.Position())
}

func TestReader_LengthPrefixedStringAligns(t *testing.T) {
	r := NewReader([]byte{0xF0, 0x02, 'h', 'i'})
	require.NoError(t, r.SkipBits(4))

	s, err := r.ReadLengthPrefixedString(wire.CharsetASCII)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.True(t, r.Exhausted())
}

func TestReader_TerminatedString(t *testing.T) {
	r := NewReader([]byte("abc\x00def\x00"))

	s, err := r.ReadTerminatedString([]byte{0x00}, wire.CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, wire.Position{Byte: 4, Bit: 0}, r.Position())

	s, err = r.ReadTerminatedString([]byte{0x00}, wire.CharsetUTF8)
	require.NoError(t, err)
	assert.Equal(t, "def", s)
	assert.True(t, r.Exhausted())

	_, err = r.ReadTerminatedString([]byte{0x00}, wire.CharsetUTF8)
	requireKind(t, err, wire.KindOutOfRange)
}

func TestReader_TerminatedStringErrors(t *testing.T) {
	r := NewReader([]byte("no terminator"))

	_, err := r.ReadTerminatedString([]byte{0x00}, wire.CharsetUTF8)
	requireKind(t, err, wire.KindOutOfRange)

	_, err = r.ReadTerminatedString([]byte{0x0D, 0x0A}, wire.CharsetUTF8)
	requireKind(t, err, wire.KindInvalidArgument)

	_, err = r.ReadTerminatedString(nil, wire.CharsetUTF8)
	requireKind(t, err, wire.KindInvalidArgument)
	assert.Equal(t, wire.Position{}, r.Position())
}

func TestReader_Bool(t *testing.T) {
	r := NewReader([]byte{0xA0, 0x02, 0x00})

	b, err := r.ReadBool(1)
	require.NoError(t, err)
	assert.True(t, b)
	b, err = r.ReadBool(1)
	require.NoError(t, err)
	assert.False(t, b)

	r.Align()
	b, err = r.ReadBool(8)
	require.NoError(t, err)
	assert.True(t, b, "any nonzero byte is true")
	b, err = r.ReadBool(8)
	require.NoError(t, err)
	assert.False(t, b)
}

func TestReader_PeekUint(t *testing.T) {
	r := NewReader([]byte{0x45, 0x00})

	v, err := r.PeekUint(4, wire.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v)
	assert.Equal(t, wire.Position{}, r.Position())
}

func TestReader_Limit(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5})
	require.NoError(t, r.SkipBytes(2))

	child, err := r.Limit(3)
	require.NoError(t, err)
	assert.Equal(t, wire.Position{Byte: 5, Bit: 0}, r.Position())
	assert.Equal(t, 3, child.Len())

	_, err = child.ReadBytes(4)
	requireKind(t, err, wire.KindOutOfRange)
	pos, ok := wire.PositionOf(err)
	require.True(t, ok)
	assert.Equal(t, wire.Position{Byte: 2, Bit: 0}, pos, "child errors report absolute positions")

	b, err := child.ReadBytes(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, b)
	assert.Equal(t, wire.Position{Byte: 5, Bit: 0}, child.Offset())

	_, err = r.Limit(2)
	requireKind(t, err, wire.KindOutOfRange)
}

func TestReader_ReadBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	r := NewReader(data)

	b, err := r.ReadBytes(2)
	require.NoError(t, err)
	b[0] = 0xFF
	assert.Equal(t, byte(1), data[0])
}

func TestReader_Rest(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC})
	require.NoError(t, r.SkipBits(3))

	assert.Equal(t, []byte{0xBB, 0xCC}, r.Rest())
	assert.True(t, r.Exhausted())
	assert.Empty(t, r.Rest())
}
