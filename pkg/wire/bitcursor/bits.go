package bitcursor

import (
	"encoding/binary"

	"github.com/marmos91/netwire/pkg/wire"
)

// getBits extracts bits (1..64) starting at absolute bit position pos,
// most-significant bit first.
func getBits(buf []byte, pos, bits int) uint64 {
	// Aligned fast path for whole storage words.
	if pos&7 == 0 {
		i := pos >> 3
		switch bits {
		case 8:
			return uint64(buf[i])
		case 16:
			return uint64(binary.BigEndian.Uint16(buf[i:]))
		case 32:
			return uint64(binary.BigEndian.Uint32(buf[i:]))
		case 64:
			return binary.BigEndian.Uint64(buf[i:])
		}
	}

	var v uint64
	for bits > 0 {
		off := pos & 7
		avail := 8 - off
		n := min(avail, bits)
		chunk := (uint64(buf[pos>>3]) >> (avail - n)) & (1<<n - 1)
		v = v<<n | chunk
		pos += n
		bits -= n
	}
	return v
}

// putBits stores the low bits (1..64) of v at absolute bit position pos,
// most-significant bit first. Bits outside the field are preserved.
func putBits(buf []byte, pos, bits int, v uint64) {
	for bits > 0 {
		off := pos & 7
		avail := 8 - off
		n := min(avail, bits)
		mask := byte(1<<n-1) << (avail - n)
		chunk := byte(v>>(bits-n)) << (avail - n)
		i := pos >> 3
		buf[i] = buf[i]&^mask | chunk&mask
		pos += n
		bits -= n
	}
}

// getLittle assembles a little-endian integer of nbytes bytes.
func getLittle(buf []byte, nbytes int) uint64 {
	var v uint64
	for i := nbytes - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}

func putLittle(buf []byte, nbytes int, v uint64) {
	for i := 0; i < nbytes; i++ {
		buf[i] = byte(v)
		v >>= 8
	}
}

// uintMode is how ReadUint and WriteUint assemble a field.
type uintMode int

const (
	// modeBig reads the field most-significant bit first at any offset.
	modeBig uintMode = iota
	// modeLittle reads whole little-endian bytes.
	modeLittle
	// modeLittleWord reads the smallest little-endian storage word that
	// covers the field and keeps its high-order bits.
	modeLittleWord
)

// checkUint validates the shared preconditions of ReadUint and WriteUint and
// picks how the field is assembled.
func checkUint(pos, bits int, order wire.ByteOrder) (mode uintMode, msg string) {
	if bits < 1 || bits > 64 {
		return modeBig, "bit width must be in 1..64"
	}
	if !order.Valid() {
		return modeBig, "unknown byte order " + order.String()
	}
	off := pos & 7
	if off+bits <= 8 || order.IsBig() {
		return modeBig, ""
	}
	if off != 0 {
		return modeBig, order.String() + " integers wider than the current byte must be byte aligned"
	}
	if bits%8 != 0 {
		return modeLittleWord, ""
	}
	return modeLittle, ""
}

// storageWidth is the smallest of 16, 32 and 64 bits covering bits.
func storageWidth(bits int) int {
	switch {
	case bits <= 16:
		return 16
	case bits <= 32:
		return 32
	default:
		return 64
	}
}

// getLittleWord reads a little-endian storage word of width bits and
// returns its top bits bits.
func getLittleWord(buf []byte, width, bits int) uint64 {
	return getLittle(buf, width/8) >> uint(width-bits)
}

// putLittleWord stores v in the top bits bits of a little-endian storage
// word of width bits. The word's remaining low-order bits are preserved.
func putLittleWord(buf []byte, width, bits int, v uint64) {
	word := getLittle(buf, width/8)
	shift := uint(width - bits)
	var mask uint64 = 1<<uint(bits) - 1
	word = word&^(mask<<shift) | v<<shift
	putLittle(buf, width/8, word)
}

func fits(v uint64, bits int) bool {
	return bits >= 64 || v>>uint(bits) == 0
}
