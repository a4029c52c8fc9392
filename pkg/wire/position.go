package wire

import (
	"encoding/binary"
	"fmt"
)

// Position is a cursor location: a byte offset plus a bit offset in [0, 8).
type Position struct {
	Byte int
	Bit  int
}

// PositionAt converts an absolute bit count to a Position.
func PositionAt(bits int) Position {
	return Position{Byte: bits / 8, Bit: bits % 8}
}

// Bits returns the absolute bit offset.
func (p Position) Bits() int {
	return p.Byte*8 + p.Bit
}

// Aligned reports whether the position sits on a byte boundary.
func (p Position) Aligned() bool {
	return p.Bit == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Byte, p.Bit)
}

// ByteOrder selects how multi-byte integer storage is assembled.
type ByteOrder int

const (
	NativeEndian ByteOrder = iota
	LittleEndian
	BigEndian

	// NetworkOrder is the byte order used on the wire by IP and friends.
	NetworkOrder = BigEndian
)

func (o ByteOrder) String() string {
	switch o {
	case NativeEndian:
		return "native"
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	default:
		return fmt.Sprintf("byteorder(%d)", int(o))
	}
}

// Valid reports whether o is one of the declared byte orders.
func (o ByteOrder) Valid() bool {
	return o == NativeEndian || o == LittleEndian || o == BigEndian
}

// Binary returns the encoding/binary implementation for o.
func (o ByteOrder) Binary() binary.ByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

// IsBig reports whether o resolves to big-endian on this host.
func (o ByteOrder) IsBig() bool {
	switch o {
	case BigEndian:
		return true
	case LittleEndian:
		return false
	default:
		var probe [2]byte
		binary.NativeEndian.PutUint16(probe[:], 1)
		return probe[0] == 0
	}
}
