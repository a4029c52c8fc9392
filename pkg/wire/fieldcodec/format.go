package fieldcodec

import (
	"fmt"

	"github.com/marmos91/netwire/pkg/wire"
)

// FormatKind enumerates the wire formats a descriptor can use.
type FormatKind int

const (
	FormatInvalid FormatKind = iota
	FormatUint
	FormatBool
	FormatBytes
	FormatPadding
)

// Format is the bit layout of one field.
type Format struct {
	Kind  FormatKind
	Bits  int            // width for uint, bool and padding
	Size  int            // length in bytes for byte strings
	Order wire.ByteOrder // uint only
}

// Uint is a network-order unsigned integer of 1..64 bits.
func Uint(bits int) Format {
	return Format{Kind: FormatUint, Bits: bits, Order: wire.NetworkOrder}
}

// UintOrder is an unsigned integer with an explicit byte order.
func UintOrder(bits int, order wire.ByteOrder) Format {
	return Format{Kind: FormatUint, Bits: bits, Order: order}
}

// Bool is a single-bit flag.
func Bool() Format {
	return Format{Kind: FormatBool, Bits: 1}
}

// Bool8 is a one-byte boolean; any nonzero byte decodes as true.
func Bool8() Format {
	return Format{Kind: FormatBool, Bits: 8}
}

// Bytes is a fixed-length byte string.
func Bytes(n int) Format {
	return Format{Kind: FormatBytes, Size: n}
}

// Padding consumes bits on decode and emits zero bits on encode.
func Padding(bits int) Format {
	return Format{Kind: FormatPadding, Bits: bits}
}

// Width returns the field width in bits.
func (f Format) Width() int {
	if f.Kind == FormatBytes {
		return f.Size * 8
	}
	return f.Bits
}

func (f Format) String() string {
	switch f.Kind {
	case FormatUint:
		if f.Order != wire.BigEndian {
			return fmt.Sprintf("uint%s:%d", orderSuffix(f.Order), f.Bits)
		}
		return fmt.Sprintf("uint:%d", f.Bits)
	case FormatBool:
		if f.Bits == 8 {
			return "bool8"
		}
		return "bool"
	case FormatBytes:
		return fmt.Sprintf("bytes:%d", f.Size)
	case FormatPadding:
		return fmt.Sprintf("pad:%d", f.Bits)
	default:
		return "invalid"
	}
}

func orderSuffix(o wire.ByteOrder) string {
	switch o {
	case wire.LittleEndian:
		return "le"
	case wire.NativeEndian:
		return "ne"
	default:
		return "?"
	}
}

func (f Format) validate() error {
	switch f.Kind {
	case FormatUint:
		if f.Bits < 1 || f.Bits > 64 {
			return fmt.Errorf("uint width %d outside 1..64", f.Bits)
		}
		if !f.Order.Valid() {
			return fmt.Errorf("unknown byte order %s", f.Order)
		}
	case FormatBool:
		if f.Bits != 1 && f.Bits != 8 {
			return fmt.Errorf("bool width %d is neither 1 nor 8", f.Bits)
		}
	case FormatBytes:
		if f.Size < 1 {
			return fmt.Errorf("byte string length %d must be positive", f.Size)
		}
	case FormatPadding:
		if f.Bits < 1 {
			return fmt.Errorf("padding width %d must be positive", f.Bits)
		}
	default:
		return fmt.Errorf("unknown format kind %d", int(f.Kind))
	}
	return nil
}
