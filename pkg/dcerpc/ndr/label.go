package ndr

import (
	"fmt"

	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

// =============================================================================
// Format Label [C706 Section 14.1]
// =============================================================================

// Integer representation
const (
	IntBigEndian    uint8 = 0
	IntLittleEndian uint8 = 1
)

// Character representation
const (
	CharASCII  uint8 = 0
	CharEBCDIC uint8 = 1
)

// Floating-point representation
const (
	FloatIEEE uint8 = 0
	FloatVAX  uint8 = 1
	FloatCray uint8 = 2
	FloatIBM  uint8 = 3
)

// LabelSize is the encoded size of a format label in bytes.
const LabelSize = 4

// Format label wire layout:
//
//	Byte  Bits  Field
//	0     7-4   integer representation
//	0     3-0   character representation
//	1     7-0   floating-point representation
//	2-3         reserved, zero
var labelLayout = fieldcodec.MustLayout("ndr.format_label",
	fieldcodec.Field("int_repr", fieldcodec.Uint(4)),
	fieldcodec.Field("char_repr", fieldcodec.Uint(4)),
	fieldcodec.Field("float_repr", fieldcodec.Uint(8)),
	fieldcodec.Pad(16),
)

var (
	slotIntRepr   = labelLayout.MustIndex("int_repr")
	slotCharRepr  = labelLayout.MustIndex("char_repr")
	slotFloatRepr = labelLayout.MustIndex("float_repr")
)

// FormatLabel is the NDR data representation label.
type FormatLabel struct {
	IntRepr   uint8
	CharRepr  uint8
	FloatRepr uint8
}

// DefaultLabel is little-endian, ASCII, IEEE: 0x10 0x00 0x00 0x00.
var DefaultLabel = FormatLabel{IntRepr: IntLittleEndian, CharRepr: CharASCII, FloatRepr: FloatIEEE}

// ReadFormatLabel reads a label at r's position. Unknown representation
// values fail with wire.ErrDecode and leave the reserved bytes unchecked.
func ReadFormatLabel(r *bitcursor.Reader) (FormatLabel, error) {
	start := r.Offset()
	rec, err := fieldcodec.DecodeFrom(labelLayout, r)
	if err != nil {
		return FormatLabel{}, err
	}
	l := FormatLabel{
		IntRepr:   uint8(rec.At(slotIntRepr).Uint()),
		CharRepr:  uint8(rec.At(slotCharRepr).Uint()),
		FloatRepr: uint8(rec.At(slotFloatRepr).Uint()),
	}
	if err := l.validate(wire.KindDecodeError, "ReadFormatLabel", start); err != nil {
		return FormatLabel{}, err
	}
	return l, nil
}

// DecodeFormatLabel decodes a label from the first four bytes of data.
func DecodeFormatLabel(data []byte) (FormatLabel, error) {
	return ReadFormatLabel(bitcursor.NewReader(data))
}

// Put writes the label at w's position. The reserved bytes are written as
// zero.
func (l FormatLabel) Put(w *bitcursor.Writer) error {
	if err := l.validate(wire.KindInvalidArgument, "WriteFormatLabel", w.Position()); err != nil {
		return err
	}
	return fieldcodec.EncodeTo(labelLayout, l.Record(), w)
}

// Encode returns the four-byte encoding of the label.
func (l FormatLabel) Encode() ([]byte, error) {
	w := bitcursor.NewWriter(LabelSize)
	if err := l.Put(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Record returns the label as a field record.
func (l FormatLabel) Record() *fieldcodec.Record {
	rec := fieldcodec.NewRecord(labelLayout)
	rec.SetAt(slotIntRepr, fieldcodec.UintValue(uint64(l.IntRepr)))
	rec.SetAt(slotCharRepr, fieldcodec.UintValue(uint64(l.CharRepr)))
	rec.SetAt(slotFloatRepr, fieldcodec.UintValue(uint64(l.FloatRepr)))
	return rec
}

func (l FormatLabel) validate(kind wire.Kind, op string, pos wire.Position) error {
	var field string
	switch {
	case l.IntRepr > IntLittleEndian:
		field = "int_repr"
	case l.CharRepr > CharEBCDIC:
		field = "char_repr"
	case l.FloatRepr > FloatIBM:
		field = "float_repr"
	default:
		return nil
	}
	e := wire.Errorf(kind, op, pos, "unknown representation in label %s", l)
	e.Field = field
	return e
}

// ByteOrder returns the integer byte order announced by the label.
func (l FormatLabel) ByteOrder() wire.ByteOrder {
	if l.IntRepr == IntLittleEndian {
		return wire.LittleEndian
	}
	return wire.BigEndian
}

// Charset returns the character set announced by the label.
func (l FormatLabel) Charset() wire.Charset {
	if l.CharRepr == CharEBCDIC {
		return wire.CharsetEBCDIC
	}
	return wire.CharsetASCII
}

// FloatName names the floating-point representation.
func (l FormatLabel) FloatName() string {
	switch l.FloatRepr {
	case FloatIEEE:
		return "IEEE"
	case FloatVAX:
		return "VAX"
	case FloatCray:
		return "Cray"
	case FloatIBM:
		return "IBM"
	default:
		return fmt.Sprintf("float(%d)", l.FloatRepr)
	}
}

func (l FormatLabel) String() string {
	return fmt.Sprintf("%s/%s/%s", l.ByteOrder(), l.Charset(), l.FloatName())
}
