package ndr

import (
	"unicode/utf8"

	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

// =============================================================================
// Primitive Types [C706 Section 14.2]
// =============================================================================

// ReadBoolean reads a one-byte boolean. Any nonzero byte is true.
func ReadBoolean(r *bitcursor.Reader) (bool, error) {
	return r.ReadBool(8)
}

// WriteBoolean writes 0x01 for true and 0x00 for false.
func WriteBoolean(w *bitcursor.Writer, v bool) error {
	return w.WriteBool(8, v)
}

// Characters are a single byte in the label's character set.
var (
	asciiCharLayout = fieldcodec.MustLayout("ndr.char",
		fieldcodec.Field("value", fieldcodec.Bytes(1)).WithHook(fieldcodec.TextHook(wire.CharsetASCII)),
	)
	ebcdicCharLayout = fieldcodec.MustLayout("ndr.char",
		fieldcodec.Field("value", fieldcodec.Bytes(1)).WithHook(fieldcodec.TextHook(wire.CharsetEBCDIC)),
	)
)

func charLayout(l FormatLabel) *fieldcodec.Layout {
	if l.Charset() == wire.CharsetEBCDIC {
		return ebcdicCharLayout
	}
	return asciiCharLayout
}

// ReadCharacter reads one character in the representation of l.
func ReadCharacter(r *bitcursor.Reader, l FormatLabel) (rune, error) {
	rec, err := fieldcodec.DecodeFrom(charLayout(l), r)
	if err != nil {
		return 0, err
	}
	c, _ := utf8.DecodeRuneInString(rec.At(0).Text())
	return c, nil
}

// WriteCharacter writes c in the representation of l. Characters the
// label's character set cannot hold in one byte fail with
// wire.ErrInvalidArgument.
func WriteCharacter(w *bitcursor.Writer, l FormatLabel, c rune) error {
	layout := charLayout(l)
	rec := fieldcodec.NewRecord(layout)
	rec.SetAt(0, fieldcodec.TextValue(string(c)))
	return fieldcodec.EncodeTo(layout, rec, w)
}

// alignTo returns the padding needed to reach a multiple of n bytes from
// an aligned position.
func alignTo(pos wire.Position, n int) int {
	return (n - pos.Byte%n) % n
}

// ReadULong reads an unsigned 32-bit integer in the label's byte order,
// after skipping to the next 4-byte boundary.
func ReadULong(r *bitcursor.Reader, l FormatLabel) (uint32, error) {
	r.Align()
	if pad := alignTo(r.Position(), 4); pad > 0 {
		if err := r.SkipBytes(pad); err != nil {
			return 0, err
		}
	}
	v, err := r.ReadUint(32, l.ByteOrder())
	return uint32(v), err
}

// WriteULong writes v in the label's byte order, zero padding to the next
// 4-byte boundary first.
func WriteULong(w *bitcursor.Writer, l FormatLabel, v uint32) error {
	w.Align()
	if pad := alignTo(w.Position(), 4); pad > 0 {
		if err := w.SkipBytes(pad); err != nil {
			return err
		}
	}
	return w.WriteUint(32, l.ByteOrder(), uint64(v))
}
