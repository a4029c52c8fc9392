package fieldcodec

import (
	"errors"
	"strings"

	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
)

// Decode decodes l from the start of data. Bytes beyond the layout width
// are ignored.
func Decode(l *Layout, data []byte) (*Record, error) {
	return DecodeFrom(l, bitcursor.NewReader(data))
}

// DecodeFrom decodes l at the reader's current position. If the remaining
// input is shorter than the layout the reader is not advanced.
func DecodeFrom(l *Layout, r *bitcursor.Reader) (*Record, error) {
	if r.RemainingBits() < l.span {
		return nil, wire.Errorf(wire.KindOutOfRange, "Decode", r.Offset(),
			"layout %q needs %d bits, have %d", l.name, l.span, r.RemainingBits())
	}

	rec := NewRecord(l)
	for i, d := range l.fields {
		start := r.Offset()
		v, err := readField(r, d.Format)
		if err != nil {
			return nil, withField(err, d.Name)
		}
		if d.Format.Kind == FormatPadding {
			continue
		}
		if d.Hook != nil {
			if v, err = d.Hook.Decoded(d.Format, v); err != nil {
				return nil, hookError(err, wire.KindDecodeError, "Decode", start, d.Name)
			}
		}
		rec.slots[i] = v
	}
	return rec, nil
}

func readField(r *bitcursor.Reader, f Format) (Value, error) {
	switch f.Kind {
	case FormatUint:
		v, err := r.ReadUint(f.Bits, f.Order)
		return UintValue(v), err
	case FormatBool:
		v, err := r.ReadBool(f.Bits)
		return BoolValue(v), err
	case FormatBytes:
		if r.Position().Aligned() {
			b, err := r.ReadBytes(f.Size)
			return BytesValue(b), err
		}
		// Unaligned byte strings are read bit by bit so the layout width
		// stays constant.
		b := make([]byte, f.Size)
		for i := range b {
			v, err := r.ReadUint(8, wire.BigEndian)
			if err != nil {
				return Value{}, err
			}
			b[i] = byte(v)
		}
		return BytesValue(b), nil
	case FormatPadding:
		return Value{}, r.SkipBits(f.Bits)
	default:
		return Value{}, wire.Errorf(wire.KindInvalidArgument, "Decode", r.Offset(), "unknown format %s", f)
	}
}

// Encode encodes rec, which must have been created for l.
//
// The output holds exactly l.BitWidth() bits, extended to the end of a
// little-endian storage word that reaches past them. A trailing partial
// byte is zero filled.
func Encode(l *Layout, rec *Record) ([]byte, error) {
	w := bitcursor.NewWriter((l.span + 7) / 8)
	if err := EncodeTo(l, rec, w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeTo encodes rec at the writer's current position. Every value is
// resolved and checked before the first bit is written.
func EncodeTo(l *Layout, rec *Record, w *bitcursor.Writer) error {
	if rec == nil || rec.layout != l {
		return wire.Errorf(wire.KindInvalidArgument, "Encode", w.Position(), "record does not belong to layout %q", l.name)
	}

	resolved := make([]Value, len(l.fields))
	for i, d := range l.fields {
		if d.Format.Kind == FormatPadding {
			continue
		}
		v := rec.slots[i]
		if !v.IsSet() {
			e := wire.Errorf(wire.KindMissingField, "Encode", w.Position(), "layout %q", l.name)
			e.Field = d.Name
			return e
		}
		if d.Hook != nil {
			var err error
			if v, err = d.Hook.Encoding(d.Format, v); err != nil {
				return hookError(err, wire.KindInvalidArgument, "Encode", w.Position(), d.Name)
			}
		}
		if err := checkValue(d.Format, v); err != nil {
			e := wire.Errorf(wire.KindInvalidArgument, "Encode", w.Position(), "%s", err)
			e.Field = d.Name
			return e
		}
		resolved[i] = v
	}

	for i, d := range l.fields {
		if err := writeField(w, d.Format, resolved[i]); err != nil {
			return withField(err, d.Name)
		}
	}
	return nil
}

type valueError string

func (e valueError) Error() string { return string(e) }

func checkValue(f Format, v Value) error {
	switch f.Kind {
	case FormatUint:
		if v.kind != KindUint {
			return valueError("expected uint value, got " + v.kind.String())
		}
		if f.Bits < 64 && v.u>>uint(f.Bits) != 0 {
			return valueError(v.String() + " does not fit in " + f.String())
		}
	case FormatBool:
		if v.kind != KindBool {
			return valueError("expected bool value, got " + v.kind.String())
		}
	case FormatBytes:
		if v.kind != KindBytes {
			return valueError("expected bytes value, got " + v.kind.String())
		}
		if len(v.b) != f.Size {
			return valueError("byte string length does not match " + f.String())
		}
	}
	return nil
}

func writeField(w *bitcursor.Writer, f Format, v Value) error {
	switch f.Kind {
	case FormatUint:
		return w.WriteUint(f.Bits, f.Order, v.u)
	case FormatBool:
		return w.WriteBool(f.Bits, v.Bool())
	case FormatBytes:
		if w.Position().Aligned() {
			return w.WriteBytes(v.b)
		}
		for _, c := range v.b {
			if err := w.WriteUint(8, wire.BigEndian, uint64(c)); err != nil {
				return err
			}
		}
		return nil
	case FormatPadding:
		return w.SkipBits(f.Bits)
	}
	return nil
}

func withField(err error, name string) error {
	var we *wire.Error
	if name != "" && errors.As(err, &we) {
		return we.WithField(name)
	}
	return err
}

// hookError keeps codec errors raised by a hook and classifies anything
// else as kind.
func hookError(err error, kind wire.Kind, op string, pos wire.Position, field string) error {
	var we *wire.Error
	if errors.As(err, &we) {
		return we.WithField(field)
	}
	detail := err.Error()
	if k := wire.KindOf(err); k != wire.KindNone {
		kind = k
		detail = strings.TrimPrefix(detail, k.Sentinel().Error()+": ")
	}
	e := wire.Errorf(kind, op, pos, "%s", detail)
	e.Field = field
	return e
}
