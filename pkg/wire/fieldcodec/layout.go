package fieldcodec

import (
	"fmt"

	"github.com/marmos91/netwire/pkg/wire"
)

// Descriptor names one field of a layout.
type Descriptor struct {
	Name   string
	Format Format
	Hook   Hook
}

// Field creates a descriptor without a hook.
func Field(name string, f Format) Descriptor {
	return Descriptor{Name: name, Format: f}
}

// Pad creates an anonymous padding descriptor.
func Pad(bits int) Descriptor {
	return Descriptor{Format: Padding(bits)}
}

// WithHook returns a copy of d using h.
func (d Descriptor) WithHook(h Hook) Descriptor {
	d.Hook = h
	return d
}

// Layout is an immutable, validated sequence of descriptors.
type Layout struct {
	name   string
	fields []Descriptor
	index  map[string]int
	bits   int
	span   int // bits touched, counting little-endian storage words
}

// NewLayout validates the descriptors and precomputes the name index.
// Names must be unique and non-empty except on padding descriptors, which
// must be unnamed.
func NewLayout(name string, fields ...Descriptor) (*Layout, error) {
	l := &Layout{
		name:   name,
		fields: append([]Descriptor(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, d := range l.fields {
		if err := d.Format.validate(); err != nil {
			return nil, layoutError(name, d.Name, "%v", err)
		}
		if d.Format.Kind == FormatPadding {
			if d.Name != "" || d.Hook != nil {
				return nil, layoutError(name, d.Name, "padding descriptor cannot carry a name or hook")
			}
		} else {
			if d.Name == "" {
				return nil, layoutError(name, "", "field %d has no name", i)
			}
			if _, dup := l.index[d.Name]; dup {
				return nil, layoutError(name, d.Name, "duplicate field name")
			}
			l.index[d.Name] = i
		}
		if f := d.Format; f.Kind == FormatUint && f.Order != wire.BigEndian {
			off := l.bits % 8
			if (f.Bits > 8 && off != 0) || (f.Bits <= 8 && off+f.Bits > 8) {
				return nil, layoutError(name, d.Name, "%s field starts at bit offset %d", f.Order, off)
			}
			if f.Bits > 8 && f.Bits%8 != 0 {
				l.span = max(l.span, l.bits+storageWidth(f.Bits))
			}
		}
		l.bits += d.Format.Width()
	}
	l.span = max(l.span, l.bits)
	return l, nil
}

// storageWidth is the little-endian storage word read for a field of bits
// bits that is not a whole number of bytes.
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

// MustLayout is NewLayout for package-level tables; it panics on error.
func MustLayout(name string, fields ...Descriptor) *Layout {
	l, err := NewLayout(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

func layoutError(layout, field, format string, args ...any) *wire.Error {
	e := wire.Errorf(wire.KindInvalidArgument, "NewLayout", wire.Position{}, "layout %q: %s", layout, fmt.Sprintf(format, args...))
	e.Field = field
	return e
}

// Name returns the layout name used in errors and displays.
func (l *Layout) Name() string { return l.name }

// Len returns the number of descriptors, padding included.
func (l *Layout) Len() int { return len(l.fields) }

// BitWidth returns the total width of the layout in bits.
func (l *Layout) BitWidth() int { return l.bits }

// ByteWidth returns the number of bytes needed to hold the layout.
func (l *Layout) ByteWidth() int { return (l.bits + 7) / 8 }

// Field returns descriptor i.
func (l *Layout) Field(i int) Descriptor { return l.fields[i] }

// Fields returns a copy of the descriptors.
func (l *Layout) Fields() []Descriptor {
	return append([]Descriptor(nil), l.fields...)
}

// Index returns the slot index of the named field.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// MustIndex is Index for package-level slot constants; it panics when name
// is not part of the layout.
func (l *Layout) MustIndex(name string) int {
	i, ok := l.index[name]
	if !ok {
		panic(fmt.Sprintf("fieldcodec: layout %q has no field %q", l.name, name))
	}
	return i
}
