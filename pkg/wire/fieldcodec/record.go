package fieldcodec

import (
	"fmt"
	"net/netip"

	"github.com/marmos91/netwire/pkg/wire"
)

// Record holds one value slot per layout descriptor. Padding slots stay unset.
type Record struct {
	layout *Layout
	slots  []Value
}

// NewRecord creates an empty record for l.
func NewRecord(l *Layout) *Record {
	return &Record{layout: l, slots: make([]Value, len(l.fields))}
}

func (r *Record) Layout() *Layout { return r.layout }

// At returns the value in slot i.
func (r *Record) At(i int) Value { return r.slots[i] }

// SetAt stores v in slot i. Use with indices obtained from Layout.MustIndex.
func (r *Record) SetAt(i int, v Value) { r.slots[i] = v }

func (r *Record) lookup(op, name string) (int, error) {
	i, ok := r.layout.index[name]
	if !ok {
		e := wire.Errorf(wire.KindInvalidArgument, op, wire.Position{}, "layout %q has no field %q", r.layout.name, name)
		e.Field = name
		return 0, e
	}
	return i, nil
}

// Set stores v under name.
func (r *Record) Set(name string, v Value) error {
	i, err := r.lookup("Set", name)
	if err != nil {
		return err
	}
	r.slots[i] = v
	return nil
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (Value, bool) {
	i, ok := r.layout.index[name]
	if !ok || !r.slots[i].IsSet() {
		return Value{}, false
	}
	return r.slots[i], true
}

// Has reports whether name holds a value.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Unset clears the value stored under name.
func (r *Record) Unset(name string) {
	if i, ok := r.layout.index[name]; ok {
		r.slots[i] = Value{}
	}
}

func (r *Record) typed(name string, kind ValueKind) (Value, error) {
	i, err := r.lookup("Get", name)
	if err != nil {
		return Value{}, err
	}
	v := r.slots[i]
	if !v.IsSet() {
		e := wire.Errorf(wire.KindMissingField, "Get", wire.Position{}, "no value")
		e.Field = name
		return Value{}, e
	}
	if v.kind != kind {
		e := wire.Errorf(wire.KindInvalidArgument, "Get", wire.Position{}, "holds %s, want %s", v.kind, kind)
		e.Field = name
		return Value{}, e
	}
	return v, nil
}

// Uint returns the unsigned integer stored under name.
func (r *Record) Uint(name string) (uint64, error) {
	v, err := r.typed(name, KindUint)
	return v.u, err
}

// Bool returns the boolean stored under name.
func (r *Record) Bool(name string) (bool, error) {
	v, err := r.typed(name, KindBool)
	return v.Bool(), err
}

// Bytes returns the byte string stored under name.
func (r *Record) Bytes(name string) ([]byte, error) {
	v, err := r.typed(name, KindBytes)
	return v.b, err
}

// Text returns the text stored under name.
func (r *Record) Text(name string) (string, error) {
	v, err := r.typed(name, KindText)
	return v.s, err
}

// Addr returns the address produced by AddrHook for name.
func (r *Record) Addr(name string) (netip.Addr, error) {
	v, err := r.typed(name, KindCustom)
	if err != nil {
		return netip.Addr{}, err
	}
	a, ok := v.x.(netip.Addr)
	if !ok {
		e := wire.Errorf(wire.KindInvalidArgument, "Get", wire.Position{}, "holds %T, want netip.Addr", v.x)
		e.Field = name
		return netip.Addr{}, e
	}
	return a, nil
}

// FieldValue pairs a field name with its value for display.
type FieldValue struct {
	Name   string
	Format Format
	Value  Value
}

// Values lists the named fields in layout order, skipping padding.
func (r *Record) Values() []FieldValue {
	out := make([]FieldValue, 0, len(r.slots))
	for i, d := range r.layout.fields {
		if d.Format.Kind == FormatPadding {
			continue
		}
		out = append(out, FieldValue{Name: d.Name, Format: d.Format, Value: r.slots[i]})
	}
	return out
}

func (r *Record) String() string {
	s := r.layout.name + "{"
	for i, fv := range r.Values() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%s", fv.Name, fv.Value)
	}
	return s + "}"
}
