package fieldcodec

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/marmos91/netwire/pkg/wire"
)

// Hook converts between the wire value of a field and its in-memory form.
//
// Decoded receives the raw value read for format f and returns the value to
// store in the record. Encoding performs the reverse and must return a value
// whose kind matches f.
type Hook interface {
	Decoded(f Format, raw Value) (Value, error)
	Encoding(f Format, v Value) (Value, error)
}

// HookFuncs adapts a pair of functions to Hook. A nil function passes
// values through unchanged.
type HookFuncs struct {
	DecodeFunc func(Format, Value) (Value, error)
	EncodeFunc func(Format, Value) (Value, error)
}

func (h HookFuncs) Decoded(f Format, raw Value) (Value, error) {
	if h.DecodeFunc == nil {
		return raw, nil
	}
	return h.DecodeFunc(f, raw)
}

func (h HookFuncs) Encoding(f Format, v Value) (Value, error) {
	if h.EncodeFunc == nil {
		return v, nil
	}
	return h.EncodeFunc(f, v)
}

type addrHook struct{}

// AddrHook represents a uint:32, bytes:4 or bytes:16 field as a netip.Addr.
// Encoding also accepts the raw storage value.
func AddrHook() Hook { return addrHook{} }

func (addrHook) Decoded(f Format, raw Value) (Value, error) {
	switch {
	case f.Kind == FormatUint && f.Bits == 32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(raw.Uint()))
		return CustomValue(netip.AddrFrom4(b)), nil
	case f.Kind == FormatBytes && f.Size == 4:
		return CustomValue(netip.AddrFrom4([4]byte(raw.Bytes()))), nil
	case f.Kind == FormatBytes && f.Size == 16:
		return CustomValue(netip.AddrFrom16([16]byte(raw.Bytes()))), nil
	default:
		return Value{}, fmt.Errorf("%w: address hook cannot decode %s", wire.ErrInvalidArgument, f)
	}
}

func (addrHook) Encoding(f Format, v Value) (Value, error) {
	if v.Kind() != KindCustom {
		return v, nil
	}
	a, ok := v.Custom().(netip.Addr)
	if !ok || !a.IsValid() {
		return Value{}, fmt.Errorf("%w: expected a valid netip.Addr, got %v", wire.ErrInvalidArgument, v.Custom())
	}
	switch {
	case f.Kind == FormatUint && f.Bits == 32 && a.Is4():
		b := a.As4()
		return UintValue(uint64(binary.BigEndian.Uint32(b[:]))), nil
	case f.Kind == FormatBytes && f.Size == 4 && a.Is4():
		b := a.As4()
		return BytesValue(b[:]), nil
	case f.Kind == FormatBytes && f.Size == 16:
		b := a.As16()
		return BytesValue(b[:]), nil
	default:
		return Value{}, fmt.Errorf("%w: address %s does not fit %s", wire.ErrInvalidArgument, a, f)
	}
}

type textHook struct {
	cs wire.Charset
}

// TextHook represents a byte string field as text under cs.
func TextHook(cs wire.Charset) Hook { return textHook{cs: cs} }

func (h textHook) Decoded(f Format, raw Value) (Value, error) {
	s, err := h.cs.Decode(raw.Bytes())
	if err != nil {
		return Value{}, err
	}
	return TextValue(s), nil
}

func (h textHook) Encoding(f Format, v Value) (Value, error) {
	if v.Kind() != KindText {
		return v, nil
	}
	b, err := h.cs.Encode(v.Text())
	if err != nil {
		return Value{}, err
	}
	return BytesValue(b), nil
}
