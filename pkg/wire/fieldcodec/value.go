package fieldcodec

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindUnset ValueKind = iota
	KindUint
	KindBool
	KindBytes
	KindText
	KindCustom
)

func (k ValueKind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union holding one field value. The zero Value is unset.
type Value struct {
	kind ValueKind
	u    uint64
	b    []byte
	s    string
	x    any
}

func UintValue(v uint64) Value { return Value{kind: KindUint, u: v} }

func BoolValue(v bool) Value {
	val := Value{kind: KindBool}
	if v {
		val.u = 1
	}
	return val
}

// BytesValue stores b without copying.
func BytesValue(b []byte) Value { return Value{kind: KindBytes, b: b} }

func TextValue(s string) Value { return Value{kind: KindText, s: s} }

// CustomValue holds a hook-produced in-memory representation.
func CustomValue(v any) Value { return Value{kind: KindCustom, x: v} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsSet() bool     { return v.kind != KindUnset }
func (v Value) Uint() uint64    { return v.u }
func (v Value) Bool() bool      { return v.u != 0 }
func (v Value) Bytes() []byte   { return v.b }
func (v Value) Text() string    { return v.s }
func (v Value) Custom() any     { return v.x }

func (v Value) String() string {
	switch v.kind {
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindBytes:
		return hex.EncodeToString(v.b)
	case KindText:
		return strconv.Quote(v.s)
	case KindCustom:
		return fmt.Sprint(v.x)
	default:
		return "<unset>"
	}
}
