package wire

import (
	"errors"
	"fmt"
)

// Kind classifies codec failures.
type Kind int

const (
	KindNone Kind = iota
	KindOutOfRange
	KindInvalidArgument
	KindDecodeError
	KindUnknownTag
	KindInvalidLength
	KindInvalidHeader
	KindInvalidCatalog
	KindMissingField
)

// Sentinel errors, one per Kind.
var (
	// ErrOutOfRange indicates an operation needs more bits than remain in the buffer.
	ErrOutOfRange = errors.New("wire: out of range")

	// ErrInvalidArgument indicates a caller-supplied parameter violates a precondition.
	ErrInvalidArgument = errors.New("wire: invalid argument")

	// ErrDecode indicates bytes that are not valid under the declared interpretation.
	ErrDecode = errors.New("wire: decode error")

	// ErrUnknownTag indicates a sub-record tag missing from the section catalog.
	ErrUnknownTag = errors.New("wire: unknown tag")

	// ErrInvalidLength indicates a sub-record length that violates its catalog entry.
	ErrInvalidLength = errors.New("wire: invalid length")

	// ErrInvalidHeader indicates a header field that is structurally impossible.
	ErrInvalidHeader = errors.New("wire: invalid header")

	// ErrInvalidCatalog indicates a section or catalog configuration that cannot be parsed safely.
	ErrInvalidCatalog = errors.New("wire: invalid catalog")

	// ErrMissingField indicates an encode request without a required field value.
	ErrMissingField = errors.New("wire: missing field")
)

var kindSentinels = map[Kind]error{
	KindOutOfRange:      ErrOutOfRange,
	KindInvalidArgument: ErrInvalidArgument,
	KindDecodeError:     ErrDecode,
	KindUnknownTag:      ErrUnknownTag,
	KindInvalidLength:   ErrInvalidLength,
	KindInvalidHeader:   ErrInvalidHeader,
	KindInvalidCatalog:  ErrInvalidCatalog,
	KindMissingField:    ErrMissingField,
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOutOfRange:
		return "out_of_range"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindDecodeError:
		return "decode_error"
	case KindUnknownTag:
		return "unknown_tag"
	case KindInvalidLength:
		return "invalid_length"
	case KindInvalidHeader:
		return "invalid_header"
	case KindInvalidCatalog:
		return "invalid_catalog"
	case KindMissingField:
		return "missing_field"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel returns the sentinel error for k, or nil for KindNone.
func (k Kind) Sentinel() error {
	return kindSentinels[k]
}

// Error is the concrete error type returned by the codec packages.
//
// Pos is the cursor position at which the failing operation began. Cursor
// operations that fail leave the cursor where it was, so Pos also tells a
// caller how far decoding got before it stopped.
type Error struct {
	Op     string   // operation that failed, e.g. "ReadUint"
	Pos    Position // cursor position when the operation started
	Field  string   // record field or sub-record name, if known
	Err    error    // one of the package sentinels
	Detail string
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return fmt.Sprintf("%s at %s", msg, e.Pos)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind reports the error classification.
func (e *Error) Kind() Kind {
	for k, s := range kindSentinels {
		if s == e.Err {
			return k
		}
	}
	return KindNone
}

// Errorf builds a *Error of the given kind.
func Errorf(kind Kind, op string, pos Position, format string, args ...any) *Error {
	return &Error{
		Op:     op,
		Pos:    pos,
		Err:    kind.Sentinel(),
		Detail: fmt.Sprintf(format, args...),
	}
}

// WithField returns a copy of e annotated with a field name. A field name
// already present is kept, so the innermost annotation wins.
func (e *Error) WithField(name string) *Error {
	if e.Field != "" {
		return e
	}
	c := *e
	c.Field = name
	return &c
}

// KindOf returns the Kind of err, or KindNone if err does not wrap a codec sentinel.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var we *Error
	if errors.As(err, &we) {
		return we.Kind()
	}
	for k, s := range kindSentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindNone
}

// PositionOf returns the cursor position carried by err, if any.
func PositionOf(err error) (Position, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Pos, true
	}
	return Position{}, false
}
