package bitcursor

import (
	"bytes"

	"github.com/marmos91/netwire/pkg/wire"
)

// Reader is a bit-precise read cursor over an immutable byte buffer.
//
// A Reader is owned by a single decode call and is not safe for concurrent
// use. It never modifies the buffer it was given.
type Reader struct {
	data []byte
	pos  int // bits consumed
	base int // absolute byte offset of data[0], for error positions
}

// NewReader creates a Reader positioned at (0, 0).
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) fail(kind wire.Kind, op string, format string, args ...any) *wire.Error {
	return wire.Errorf(kind, op, r.absolute(r.pos), format, args...)
}

func (r *Reader) absolute(pos int) wire.Position {
	p := wire.PositionAt(pos)
	p.Byte += r.base
	return p
}

// Position returns the current (byte, bit) position relative to the
// start of this reader's buffer.
func (r *Reader) Position() wire.Position {
	return wire.PositionAt(r.pos)
}

// Offset returns the current position relative to the outermost buffer
// when r was produced by Limit.
func (r *Reader) Offset() wire.Position {
	return r.absolute(r.pos)
}

// Len returns the buffer length in bytes.
func (r *Reader) Len() int {
	return len(r.data)
}

// RemainingBits returns the number of unread bits.
func (r *Reader) RemainingBits() int {
	return len(r.data)*8 - r.pos
}

// Exhausted reports whether the cursor sits at (Len, 0).
func (r *Reader) Exhausted() bool {
	return r.pos == len(r.data)*8
}

func alignUp(pos int) int {
	return (pos + 7) &^ 7
}

// Align discards the remaining bits of a partially consumed byte.
// It is a no-op when the cursor is already byte aligned.
func (r *Reader) Align() {
	r.pos = alignUp(r.pos)
}

// need verifies that bits bits are available from bit position start.
func (r *Reader) need(op string, start, bits int) *wire.Error {
	if start+bits > len(r.data)*8 {
		return r.fail(wire.KindOutOfRange, op, "need %d bits at %s, have %d",
			bits, r.absolute(start), len(r.data)*8-start)
	}
	return nil
}

// alignedSpan checks that n bytes are available after aligning and returns
// the aligned byte offset.
func (r *Reader) alignedSpan(op string, n int) (int, error) {
	if n < 0 {
		return 0, r.fail(wire.KindInvalidArgument, op, "negative byte count %d", n)
	}
	start := alignUp(r.pos)
	if err := r.need(op, start, n*8); err != nil {
		return 0, err
	}
	return start >> 3, nil
}

// ReadBytes aligns the cursor and returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	i, err := r.alignedSpan("ReadBytes", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[i:i+n])
	r.pos = (i + n) * 8
	return out, nil
}

// ReadFixedString aligns and reads n bytes decoded under cs.
func (r *Reader) ReadFixedString(n int, cs wire.Charset) (string, error) {
	i, err := r.alignedSpan("ReadFixedString", n)
	if err != nil {
		return "", err
	}
	s, err := cs.Decode(r.data[i : i+n])
	if err != nil {
		return "", r.fail(wire.KindDecodeError, "ReadFixedString", "%v", err)
	}
	r.pos = (i + n) * 8
	return s, nil
}

// ReadLengthPrefixedString aligns, reads a one-byte length L and then L bytes
// of text. The length byte counts the text bytes only, not itself.
func (r *Reader) ReadLengthPrefixedString(cs wire.Charset) (string, error) {
	const op = "ReadLengthPrefixedString"
	i, err := r.alignedSpan(op, 1)
	if err != nil {
		return "", err
	}
	n := int(r.data[i])
	if err := r.need(op, (i+1)*8, n*8); err != nil {
		return "", err
	}
	s, err := cs.Decode(r.data[i+1 : i+1+n])
	if err != nil {
		return "", r.fail(wire.KindDecodeError, op, "%v", err)
	}
	r.pos = (i + 1 + n) * 8
	return s, nil
}

// ReadTerminatedString aligns and reads text up to a single-byte terminator.
// The terminator is consumed but not returned.
func (r *Reader) ReadTerminatedString(terminator []byte, cs wire.Charset) (string, error) {
	const op = "ReadTerminatedString"
	if len(terminator) != 1 {
		return "", r.fail(wire.KindInvalidArgument, op, "terminator must be exactly one byte, got %d", len(terminator))
	}
	i, err := r.alignedSpan(op, 0)
	if err != nil {
		return "", err
	}
	end := bytes.IndexByte(r.data[i:], terminator[0])
	if end < 0 {
		return "", r.fail(wire.KindOutOfRange, op, "terminator 0x%02x not found", terminator[0])
	}
	s, err := cs.Decode(r.data[i : i+end])
	if err != nil {
		return "", r.fail(wire.KindDecodeError, op, "%v", err)
	}
	r.pos = (i + end + 1) * 8
	return s, nil
}

// ReadUint reads an unsigned integer of bits bits (1..64).
//
// The result is the field's value read most-significant bit first. For
// big-endian order the field may start at any bit offset; see the package
// documentation for the little-endian restrictions.
func (r *Reader) ReadUint(bits int, order wire.ByteOrder) (uint64, error) {
	mode, msg := checkUint(r.pos, bits, order)
	if msg != "" {
		return 0, r.fail(wire.KindInvalidArgument, "ReadUint", "%s", msg)
	}
	need := bits
	if mode == modeLittleWord {
		need = storageWidth(bits)
	}
	if err := r.need("ReadUint", r.pos, need); err != nil {
		return 0, err
	}
	var v uint64
	switch mode {
	case modeBig:
		v = getBits(r.data, r.pos, bits)
	case modeLittle:
		v = getLittle(r.data[r.pos>>3:], bits/8)
	case modeLittleWord:
		v = getLittleWord(r.data[r.pos>>3:], need, bits)
	}
	r.pos += bits
	return v, nil
}

// PeekUint is ReadUint without advancing the cursor.
func (r *Reader) PeekUint(bits int, order wire.ByteOrder) (uint64, error) {
	saved := r.pos
	v, err := r.ReadUint(bits, order)
	r.pos = saved
	return v, err
}

// ReadBool reads a 1-bit or 8-bit boolean. Any nonzero value is true.
func (r *Reader) ReadBool(bits int) (bool, error) {
	if bits != 1 && bits != 8 {
		return false, r.fail(wire.KindInvalidArgument, "ReadBool", "boolean width must be 1 or 8 bits, got %d", bits)
	}
	v, err := r.ReadUint(bits, wire.BigEndian)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SkipBits advances the cursor by n bits without reading.
func (r *Reader) SkipBits(n int) error {
	if n < 0 {
		return r.fail(wire.KindInvalidArgument, "SkipBits", "negative bit count %d", n)
	}
	if err := r.need("SkipBits", r.pos, n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// SkipBytes aligns the cursor and advances it by n bytes.
func (r *Reader) SkipBytes(n int) error {
	i, err := r.alignedSpan("SkipBytes", n)
	if err != nil {
		return err
	}
	r.pos = (i + n) * 8
	return nil
}

// Limit aligns the cursor and returns a Reader restricted to the next n
// bytes, advancing r past them. Positions reported in errors from the child
// are relative to r's outermost buffer.
func (r *Reader) Limit(n int) (*Reader, error) {
	i, err := r.alignedSpan("Limit", n)
	if err != nil {
		return nil, err
	}
	child := &Reader{data: r.data[i : i+n : i+n], base: r.base + i}
	r.pos = (i + n) * 8
	return child, nil
}

// Rest aligns the cursor and returns a copy of every remaining byte.
func (r *Reader) Rest() []byte {
	start := alignUp(r.pos) >> 3
	out := make([]byte, len(r.data)-start)
	copy(out, r.data[start:])
	r.pos = len(r.data) * 8
	return out
}
