package bitcursor

import (
	"bytes"

	"github.com/marmos91/netwire/pkg/wire"
)

// Writer is a bit-precise write cursor. Bits not yet written are zero.
type Writer struct {
	buf   []byte // written bytes are buf[:n]
	n     int
	pos   int // bits written
	limit int // maximum bytes, or -1 when the buffer grows on demand
}

// NewWriter creates a growable Writer with an initial capacity hint in bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, max(sizeHint, 0)), limit: -1}
}

// NewWriterBuffer creates a Writer that writes into buf and never grows past
// len(buf). The existing contents of buf are overwritten as bytes are reached.
func NewWriterBuffer(buf []byte) *Writer {
	return &Writer{buf: buf, limit: len(buf)}
}

func (w *Writer) fail(kind wire.Kind, op string, format string, args ...any) *wire.Error {
	return wire.Errorf(kind, op, wire.PositionAt(w.pos), format, args...)
}

// reserve makes room for bits bits starting at bit position start.
func (w *Writer) reserve(op string, start, bits int) error {
	need := (start + bits + 7) >> 3
	if need <= w.n {
		return nil
	}
	if w.limit >= 0 && need > w.limit {
		return w.fail(wire.KindOutOfRange, op, "need %d bits at %s, capacity %d bytes",
			bits, wire.PositionAt(start), w.limit)
	}
	if need > len(w.buf) {
		nb := make([]byte, max(need, 2*len(w.buf), 16))
		copy(nb, w.buf[:w.n])
		w.buf = nb
	}
	clear(w.buf[w.n:need])
	w.n = need
	return nil
}

// Position returns the current (byte, bit) write position.
func (w *Writer) Position() wire.Position {
	return wire.PositionAt(w.pos)
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.pos
}

// Len returns the number of bytes touched so far, counting a trailing
// partial byte.
func (w *Writer) Len() int {
	return w.n
}

// Bytes returns the written bytes. A trailing partial byte has its unused
// low-order bits set to zero. The slice aliases the Writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.n]
}

// Align pads the current partial byte with zero bits.
func (w *Writer) Align() {
	w.pos = alignUp(w.pos)
}

// WriteBytes aligns and appends b.
func (w *Writer) WriteBytes(b []byte) error {
	start := alignUp(w.pos)
	if err := w.reserve("WriteBytes", start, len(b)*8); err != nil {
		return err
	}
	copy(w.buf[start>>3:], b)
	w.pos = start + len(b)*8
	return nil
}

// WriteFixedString aligns and writes s encoded under cs. The encoding must
// be exactly n bytes long.
func (w *Writer) WriteFixedString(s string, n int, cs wire.Charset) error {
	const op = "WriteFixedString"
	b, err := cs.Encode(s)
	if err != nil {
		return w.fail(wire.KindInvalidArgument, op, "%v", err)
	}
	if len(b) != n {
		return w.fail(wire.KindInvalidArgument, op, "encoded length %d, field length %d", len(b), n)
	}
	start := alignUp(w.pos)
	if err := w.reserve(op, start, n*8); err != nil {
		return err
	}
	copy(w.buf[start>>3:], b)
	w.pos = start + n*8
	return nil
}

// WriteLengthPrefixedString aligns and writes a one-byte length followed by
// s encoded under cs. The length counts the text bytes only.
func (w *Writer) WriteLengthPrefixedString(s string, cs wire.Charset) error {
	const op = "WriteLengthPrefixedString"
	b, err := cs.Encode(s)
	if err != nil {
		return w.fail(wire.KindInvalidArgument, op, "%v", err)
	}
	if len(b) > 0xFF {
		return w.fail(wire.KindInvalidArgument, op, "string of %d bytes exceeds one-byte length prefix", len(b))
	}
	start := alignUp(w.pos)
	if err := w.reserve(op, start, (len(b)+1)*8); err != nil {
		return err
	}
	i := start >> 3
	w.buf[i] = byte(len(b))
	copy(w.buf[i+1:], b)
	w.pos = start + (len(b)+1)*8
	return nil
}

// WriteTerminatedString aligns and writes s encoded under cs followed by
// the one-byte terminator. The encoded text must not contain the terminator.
func (w *Writer) WriteTerminatedString(s string, terminator []byte, cs wire.Charset) error {
	const op = "WriteTerminatedString"
	if len(terminator) != 1 {
		return w.fail(wire.KindInvalidArgument, op, "terminator must be exactly one byte, got %d", len(terminator))
	}
	b, err := cs.Encode(s)
	if err != nil {
		return w.fail(wire.KindInvalidArgument, op, "%v", err)
	}
	if bytes.IndexByte(b, terminator[0]) >= 0 {
		return w.fail(wire.KindInvalidArgument, op, "text contains terminator 0x%02x", terminator[0])
	}
	start := alignUp(w.pos)
	if err := w.reserve(op, start, (len(b)+1)*8); err != nil {
		return err
	}
	i := start >> 3
	copy(w.buf[i:], b)
	w.buf[i+len(b)] = terminator[0]
	w.pos = start + (len(b)+1)*8
	return nil
}

// WriteUint writes the low bits bits of v. Values that do not fit in bits
// are rejected rather than truncated.
func (w *Writer) WriteUint(bits int, order wire.ByteOrder, v uint64) error {
	const op = "WriteUint"
	mode, msg := checkUint(w.pos, bits, order)
	if msg != "" {
		return w.fail(wire.KindInvalidArgument, op, "%s", msg)
	}
	if !fits(v, bits) {
		return w.fail(wire.KindInvalidArgument, op, "value %d does not fit in %d bits", v, bits)
	}
	need := bits
	if mode == modeLittleWord {
		need = storageWidth(bits)
	}
	if err := w.reserve(op, w.pos, need); err != nil {
		return err
	}
	switch mode {
	case modeBig:
		putBits(w.buf, w.pos, bits, v)
	case modeLittle:
		putLittle(w.buf[w.pos>>3:], bits/8, v)
	case modeLittleWord:
		putLittleWord(w.buf[w.pos>>3:], need, bits, v)
	}
	w.pos += bits
	return nil
}

// WriteBool writes a 1-bit or 8-bit boolean as 1 or 0.
func (w *Writer) WriteBool(bits int, v bool) error {
	if bits != 1 && bits != 8 {
		return w.fail(wire.KindInvalidArgument, "WriteBool", "boolean width must be 1 or 8 bits, got %d", bits)
	}
	var u uint64
	if v {
		u = 1
	}
	return w.WriteUint(bits, wire.BigEndian, u)
}

// SkipBits emits n zero bits.
func (w *Writer) SkipBits(n int) error {
	if n < 0 {
		return w.fail(wire.KindInvalidArgument, "SkipBits", "negative bit count %d", n)
	}
	if err := w.reserve("SkipBits", w.pos, n); err != nil {
		return err
	}
	w.pos += n
	return nil
}

// SkipBytes aligns and emits n zero bytes.
func (w *Writer) SkipBytes(n int) error {
	if n < 0 {
		return w.fail(wire.KindInvalidArgument, "SkipBytes", "negative byte count %d", n)
	}
	start := alignUp(w.pos)
	if err := w.reserve("SkipBytes", start, n*8); err != nil {
		return err
	}
	w.pos = start + n*8
	return nil
}
