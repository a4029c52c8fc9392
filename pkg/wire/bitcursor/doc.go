// Package bitcursor provides bit-precise reading and writing over byte buffers.
//
// A cursor position is a byte offset plus a bit offset in [0, 8). Every read,
// write or skip of N bits advances the position by exactly N bits. Byte
// granular operations (raw bytes, strings, SkipBytes) first round the
// position up to the next byte boundary.
//
// Unlike a sticky-error cursor, every operation returns its own error and a
// failed operation leaves the position untouched:
//
//	r := bitcursor.NewReader(data)
//	version, err := r.ReadUint(4, wire.BigEndian)
//	if err != nil {
//	    return err
//	}
//	ihl, err := r.ReadUint(4, wire.BigEndian)
//
// Errors are *wire.Error values carrying the position where the failing
// operation began, so callers parsing best-effort can see how far they got.
//
// # Bit numbering
//
// Fields are numbered most-significant-bit first. A big-endian integer may
// start at any bit offset and may span up to nine bytes (a 64-bit field at
// bit offset 7). Little-endian and native integers wider than what is left of
// the current byte must start on a byte boundary. A field lying entirely
// inside one byte is accepted for any byte order since ordering does not
// apply to it.
//
// An aligned little-endian field whose width is a multiple of 8 occupies
// exactly that many bytes. Any other width is read from the smallest
// storage word of 16, 32 or 64 bits that covers it: the word is assembled in
// the given byte order and the field is its top bits. The storage word must
// fit in the buffer, so a 12-bit little-endian field needs two bytes:
//
//	r := bitcursor.NewReader([]byte{0x34, 0x12})
//	v, _ := r.ReadUint(12, wire.LittleEndian) // 0x123, position 1:4
//
// # Writer
//
// Writer mirrors Reader bit for bit. It either grows on demand (NewWriter) or
// writes into a caller-provided buffer of fixed capacity (NewWriterBuffer),
// where overflowing the buffer fails with wire.ErrOutOfRange exactly like a
// short read.
package bitcursor
