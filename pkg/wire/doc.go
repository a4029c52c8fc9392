// Package wire holds the vocabulary shared by the bit-level codec packages:
// error kinds, cursor positions, byte orders and text charsets.
//
// The codec itself lives in the sub-packages:
//
//   - bitcursor: bit-precise Reader and Writer over a byte buffer
//   - fieldcodec: declarative (name, format) layouts driving record decode/encode
//   - variant: tag/length/payload sub-record sections driven by a catalog
//
// Every failure returned by those packages is a *Error whose Err field is one
// of the sentinels declared here, so callers can branch with errors.Is:
//
//	if errors.Is(err, wire.ErrOutOfRange) {
//		// truncated input
//	}
package wire
