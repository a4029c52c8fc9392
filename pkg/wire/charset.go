package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Charset names the text encoding used for string fields.
type Charset int

const (
	CharsetUTF8 Charset = iota
	CharsetASCII
	CharsetLatin1
	CharsetEBCDIC // IBM code page 037
)

func (c Charset) String() string {
	switch c {
	case CharsetUTF8:
		return "utf-8"
	case CharsetASCII:
		return "ascii"
	case CharsetLatin1:
		return "latin1"
	case CharsetEBCDIC:
		return "ebcdic"
	default:
		return fmt.Sprintf("charset(%d)", int(c))
	}
}

// ParseCharset resolves a charset name as used in configuration files.
func ParseCharset(name string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return CharsetUTF8, nil
	case "ascii", "us-ascii":
		return CharsetASCII, nil
	case "latin1", "iso-8859-1":
		return CharsetLatin1, nil
	case "ebcdic", "cp037":
		return CharsetEBCDIC, nil
	default:
		return 0, fmt.Errorf("%w: unknown charset %q", ErrInvalidArgument, name)
	}
}

func (c Charset) charmap() *charmap.Charmap {
	switch c {
	case CharsetLatin1:
		return charmap.ISO8859_1
	case CharsetEBCDIC:
		return charmap.CodePage037
	default:
		return nil
	}
}

// Decode converts wire bytes to text. It returns ErrDecode when b is not
// valid under c.
func (c Charset) Decode(b []byte) (string, error) {
	switch c {
	case CharsetUTF8:
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: invalid utf-8 sequence", ErrDecode)
		}
		return string(b), nil
	case CharsetASCII:
		for i, ch := range b {
			if ch >= utf8.RuneSelf {
				return "", fmt.Errorf("%w: non-ascii byte 0x%02x at index %d", ErrDecode, ch, i)
			}
		}
		return string(b), nil
	case CharsetLatin1, CharsetEBCDIC:
		out, err := c.charmap().NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrDecode, c, err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("%w: unknown charset %d", ErrInvalidArgument, int(c))
	}
}

// Encode converts text to wire bytes. Text that c cannot represent is
// rejected with ErrInvalidArgument.
func (c Charset) Encode(s string) ([]byte, error) {
	switch c {
	case CharsetUTF8:
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: invalid utf-8 text", ErrInvalidArgument)
		}
		return []byte(s), nil
	case CharsetASCII:
		for i := 0; i < len(s); i++ {
			if s[i] >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: non-ascii text at index %d", ErrInvalidArgument, i)
			}
		}
		return []byte(s), nil
	case CharsetLatin1, CharsetEBCDIC:
		out, err := c.charmap().NewEncoder().String(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s cannot represent %q: %v", ErrInvalidArgument, c, s, err)
		}
		return []byte(out), nil
	default:
		return nil, fmt.Errorf("%w: unknown charset %d", ErrInvalidArgument, int(c))
	}
}
