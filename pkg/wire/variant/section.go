package variant

import (
	"strconv"
	"strings"

	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

// StopPolicy selects the conditions that end a section. At least one must
// be set; none is ever inferred.
type StopPolicy uint8

const (
	// StopOnTerminator ends the section after the catalog's terminator tag.
	StopOnTerminator StopPolicy = 1 << iota
	// StopOnLength ends the section when its declared byte length is consumed.
	StopOnLength
	// StopOnEOF ends the section when the input is exhausted.
	StopOnEOF
)

const allStops = StopOnTerminator | StopOnLength | StopOnEOF

func (p StopPolicy) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	if p&StopOnTerminator != 0 {
		parts = append(parts, "terminator")
	}
	if p&StopOnLength != 0 {
		parts = append(parts, "length")
	}
	if p&StopOnEOF != 0 {
		parts = append(parts, "eof")
	}
	if p&^allStops != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// Section describes the sub-record conventions of one protocol.
type Section struct {
	Name string

	// Header is the tag layout read at the start of every sub-record. Its
	// width must be a positive multiple of 8 bits.
	Header *fieldcodec.Layout

	// ClassField and NumberField name the uint header fields forming the
	// catalog key. ClassField may be empty when the protocol has no classes.
	ClassField  string
	NumberField string

	// LengthBits is the width of the big-endian length field (8..32, whole bytes).
	LengthBits int

	// LengthIncludesHeader reports whether the length value counts the tag
	// header and the length field in addition to the payload.
	LengthIncludesHeader bool

	Stop    StopPolicy
	Catalog Catalog
}

func (s *Section) headerBytes() int { return s.Header.BitWidth() / 8 }

// overhead is the number of length units consumed before the payload.
func (s *Section) overhead() int {
	if !s.LengthIncludesHeader {
		return 0
	}
	return s.headerBytes() + s.LengthBits/8
}

func (s *Section) maxLength() uint64 {
	return 1<<uint(s.LengthBits) - 1
}

func (s *Section) uintField(name string) bool {
	i, ok := s.Header.Index(name)
	return ok && s.Header.Field(i).Format.Kind == fieldcodec.FormatUint
}

// Validate reports configuration errors as wire.ErrInvalidCatalog.
func (s *Section) Validate() error {
	switch {
	case s.Header == nil || s.Header.BitWidth() == 0:
		return catalogError("section %q: tag header consumes no bits", s.Name)
	case s.Header.BitWidth()%8 != 0:
		return catalogError("section %q: tag header width %d is not whole bytes", s.Name, s.Header.BitWidth())
	case !s.uintField(s.NumberField):
		return catalogError("section %q: number field %q is not a uint header field", s.Name, s.NumberField)
	case s.ClassField != "" && !s.uintField(s.ClassField):
		return catalogError("section %q: class field %q is not a uint header field", s.Name, s.ClassField)
	case s.LengthBits < 8 || s.LengthBits > 32 || s.LengthBits%8 != 0:
		return catalogError("section %q: length width %d is not 8, 16, 24 or 32", s.Name, s.LengthBits)
	case s.Stop == 0 || s.Stop&^allStops != 0:
		return catalogError("section %q: stop policy %s is not explicit", s.Name, s.Stop)
	case s.Catalog == nil:
		return catalogError("section %q: no catalog", s.Name)
	}
	if s.Stop&StopOnTerminator != 0 && !hasTerminator(s.Catalog) {
		return catalogError("section %q: terminator stop policy without a terminator entry", s.Name)
	}
	return validateEntries(s.Catalog, s.overhead(), "section "+strconv.Quote(s.Name))
}

// KeyOf extracts the catalog key from a decoded tag header.
func (s *Section) KeyOf(hdr *fieldcodec.Record) Key {
	var k Key
	if s.ClassField != "" {
		k.Class, _ = hdr.Uint(s.ClassField)
	}
	k.Number, _ = hdr.Uint(s.NumberField)
	return k
}

// NewHeader builds a tag header for k with every other field zeroed.
func (s *Section) NewHeader(k Key) *fieldcodec.Record {
	hdr := fieldcodec.NewRecord(s.Header)
	for i := 0; i < s.Header.Len(); i++ {
		f := s.Header.Field(i).Format
		switch f.Kind {
		case fieldcodec.FormatUint:
			hdr.SetAt(i, fieldcodec.UintValue(0))
		case fieldcodec.FormatBool:
			hdr.SetAt(i, fieldcodec.BoolValue(false))
		case fieldcodec.FormatBytes:
			hdr.SetAt(i, fieldcodec.BytesValue(make([]byte, f.Size)))
		}
	}
	if s.ClassField != "" {
		_ = hdr.Set(s.ClassField, fieldcodec.UintValue(k.Class))
	}
	_ = hdr.Set(s.NumberField, fieldcodec.UintValue(k.Number))
	return hdr
}
