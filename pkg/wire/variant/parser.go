package variant

import (
	"errors"

	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

// SubRecord is one decoded sub-record.
type SubRecord struct {
	Header    *fieldcodec.Record
	Key       Key
	Name      string
	HasLength bool
	Length    int // declared length value as read from the wire
	Payload   []byte
}

// Result is a parsed section.
type Result struct {
	Records []SubRecord

	// Trailing holds the section bytes that followed the terminator when the
	// section also has a declared length. They are kept so that re-encoding
	// reproduces the input.
	Trailing []byte
}

// Parse consumes one section from r.
//
// When sec.Stop includes StopOnLength, exactly n bytes are consumed
// (aligning first) and a sub-record running past them fails with
// wire.ErrOutOfRange. Otherwise n is ignored and parsing continues until
// the terminator or, with StopOnEOF, the end of r.
func Parse(r *bitcursor.Reader, sec Section, n int) (*Result, error) {
	if err := sec.Validate(); err != nil {
		return nil, err
	}

	src := r
	if sec.Stop&StopOnLength != 0 {
		var err error
		if src, err = r.Limit(n); err != nil {
			return nil, err
		}
	} else {
		r.Align()
	}

	res := &Result{}
	for {
		// ExpectTag
		if sec.Stop&(StopOnLength|StopOnEOF) != 0 && src.Exhausted() {
			return res, nil
		}

		sr, err := readSubRecord(src, &sec)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, sr)

		if e, _ := sec.Catalog.Lookup(sr.Key); e.Terminator && sec.Stop&StopOnTerminator != 0 {
			if sec.Stop&StopOnLength != 0 {
				res.Trailing = src.Rest()
			}
			return res, nil
		}
	}
}

func readSubRecord(src *bitcursor.Reader, sec *Section) (SubRecord, error) {
	start := src.Offset()

	// ReadTagHeader
	hdr, err := fieldcodec.DecodeFrom(sec.Header, src)
	if err != nil {
		return SubRecord{}, err
	}
	key := sec.KeyOf(hdr)
	entry, ok := sec.Catalog.Lookup(key)
	if !ok {
		return SubRecord{}, wire.Errorf(wire.KindUnknownTag, "Parse", start, "section %q: tag %s", sec.Name, key)
	}

	sr := SubRecord{Header: hdr, Key: key, Name: entry.Name}
	if !entry.RequiresLength {
		return sr, nil
	}

	// ReadLength
	length, err := src.ReadUint(sec.LengthBits, wire.BigEndian)
	if err != nil {
		return SubRecord{}, withName(err, entry.Name)
	}
	if entry.FixedLength != 0 && length != uint64(entry.FixedLength) {
		return SubRecord{}, lengthError(start, entry.Name, "length %d, %s requires %d", length, entry.Name, entry.FixedLength)
	}
	overhead := sec.overhead()
	if length < uint64(overhead) {
		return SubRecord{}, lengthError(start, entry.Name, "length %d is shorter than the %d header bytes it covers", length, overhead)
	}

	// ReadPayload
	payload, err := src.ReadBytes(int(length) - overhead)
	if err != nil {
		return SubRecord{}, withName(err, entry.Name)
	}
	sr.HasLength = true
	sr.Length = int(length)
	sr.Payload = payload
	return sr, nil
}

func lengthError(pos wire.Position, name, format string, args ...any) *wire.Error {
	e := wire.Errorf(wire.KindInvalidLength, "Parse", pos, format, args...)
	e.Field = name
	return e
}

func withName(err error, name string) error {
	var we *wire.Error
	if errors.As(err, &we) {
		return we.WithField(name)
	}
	return err
}

// Size returns the number of bytes Encode would write for records and
// trailing bytes, or an error for records Encode would reject.
func Size(sec Section, res *Result) (int, error) {
	w := bitcursor.NewWriter(64)
	if err := Encode(w, sec, res); err != nil {
		return 0, err
	}
	return w.Len(), nil
}

// Encode writes the section at w's position (aligning first). Lengths are
// recomputed from the payloads; SubRecord.Length is ignored.
func Encode(w *bitcursor.Writer, sec Section, res *Result) error {
	if err := sec.Validate(); err != nil {
		return err
	}
	if res == nil {
		return wire.Errorf(wire.KindInvalidArgument, "Encode", w.Position(), "section %q: nil result", sec.Name)
	}
	w.Align()

	for i, sr := range res.Records {
		entry, ok := sec.Catalog.Lookup(sr.Key)
		if !ok {
			return wire.Errorf(wire.KindUnknownTag, "Encode", w.Position(), "section %q: tag %s", sec.Name, sr.Key)
		}
		if entry.Terminator && sec.Stop&StopOnTerminator != 0 && i != len(res.Records)-1 {
			return wire.Errorf(wire.KindInvalidArgument, "Encode", w.Position(),
				"section %q: %d records follow the terminator", sec.Name, len(res.Records)-1-i)
		}
		if err := encodeSubRecord(w, &sec, sr, entry); err != nil {
			return err
		}
	}

	if len(res.Trailing) > 0 {
		return w.WriteBytes(res.Trailing)
	}
	return nil
}

func encodeSubRecord(w *bitcursor.Writer, sec *Section, sr SubRecord, entry Entry) error {
	start := w.Position()
	hdr := sr.Header
	if hdr == nil {
		hdr = sec.NewHeader(sr.Key)
	} else if got := sec.KeyOf(hdr); got != sr.Key {
		e := wire.Errorf(wire.KindInvalidArgument, "Encode", start, "header tag %s disagrees with key %s", got, sr.Key)
		e.Field = entry.Name
		return e
	}

	if !entry.RequiresLength {
		if len(sr.Payload) != 0 {
			e := wire.Errorf(wire.KindInvalidLength, "Encode", start, "%s carries no payload, got %d bytes", entry.Name, len(sr.Payload))
			e.Field = entry.Name
			return e
		}
		return fieldcodec.EncodeTo(sec.Header, hdr, w)
	}

	length := uint64(len(sr.Payload) + sec.overhead())
	if entry.FixedLength != 0 && length != uint64(entry.FixedLength) {
		e := wire.Errorf(wire.KindInvalidLength, "Encode", start, "length %d, %s requires %d", length, entry.Name, entry.FixedLength)
		e.Field = entry.Name
		return e
	}
	if length > sec.maxLength() {
		e := wire.Errorf(wire.KindInvalidLength, "Encode", start, "length %d exceeds %d-bit length field", length, sec.LengthBits)
		e.Field = entry.Name
		return e
	}

	if err := fieldcodec.EncodeTo(sec.Header, hdr, w); err != nil {
		return err
	}
	if err := w.WriteUint(sec.LengthBits, wire.BigEndian, length); err != nil {
		return withName(err, entry.Name)
	}
	return withName(w.WriteBytes(sr.Payload), entry.Name)
}
