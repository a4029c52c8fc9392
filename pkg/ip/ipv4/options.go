package ipv4

import (
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
	"github.com/marmos91/netwire/pkg/wire/variant"
)

// Option classes.
const (
	ClassControl uint64 = 0
	ClassDebug   uint64 = 2
)

// Option keys, by (class, number).
var (
	OptEndOfList         = variant.Key{Class: ClassControl, Number: 0}
	OptNoOperation       = variant.Key{Class: ClassControl, Number: 1}
	OptSecurity          = variant.Key{Class: ClassControl, Number: 2}
	OptLooseSourceRoute  = variant.Key{Class: ClassControl, Number: 3}
	OptRecordRoute       = variant.Key{Class: ClassControl, Number: 7}
	OptStreamID          = variant.Key{Class: ClassControl, Number: 8}
	OptStrictSourceRoute = variant.Key{Class: ClassControl, Number: 9}
	OptTimestamp         = variant.Key{Class: ClassDebug, Number: 4}
)

// OptionCatalog lists the options this package understands. Any other
// class/number pair fails decoding with wire.ErrUnknownTag.
var OptionCatalog = variant.StaticCatalog{
	OptEndOfList:         {Name: "End of Option List", Terminator: true},
	OptNoOperation:       {Name: "No Operation"},
	OptSecurity:          {Name: "Security", RequiresLength: true, FixedLength: 11},
	OptLooseSourceRoute:  {Name: "Loose Source Route", RequiresLength: true},
	OptRecordRoute:       {Name: "Record Route", RequiresLength: true},
	OptStreamID:          {Name: "Stream ID", RequiresLength: true, FixedLength: 4},
	OptStrictSourceRoute: {Name: "Strict Source Route", RequiresLength: true},
	OptTimestamp:         {Name: "Internet Timestamp", RequiresLength: true},
}

// optionType is the one-byte option type: copied flag, class, number.
var optionType = fieldcodec.MustLayout("ipv4.option",
	fieldcodec.Field("copied", fieldcodec.Bool()),
	fieldcodec.Field("class", fieldcodec.Uint(2)),
	fieldcodec.Field("number", fieldcodec.Uint(5)),
)

// OptionSection is the options area of an IPv4 header. The length octet
// counts the type and length octets. Bytes after End of Option List up to
// the header length are padding.
var OptionSection = variant.Section{
	Name:                 "ipv4 options",
	Header:               optionType,
	ClassField:           "class",
	NumberField:          "number",
	LengthBits:           8,
	LengthIncludesHeader: true,
	Stop:                 variant.StopOnTerminator | variant.StopOnLength,
	Catalog:              OptionCatalog,
}

// NewOption builds an option sub-record ready for Packet.SetOptions.
func NewOption(key variant.Key, copied bool, payload []byte) variant.SubRecord {
	hdr := OptionSection.NewHeader(key)
	_ = hdr.Set("copied", fieldcodec.BoolValue(copied))

	sr := variant.SubRecord{Header: hdr, Key: key, Payload: payload}
	if e, ok := OptionCatalog.Lookup(key); ok {
		sr.Name = e.Name
		if e.RequiresLength {
			sr.HasLength = true
			sr.Length = len(payload) + 2
		}
	}
	return sr
}

// OptionCopied reports the copied flag of a decoded option.
func OptionCopied(sr variant.SubRecord) bool {
	if sr.Header == nil {
		return false
	}
	c, _ := sr.Header.Bool("copied")
	return c
}
