package ipv4

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/marmos91/netwire/pkg/ip/ipproto"
	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
	"github.com/marmos91/netwire/pkg/wire/variant"
)

const (
	Version      = 4
	MinIHL       = 5
	MaxIHL       = 15
	MinHeaderLen = MinIHL * 4
	MaxHeaderLen = MaxIHL * 4

	// MaxOptionsLen is the largest options area an IHL can describe.
	MaxOptionsLen = MaxHeaderLen - MinHeaderLen
)

var headerLayout = fieldcodec.MustLayout("ipv4",
	fieldcodec.Field("version", fieldcodec.Uint(4)),
	fieldcodec.Field("ihl", fieldcodec.Uint(4)),
	fieldcodec.Field("dscp", fieldcodec.Uint(6)),
	fieldcodec.Field("ecn", fieldcodec.Uint(2)),
	fieldcodec.Field("total_length", fieldcodec.Uint(16)),
	fieldcodec.Field("identification", fieldcodec.Uint(16)),
	fieldcodec.Field("flag_reserved", fieldcodec.Bool()),
	fieldcodec.Field("flag_dont_fragment", fieldcodec.Bool()),
	fieldcodec.Field("flag_more_fragments", fieldcodec.Bool()),
	fieldcodec.Field("fragment_offset", fieldcodec.Uint(13)),
	fieldcodec.Field("ttl", fieldcodec.Uint(8)),
	fieldcodec.Field("protocol", fieldcodec.Uint(8)),
	fieldcodec.Field("checksum", fieldcodec.Uint(16)),
	fieldcodec.Field("source", fieldcodec.Uint(32)).WithHook(fieldcodec.AddrHook()),
	fieldcodec.Field("destination", fieldcodec.Uint(32)).WithHook(fieldcodec.AddrHook()),
)

// Header slots, resolved once.
var (
	slotVersion       = headerLayout.MustIndex("version")
	slotIHL           = headerLayout.MustIndex("ihl")
	slotDSCP          = headerLayout.MustIndex("dscp")
	slotECN           = headerLayout.MustIndex("ecn")
	slotTotalLength   = headerLayout.MustIndex("total_length")
	slotID            = headerLayout.MustIndex("identification")
	slotReserved      = headerLayout.MustIndex("flag_reserved")
	slotDontFragment  = headerLayout.MustIndex("flag_dont_fragment")
	slotMoreFragments = headerLayout.MustIndex("flag_more_fragments")
	slotFragOffset    = headerLayout.MustIndex("fragment_offset")
	slotTTL           = headerLayout.MustIndex("ttl")
	slotProtocol      = headerLayout.MustIndex("protocol")
	slotChecksum      = headerLayout.MustIndex("checksum")
	slotSource        = headerLayout.MustIndex("source")
	slotDestination   = headerLayout.MustIndex("destination")
)

// HeaderLayout returns the fixed header layout.
func HeaderLayout() *fieldcodec.Layout { return headerLayout }

// Flags are the three control bits preceding the fragment offset.
type Flags struct {
	Reserved      bool
	DontFragment  bool
	MoreFragments bool
}

func (f Flags) String() string {
	parts := make([]string, 0, 3)
	if f.Reserved {
		parts = append(parts, "RESERVED")
	}
	if f.DontFragment {
		parts = append(parts, "DF")
	}
	if f.MoreFragments {
		parts = append(parts, "MF")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Packet is a decoded IPv4 packet. It owns all of its byte slices.
type Packet struct {
	Version        uint8
	IHL            uint8
	DSCP           uint8
	ECN            uint8
	TotalLength    uint16
	ID             uint16
	Flags          Flags
	FragmentOffset uint16
	TTL            uint8
	Protocol       uint8
	Checksum       uint16
	Src            netip.Addr
	Dst            netip.Addr

	// Options is nil when IHL is 5.
	Options []variant.SubRecord
	// OptionPadding holds the bytes after End of Option List.
	OptionPadding []byte

	Payload []byte
}

// Decode parses data as an IPv4 packet.
func Decode(data []byte) (*Packet, error) {
	r := bitcursor.NewReader(data)
	rec, err := fieldcodec.DecodeFrom(headerLayout, r)
	if err != nil {
		return nil, err
	}
	p := fromRecord(rec)

	if p.Version != Version {
		return nil, headerError("Decode", "version", "version %d is not %d", p.Version, Version)
	}
	if p.IHL < MinIHL {
		return nil, headerError("Decode", "ihl", "ihl %d is below the minimum %d", p.IHL, MinIHL)
	}

	if p.IHL > MinIHL {
		res, err := variant.Parse(r, OptionSection, p.HeaderLen()-MinHeaderLen)
		if err != nil {
			return nil, err
		}
		p.Options = res.Records
		p.OptionPadding = res.Trailing
	}

	p.Payload = r.Rest()
	return p, nil
}

func headerError(op, field, format string, args ...any) *wire.Error {
	e := wire.Errorf(wire.KindInvalidHeader, op, wire.Position{}, format, args...)
	e.Field = field
	return e
}

func fromRecord(rec *fieldcodec.Record) *Packet {
	src, _ := rec.At(slotSource).Custom().(netip.Addr)
	dst, _ := rec.At(slotDestination).Custom().(netip.Addr)
	return &Packet{
		Version:     uint8(rec.At(slotVersion).Uint()),
		IHL:         uint8(rec.At(slotIHL).Uint()),
		DSCP:        uint8(rec.At(slotDSCP).Uint()),
		ECN:         uint8(rec.At(slotECN).Uint()),
		TotalLength: uint16(rec.At(slotTotalLength).Uint()),
		ID:          uint16(rec.At(slotID).Uint()),
		Flags: Flags{
			Reserved:      rec.At(slotReserved).Bool(),
			DontFragment:  rec.At(slotDontFragment).Bool(),
			MoreFragments: rec.At(slotMoreFragments).Bool(),
		},
		FragmentOffset: uint16(rec.At(slotFragOffset).Uint()),
		TTL:            uint8(rec.At(slotTTL).Uint()),
		Protocol:       uint8(rec.At(slotProtocol).Uint()),
		Checksum:       uint16(rec.At(slotChecksum).Uint()),
		Src:            src,
		Dst:            dst,
	}
}

// Header returns the fixed header as a field record.
func (p *Packet) Header() *fieldcodec.Record {
	rec := fieldcodec.NewRecord(headerLayout)
	rec.SetAt(slotVersion, fieldcodec.UintValue(uint64(p.Version)))
	rec.SetAt(slotIHL, fieldcodec.UintValue(uint64(p.IHL)))
	rec.SetAt(slotDSCP, fieldcodec.UintValue(uint64(p.DSCP)))
	rec.SetAt(slotECN, fieldcodec.UintValue(uint64(p.ECN)))
	rec.SetAt(slotTotalLength, fieldcodec.UintValue(uint64(p.TotalLength)))
	rec.SetAt(slotID, fieldcodec.UintValue(uint64(p.ID)))
	rec.SetAt(slotReserved, fieldcodec.BoolValue(p.Flags.Reserved))
	rec.SetAt(slotDontFragment, fieldcodec.BoolValue(p.Flags.DontFragment))
	rec.SetAt(slotMoreFragments, fieldcodec.BoolValue(p.Flags.MoreFragments))
	rec.SetAt(slotFragOffset, fieldcodec.UintValue(uint64(p.FragmentOffset)))
	rec.SetAt(slotTTL, fieldcodec.UintValue(uint64(p.TTL)))
	rec.SetAt(slotProtocol, fieldcodec.UintValue(uint64(p.Protocol)))
	rec.SetAt(slotChecksum, fieldcodec.UintValue(uint64(p.Checksum)))
	// A zero address leaves its slot unset so encoding reports it missing.
	if p.Src.IsValid() {
		rec.SetAt(slotSource, fieldcodec.CustomValue(p.Src))
	}
	if p.Dst.IsValid() {
		rec.SetAt(slotDestination, fieldcodec.CustomValue(p.Dst))
	}
	return rec
}

// Fields lists the fixed header fields in wire order.
func (p *Packet) Fields() []fieldcodec.FieldValue {
	return p.Header().Values()
}

// HeaderLen returns the header length in bytes declared by IHL.
func (p *Packet) HeaderLen() int {
	return int(p.IHL) * 4
}

// IPVersion returns 4.
func (p *Packet) IPVersion() int { return Version }

// Encode serializes the packet. The IHL must match the encoded options.
func (p *Packet) Encode() ([]byte, error) {
	w := bitcursor.NewWriter(p.HeaderLen() + len(p.Payload))
	if err := p.EncodeTo(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeTo writes the packet at the current position of w, which must be
// byte-aligned.
func (p *Packet) EncodeTo(w *bitcursor.Writer) error {
	if p.IHL < MinIHL {
		return headerError("Encode", "ihl", "ihl %d is below the minimum %d", p.IHL, MinIHL)
	}

	start := w.Len()
	if err := fieldcodec.EncodeTo(headerLayout, p.Header(), w); err != nil {
		return err
	}

	if len(p.Options) > 0 || len(p.OptionPadding) > 0 {
		res := &variant.Result{Records: p.Options, Trailing: p.OptionPadding}
		if err := variant.Encode(w, OptionSection, res); err != nil {
			return err
		}
	}
	if got := w.Len() - start; got != p.HeaderLen() {
		return headerError("Encode", "ihl", "ihl %d declares %d header bytes, options encode to %d",
			p.IHL, p.HeaderLen(), got)
	}

	return w.WriteBytes(p.Payload)
}

// SetOptions replaces the options and recomputes IHL. When the options do
// not fill a 32-bit word, End of Option List and zero padding are appended.
func (p *Packet) SetOptions(opts []variant.SubRecord) error {
	if len(opts) == 0 {
		p.Options, p.OptionPadding, p.IHL = nil, nil, MinIHL
		return nil
	}

	size, err := variant.Size(OptionSection, &variant.Result{Records: opts})
	if err != nil {
		return err
	}
	records := append([]variant.SubRecord(nil), opts...)
	var padding []byte
	if rem := size % 4; rem != 0 {
		if last := records[len(records)-1]; last.Key != OptEndOfList {
			records = append(records, NewOption(OptEndOfList, false, nil))
			size++
			rem = size % 4
		}
		if rem != 0 {
			padding = make([]byte, 4-rem)
			size += len(padding)
		}
	}
	if size > MaxOptionsLen {
		return headerError("SetOptions", "ihl", "options need %d bytes, at most %d fit", size, MaxOptionsLen)
	}

	p.Options = records
	p.OptionPadding = padding
	p.IHL = uint8(MinIHL + size/4)
	return nil
}

func (p *Packet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "IPv4 %s > %s proto %s len %d id 0x%04x ttl %d",
		p.Src, p.Dst, ipproto.Name(p.Protocol), p.TotalLength, p.ID, p.TTL)
	fmt.Fprintf(&b, " ihl %d dscp %d ecn %d flags [%s] frag %d csum 0x%04x",
		p.IHL, p.DSCP, p.ECN, p.Flags, p.FragmentOffset, p.Checksum)
	if len(p.Options) > 0 {
		names := make([]string, len(p.Options))
		for i, o := range p.Options {
			names[i] = o.Name
		}
		fmt.Fprintf(&b, " options [%s]", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, " payload %d bytes", len(p.Payload))
	return b.String()
}
