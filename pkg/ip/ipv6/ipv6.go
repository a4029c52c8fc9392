// Package ipv6 decodes the fixed IPv6 header. Extension headers and the
// upper-layer payload are kept as opaque bytes.
package ipv6

import (
	"fmt"
	"net/netip"

	"github.com/marmos91/netwire/pkg/ip/ipproto"
	"github.com/marmos91/netwire/pkg/wire"
	"github.com/marmos91/netwire/pkg/wire/bitcursor"
	"github.com/marmos91/netwire/pkg/wire/fieldcodec"
)

const (
	Version   = 6
	HeaderLen = 40
)

var headerLayout = fieldcodec.MustLayout("ipv6",
	fieldcodec.Field("version", fieldcodec.Uint(4)),
	fieldcodec.Field("traffic_class", fieldcodec.Uint(8)),
	fieldcodec.Field("flow_label", fieldcodec.Uint(20)),
	fieldcodec.Field("payload_length", fieldcodec.Uint(16)),
	fieldcodec.Field("next_header", fieldcodec.Uint(8)),
	fieldcodec.Field("hop_limit", fieldcodec.Uint(8)),
	fieldcodec.Field("source", fieldcodec.Bytes(16)).WithHook(fieldcodec.AddrHook()),
	fieldcodec.Field("destination", fieldcodec.Bytes(16)).WithHook(fieldcodec.AddrHook()),
)

var (
	slotVersion       = headerLayout.MustIndex("version")
	slotTrafficClass  = headerLayout.MustIndex("traffic_class")
	slotFlowLabel     = headerLayout.MustIndex("flow_label")
	slotPayloadLength = headerLayout.MustIndex("payload_length")
	slotNextHeader    = headerLayout.MustIndex("next_header")
	slotHopLimit      = headerLayout.MustIndex("hop_limit")
	slotSource        = headerLayout.MustIndex("source")
	slotDestination   = headerLayout.MustIndex("destination")
)

// HeaderLayout returns the fixed header layout.
func HeaderLayout() *fieldcodec.Layout { return headerLayout }

// Packet is a decoded IPv6 packet.
type Packet struct {
	Version       uint8
	TrafficClass  uint8
	FlowLabel     uint32
	PayloadLength uint16
	NextHeader    uint8
	HopLimit      uint8
	Src           netip.Addr
	Dst           netip.Addr

	// Payload is everything after the fixed header, extension headers
	// included.
	Payload []byte
}

// Decode parses data as an IPv6 packet.
func Decode(data []byte) (*Packet, error) {
	r := bitcursor.NewReader(data)
	rec, err := fieldcodec.DecodeFrom(headerLayout, r)
	if err != nil {
		return nil, err
	}

	src, _ := rec.At(slotSource).Custom().(netip.Addr)
	dst, _ := rec.At(slotDestination).Custom().(netip.Addr)
	p := &Packet{
		Version:       uint8(rec.At(slotVersion).Uint()),
		TrafficClass:  uint8(rec.At(slotTrafficClass).Uint()),
		FlowLabel:     uint32(rec.At(slotFlowLabel).Uint()),
		PayloadLength: uint16(rec.At(slotPayloadLength).Uint()),
		NextHeader:    uint8(rec.At(slotNextHeader).Uint()),
		HopLimit:      uint8(rec.At(slotHopLimit).Uint()),
		Src:           src,
		Dst:           dst,
	}
	if p.Version != Version {
		e := wire.Errorf(wire.KindInvalidHeader, "Decode", wire.Position{}, "version %d is not %d", p.Version, Version)
		e.Field = "version"
		return nil, e
	}

	p.Payload = r.Rest()
	return p, nil
}

// Header returns the fixed header as a field record.
func (p *Packet) Header() *fieldcodec.Record {
	rec := fieldcodec.NewRecord(headerLayout)
	rec.SetAt(slotVersion, fieldcodec.UintValue(uint64(p.Version)))
	rec.SetAt(slotTrafficClass, fieldcodec.UintValue(uint64(p.TrafficClass)))
	rec.SetAt(slotFlowLabel, fieldcodec.UintValue(uint64(p.FlowLabel)))
	rec.SetAt(slotPayloadLength, fieldcodec.UintValue(uint64(p.PayloadLength)))
	rec.SetAt(slotNextHeader, fieldcodec.UintValue(uint64(p.NextHeader)))
	rec.SetAt(slotHopLimit, fieldcodec.UintValue(uint64(p.HopLimit)))
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

// IPVersion returns 6.
func (p *Packet) IPVersion() int { return Version }

// Encode serializes the packet.
func (p *Packet) Encode() ([]byte, error) {
	w := bitcursor.NewWriter(HeaderLen + len(p.Payload))
	if err := p.EncodeTo(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeTo writes the packet at the current position of w.
func (p *Packet) EncodeTo(w *bitcursor.Writer) error {
	if err := fieldcodec.EncodeTo(headerLayout, p.Header(), w); err != nil {
		return err
	}
	return w.WriteBytes(p.Payload)
}

func (p *Packet) String() string {
	return fmt.Sprintf("IPv6 %s > %s next %s len %d hlim %d tc %d flow 0x%05x payload %d bytes",
		p.Src, p.Dst, ipproto.Name(p.NextHeader), p.PayloadLength, p.HopLimit,
		p.TrafficClass, p.FlowLabel, len(p.Payload))
}
