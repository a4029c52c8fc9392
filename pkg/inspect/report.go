package inspect

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/marmos91/netwire/pkg/ip"
	"github.com/marmos91/netwire/pkg/ip/ipv4"
	"github.com/marmos91/netwire/pkg/ip/ipv6"
)

// Row is one rendered header field.
type Row struct {
	Field  string `json:"field" yaml:"field"`
	Format string `json:"format" yaml:"format"`
	Value  string `json:"value" yaml:"value"`
}

// OptionRow is one rendered IPv4 option.
type OptionRow struct {
	Name    string `json:"name" yaml:"name"`
	Key     string `json:"key" yaml:"key"`
	Copied  bool   `json:"copied" yaml:"copied"`
	Length  string `json:"length" yaml:"length"`
	Payload string `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Verification is the outcome of re-encoding a decoded packet.
type Verification struct {
	Checked bool `json:"checked" yaml:"checked"`
	Match   bool `json:"match" yaml:"match"`
	// Offset is the first differing byte, or -1.
	Offset  int    `json:"offset" yaml:"offset"`
	Encoded int    `json:"encoded_bytes" yaml:"encoded_bytes"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the result of one Inspect call.
type Report struct {
	DecodeID     string        `json:"decode_id" yaml:"decode_id"`
	Source       string        `json:"source" yaml:"source"`
	Size         int           `json:"size" yaml:"size"`
	Version      int           `json:"version" yaml:"version"`
	Summary      string        `json:"summary" yaml:"summary"`
	Fields       []Row         `json:"fields" yaml:"fields"`
	Options      []OptionRow   `json:"options,omitempty" yaml:"options,omitempty"`
	OptionPad    int           `json:"option_padding,omitempty" yaml:"option_padding,omitempty"`
	PayloadSize  int           `json:"payload_size" yaml:"payload_size"`
	PayloadText  string        `json:"payload_text,omitempty" yaml:"payload_text,omitempty"`
	Verification Verification  `json:"verification" yaml:"verification"`
	Duration     time.Duration `json:"duration_ns" yaml:"duration_ns"`

	Packet ip.Packet `json:"-" yaml:"-"`
}

func fieldRows(p ip.Packet) []Row {
	fields := p.Fields()
	rows := make([]Row, len(fields))
	for i, fv := range fields {
		rows[i] = Row{Field: fv.Name, Format: fv.Format.String(), Value: fv.Value.String()}
	}
	return rows
}

func optionRows(p *ipv4.Packet) []OptionRow {
	if len(p.Options) == 0 {
		return nil
	}
	rows := make([]OptionRow, len(p.Options))
	for i, o := range p.Options {
		length := "-"
		if o.HasLength {
			length = strconv.Itoa(o.Length)
		}
		rows[i] = OptionRow{
			Name:    o.Name,
			Key:     o.Key.String(),
			Copied:  ipv4.OptionCopied(o),
			Length:  length,
			Payload: hex.EncodeToString(o.Payload),
		}
	}
	return rows
}

func payloadOf(p ip.Packet) []byte {
	switch pkt := p.(type) {
	case *ipv4.Packet:
		return pkt.Payload
	case *ipv6.Packet:
		return pkt.Payload
	default:
		return nil
	}
}
