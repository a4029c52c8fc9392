package commands

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/marmos91/netwire/internal/cli/output"
	"github.com/marmos91/netwire/internal/cli/timeutil"
	"github.com/marmos91/netwire/pkg/inspect"
)

// reportView renders an inspect.Report as titled tables.
type reportView struct {
	*inspect.Report
}

func (v reportView) Sections() []output.Section {
	r := v.Report

	packet := output.NewTableData("Property", "Value")
	packet.AddRow("Decode ID", r.DecodeID)
	packet.AddRow("Source", r.Source)
	packet.AddRow("Size", fmt.Sprintf("%d bytes", r.Size))
	packet.AddRow("Version", "IPv"+strconv.Itoa(r.Version))
	packet.AddRow("Summary", r.Summary)
	packet.AddRow("Decode time", timeutil.FormatDuration(r.Duration))

	fields := output.NewTableData("Field", "Format", "Value")
	for _, f := range r.Fields {
		fields.AddRow(f.Field, f.Format, f.Value)
	}

	options := output.NewTableData("Option", "Key", "Copied", "Length", "Payload")
	for _, o := range r.Options {
		options.AddRow(o.Name, o.Key, strconv.FormatBool(o.Copied), o.Length, o.Payload)
	}
	if r.OptionPad > 0 && len(r.Options) > 0 {
		options.AddRow("(padding)", "-", "-", strconv.Itoa(r.OptionPad), "")
	}

	payload := output.NewTableData("Property", "Value")
	payload.AddRow("Size", humanize.IBytes(uint64(r.PayloadSize)))
	if r.PayloadText != "" {
		payload.AddRow("Text", strconv.Quote(r.PayloadText))
	}

	sections := []output.Section{
		{Title: "PACKET", Table: packet},
		{Title: "HEADER", Table: fields},
		{Title: "OPTIONS", Table: options},
		{Title: "PAYLOAD", Table: payload},
	}

	if r.Verification.Checked {
		verification := output.NewTableData("Property", "Value")
		verification.AddRow("Result", verificationResult(r.Verification))
		verification.AddRow("Encoded", fmt.Sprintf("%d bytes", r.Verification.Encoded))
		if r.Verification.Offset >= 0 {
			verification.AddRow("First difference", fmt.Sprintf("byte %d", r.Verification.Offset))
		}
		if r.Verification.Error != "" {
			verification.AddRow("Error", r.Verification.Error)
		}
		sections = append(sections, output.Section{Title: "ROUND TRIP", Table: verification})
	}
	return sections
}

func verificationResult(v inspect.Verification) string {
	switch {
	case !v.Checked:
		return "skipped"
	case v.Error != "":
		return "error"
	case v.Match:
		return "match"
	default:
		return "mismatch"
	}
}
