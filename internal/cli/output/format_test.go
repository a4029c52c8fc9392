package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "pcap", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type fieldList []field

func (l fieldList) Headers() []string { return []string{"Field", "Value"} }

func (l fieldList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, f := range l {
		rows[i] = []string{f.Name, f.Value}
	}
	return rows
}

func TestPrinter_Print(t *testing.T) {
	data := fieldList{{Name: "ttl", Value: "64"}, {Name: "protocol", Value: "17"}}

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatTable, []string{"FIELD", "VALUE", "ttl", "64"}},
		{FormatJSON, []string{`"name": "ttl"`, `"value": "64"`}},
		{FormatYAML, []string{"- name: ttl", "  value: \"64\""}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf, tt.format, false)
			require.NoError(t, p.Print(data))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrinter_TableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)

	require.NoError(t, p.Print(field{Name: "ihl", Value: "5"}))
	assert.Contains(t, buf.String(), `"name": "ihl"`)
}

func TestPrinter_UnknownFormat(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, Format("xml"), false)
	assert.Error(t, p.Print(fieldList{}))
}

func TestPrinter_Status(t *testing.T) {
	var plain bytes.Buffer
	p := NewPrinter(&plain, FormatTable, false)
	p.Success("round trip ok")
	p.Warning("checksum not verified")
	p.Error("decode failed")
	assert.Equal(t, "round trip ok\nchecksum not verified\ndecode failed\n", plain.String())

	var colored bytes.Buffer
	NewPrinter(&colored, FormatTable, true).Error("decode failed")
	assert.Equal(t, "\033[31mdecode failed\033[0m\n", colored.String())
}
