package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Name", "Key", "Length")

	assert.Equal(t, []string{"Name", "Key", "Length"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("Record Route", "0/7", "7")
	table.AddRow("End of Option List", "0/0", "-")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Record Route", "0/7", "7"}, rows[0])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Field", "Value")
	table.AddRow("source", "192.0.2.1")
	table.AddRow("destination", "198.51.100.2")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "192.0.2.1")
	assert.Contains(t, out, "198.51.100.2")
}

type sections []Section

func (s sections) Sections() []Section { return s }

func TestPrintSections(t *testing.T) {
	header := NewTableData("Field", "Value")
	header.AddRow("version", "4")
	empty := NewTableData("Name")
	verify := NewTableData("Check", "Result")
	verify.AddRow("round trip", "match")

	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)
	require.NoError(t, p.Print(sections{
		{Title: "Header", Table: header},
		{Title: "Options", Table: empty},
		{Title: "Verification", Table: verify},
	}))

	out := buf.String()
	assert.Contains(t, out, "Header\n")
	assert.NotContains(t, out, "Options", "empty sections are skipped")
	assert.Contains(t, out, "Verification\n")
	assert.Equal(t, 1, strings.Count(out, "\n\nVerification"))
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValues(&buf, [][2]string{
		{"Version", "dev"},
		{"Go", "go1.25.0"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Version")
	assert.Contains(t, out, "dev")
	assert.Contains(t, out, "go1.25.0")
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintYAML(&buf, field{Name: "ttl", Value: "64"}))
	assert.Equal(t, "name: ttl\nvalue: \"64\"\n", buf.String())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, field{Name: "ttl", Value: "64"}))
	assert.Equal(t, "{\n  \"name\": \"ttl\",\n  \"value\": \"64\"\n}\n", buf.String())
}
