package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOptions(t *testing.T) {
	list := listOptions()
	require.NotEmpty(t, list)

	// Keys are ordered by class, then number.
	assert.Equal(t, "End of Option List", list[0].Name)
	assert.True(t, list[0].Terminator)

	rows := list.Rows()
	require.Len(t, rows, len(list))
	for i, o := range list {
		if o.Name == "Security" {
			assert.Equal(t, "11", rows[i][3])
		}
		if o.Name == "Record Route" {
			assert.Equal(t, "variable", rows[i][3])
		}
		if o.Name == "No Operation" {
			assert.Equal(t, "none", rows[i][3])
		}
	}
}

func TestClassifyAddresses(t *testing.T) {
	classes, err := classifyAddresses([]string{"10.1.2.3", "8.8.8.8", "::ffff:192.0.2.7"})
	require.NoError(t, err)
	require.Len(t, classes, 3)

	assert.Equal(t, "10.0.0.0/8", classes[0].Prefix)
	assert.Equal(t, "Private-Use", classes[0].Name)
	assert.False(t, classes[0].Global)

	assert.Equal(t, "Global Unicast", classes[1].Name)
	assert.Equal(t, "-", classes.Rows()[1][1])

	assert.Equal(t, "Documentation (TEST-NET-1)", classes[2].Name)
}

func TestClassifyAddresses_Errors(t *testing.T) {
	_, err := classifyAddresses([]string{"not-an-ip"})
	assert.Error(t, err)

	_, err = classifyAddresses([]string{"2001:db8::1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not IPv4")
}
