package ipproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "UDP", Name(UDP))
	assert.Equal(t, "TCP", Name(6))
	assert.Equal(t, "253", Name(253))
}
