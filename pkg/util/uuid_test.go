package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]uint32{0xFF80FF80, 0x00800080})
	b := Fingerprint([]uint32{0xFF80FF80, 0x00800080})
	c := Fingerprint([]uint32{0xFF80FF80, 0x00800081})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(3), id.Version())
}
