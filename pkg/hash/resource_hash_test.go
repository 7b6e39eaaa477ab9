package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flavorSpec struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	VCPU      int    `json:"vcpu"`
	RAM       int    `json:"ram"`
	IsDefault int8   `json:"is_default"`
}

func TestCalculateResourceHash_IgnoresMetadata(t *testing.T) {
	a, err := CalculateResourceHash(flavorSpec{ID: 1, Name: "small", VCPU: 2, RAM: 2048})
	require.NoError(t, err)
	b, err := CalculateResourceHash(flavorSpec{ID: 9, Name: "other", VCPU: 2, RAM: 2048, IsDefault: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := CalculateResourceHash(flavorSpec{VCPU: 4, RAM: 2048})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestShortID(t *testing.T) {
	id := ShortID("v", 8, "pve01", "tenant-net")
	assert.Len(t, id, 8)
	assert.Equal(t, "v", id[:1])
	assert.Equal(t, id, ShortID("v", 8, "pve01", "tenant-net"))
	assert.NotEqual(t, id, ShortID("v", 8, "pve02", "tenant-net"))
}
