package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Placeholders(t *testing.T) {
	c := NewCatalog()

	for size := 1; size <= MaxPlaceholderSize; size++ {
		p := c.Placeholder(size)
		require.NotNil(t, p, "заглушка для размера %d", size)
		assert.Equal(t, size, p.Size)
		assert.True(t, p.Placeholder)
	}
}

func TestLoad_Floors(t *testing.T) {
	c := NewCatalog()

	deep := c.Floor(DeepWater)
	require.NotNil(t, deep)
	assert.True(t, deep.IsLiquid)
	assert.False(t, deep.PlaceableOn)

	shallow := c.Floor(ShallowWater)
	require.NotNil(t, shallow)
	assert.True(t, shallow.IsLiquid)
	assert.True(t, shallow.PlaceableOn)
}

func TestLoad_AirIsAlwaysReplaceable(t *testing.T) {
	air := NewCatalog().Air()
	require.NotNil(t, air)
	assert.True(t, air.AlwaysReplace)
	assert.False(t, air.Visible)
	assert.False(t, air.Breakable)
}
