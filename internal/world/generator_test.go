package world

import (
	"testing"

	"github.com/annel0/blockforge/internal/world/block/content"
	"github.com/stretchr/testify/assert"
)

var testFloors = FloorNames{
	DeepWater:    content.DeepWater,
	ShallowWater: content.ShallowWater,
	Sand:         content.Sand,
	Grass:        content.Grass,
	Stone:        content.Stone,
	Ore:          content.OreCopper,
}

func TestGenerator_Deterministic(t *testing.T) {
	g1, cat := newTestGrid(t, 32, 32)
	g2, _ := newTestGrid(t, 32, 32)

	NewGenerator(777, testFloors, content.Rock).Generate(g1, cat)
	NewGenerator(777, testFloors, content.Rock).Generate(g2, cat)

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			a, b := g1.Tile(x, y), g2.Tile(x, y)
			assert.Equal(t, a.Floor.Name, b.Floor.Name, "пол в (%d,%d)", x, y)
			assert.Equal(t, a.Block().Name, b.Block().Name, "блок в (%d,%d)", x, y)
		}
	}
}

func TestGenerator_NoRocksOnLiquid(t *testing.T) {
	g, cat := newTestGrid(t, 64, 64)
	gen := NewGenerator(3, testFloors, content.Rock)
	gen.RockChance = 1

	gen.Generate(g, cat)

	g.Each(func(tile *Tile) {
		if tile.Floor.IsLiquid {
			assert.Equal(t, content.Air, tile.Block().Name, "камень на воде в (%d,%d)", tile.X, tile.Y)
		} else {
			assert.Equal(t, content.Rock, tile.Block().Name)
		}
	})
}
