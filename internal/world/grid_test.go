package world

import (
	"errors"
	"testing"

	"github.com/annel0/blockforge/internal/world/block"
	"github.com/annel0/blockforge/internal/world/block/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, w, h int) (*Grid, *block.Catalog) {
	t.Helper()
	cat := content.NewCatalog()
	g, err := NewGrid(w, h, cat.Air(), cat.Floor(content.Stone))
	require.NoError(t, err)
	return g, cat
}

func TestNewGrid_InvalidArguments(t *testing.T) {
	cat := content.NewCatalog()

	_, err := NewGrid(0, 10, cat.Air(), nil)
	assert.Error(t, err)
	_, err = NewGrid(10, 10, nil, nil)
	assert.Error(t, err)
}

func TestGrid_TileBounds(t *testing.T) {
	g, cat := newTestGrid(t, 4, 3)

	assert.Nil(t, g.Tile(-1, 0), "за пределами сетки клетки нет")
	assert.Nil(t, g.Tile(4, 0))
	assert.Nil(t, g.Tile(0, 3))

	tile := g.Tile(3, 2)
	require.NotNil(t, tile)
	assert.Equal(t, 3, tile.X)
	assert.Equal(t, 2, tile.Y)
	assert.Same(t, cat.Air(), tile.Block())
	assert.Equal(t, content.Stone, tile.Floor.Name)
}

func TestGrid_LinkedTilesResolveToAnchor(t *testing.T) {
	g, cat := newTestGrid(t, 8, 8)
	wall := cat.ByName(content.CopperWallL)

	anchor := g.Tile(2, 2)
	g.SetBlock(anchor, wall, 0)
	g.SetTeam(anchor, TeamSharded)
	g.SetLinked(g.Tile(3, 2), 1, 0)
	g.SetLinked(g.Tile(2, 3), 0, 1)
	g.SetLinked(g.Tile(3, 3), 1, 1)

	for _, pos := range [][2]int{{3, 2}, {2, 3}, {3, 3}} {
		part := g.Tile(pos[0], pos[1])
		assert.True(t, part.IsLinked())
		assert.Same(t, anchor, part.Target(), "клетка %v", pos)
		assert.Same(t, wall, part.Block())
		assert.Nil(t, part.OwnBlock())
	}

	dx, dy := anchor.Link()
	assert.Equal(t, int8(0), dx)
	assert.Equal(t, int8(0), dy)
	assert.Same(t, anchor, anchor.Target())
}

func TestGrid_SetBlockClearsLinkAndPayload(t *testing.T) {
	g, cat := newTestGrid(t, 4, 4)
	tile := g.Tile(1, 1)
	g.SetBlock(g.Tile(0, 0), cat.ByName(content.CopperWallL), 0)
	g.SetLinked(tile, 1, 1)

	g.SetBlock(tile, cat.ByName(content.Conveyor), 6)
	assert.False(t, tile.IsLinked())
	assert.Equal(t, uint8(2), tile.Rotation, "поворот берётся по модулю 4")

	tile.SetPayload("state")
	assert.Equal(t, "state", tile.Payload())
	g.SetBlock(tile, nil, 0)
	assert.Nil(t, tile.Payload())
	assert.Same(t, cat.Air(), tile.Block(), "nil заменяется пустым блоком")
}

func TestGrid_BrokenLinkPanics(t *testing.T) {
	g, _ := newTestGrid(t, 4, 4)

	assert.PanicsWithError(t, "world: нарушена связь клетки мультиблока с опорной клеткой: попытка связать (1,1) с самой собой", func() {
		g.SetLinked(g.Tile(1, 1), 0, 0)
	})

	edge := g.Tile(0, 0)
	g.SetLinked(edge, 1, 1) // опора оказалась бы в (-1,-1)
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok, "ожидалась паника с ошибкой")
		assert.True(t, errors.Is(err, ErrBrokenLink))
	}()
	edge.Target()
}

func TestTile_DrawPosition(t *testing.T) {
	g, cat := newTestGrid(t, 8, 8)
	tile := g.Tile(3, 5)
	g.SetBlock(tile, cat.ByName(content.CopperWallL), 0)

	assert.Equal(t, float32(28), tile.DrawX(8))
	assert.Equal(t, float32(44), tile.DrawY(8))
}

func TestTile_Breakable(t *testing.T) {
	g, _ := newTestGrid(t, 4, 4)
	tile := g.Tile(2, 2)
	assert.True(t, tile.Breakable())

	g.Lock(tile)
	assert.False(t, tile.Breakable())
}
