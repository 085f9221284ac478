package build

import (
	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
)

// ContactsGround проверяет, касается ли футпринт блока b с опорой (x, y)
// хотя бы одной существующей клетки с нежидким полом.
func ContactsGround(g *world.Grid, x, y int, b *block.Block) bool {
	if b.IsMultiblock() {
		return anySolidFloor(g, x, y, InsideEdges(b.Size)) || anySolidFloor(g, x, y, Edges(b.Size))
	}
	return anySolidFloor(g, x, y, vec.D4[:]) || solidFloor(g.Tile(x, y))
}

func anySolidFloor(g *world.Grid, x, y int, points []vec.Vec2) bool {
	for _, p := range points {
		if solidFloor(g.Tile(x+p.X, y+p.Y)) {
			return true
		}
	}
	return false
}

func solidFloor(t *world.Tile) bool {
	return t != nil && t.Floor != nil && !t.Floor.IsLiquid
}
