package world

import (
	"fmt"

	"github.com/annel0/blockforge/internal/world/block"
)

// Grid — авторитетная двумерная сетка клеток.
// Мутируется только потоком симуляции; внутренних блокировок нет.
type Grid struct {
	width  int
	height int
	tiles  []Tile
	air    *block.Block
}

// NewGrid создаёт сетку, заполненную пустым блоком на указанном полу
func NewGrid(width, height int, air *block.Block, floor *block.Floor) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("некорректный размер сетки %dx%d", width, height)
	}
	if air == nil {
		return nil, fmt.Errorf("не задан пустой блок")
	}

	g := &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
		air:    air,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &g.tiles[y*width+x]
			t.X, t.Y = x, y
			t.Floor = floor
			t.block = air
			t.grid = g
		}
	}
	return g, nil
}

// Width возвращает ширину сетки
func (g *Grid) Width() int { return g.width }

// Height возвращает высоту сетки
func (g *Grid) Height() int { return g.height }

// Air возвращает пустой блок сетки
func (g *Grid) Air() *block.Block { return g.air }

// InBounds проверяет, лежат ли координаты внутри сетки
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Tile возвращает клетку или nil за пределами сетки
func (g *Grid) Tile(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.tiles[y*g.width+x]
}

// SetBlock записывает блок в клетку, делая её опорной: связь и нагрузка сбрасываются
func (g *Grid) SetBlock(t *Tile, b *block.Block, rotation uint8) {
	if b == nil {
		b = g.air
	}
	t.block = b
	t.Rotation = rotation % 4
	t.linked = false
	t.linkX, t.linkY = 0, 0
	t.payload = nil
}

// SetTeam назначает владельца клетки
func (g *Grid) SetTeam(t *Tile, team Team) {
	t.Team = team
}

// SetLinked делает клетку частью мультиблока со смещением (dx, dy) от опоры.
// Смещение (0,0) — противоречие и приводит к панике.
func (g *Grid) SetLinked(t *Tile, dx, dy int8) {
	if dx == 0 && dy == 0 {
		panic(fmt.Errorf("%w: попытка связать (%d,%d) с самой собой", ErrBrokenLink, t.X, t.Y))
	}
	t.block = nil
	t.Rotation = 0
	t.linked = true
	t.linkX, t.linkY = dx, dy
	t.payload = nil
}

// SetFloor меняет пол клетки
func (g *Grid) SetFloor(t *Tile, floor *block.Floor) {
	t.Floor = floor
}

// Lock защищает клетку от разбора
func (g *Grid) Lock(t *Tile) {
	t.locked = true
}

// Each обходит все клетки построчно
func (g *Grid) Each(fn func(t *Tile)) {
	for i := range g.tiles {
		fn(&g.tiles[i])
	}
}
