package world

import (
	"errors"
	"fmt"

	"github.com/annel0/blockforge/internal/world/block"
)

// ErrBrokenLink — нарушение целостности футпринта: связанная клетка
// указывает на себя или за пределы сетки. Это ошибка логики, а не ввода.
var ErrBrokenLink = errors.New("world: нарушена связь клетки мультиблока с опорной клеткой")

// Tile — клетка сетки мира.
//
// Клетки мультиблока, кроме опорной, хранят только смещение до опоры;
// блок, поворот и полезная нагрузка живут в опорной клетке.
type Tile struct {
	X, Y     int
	Rotation uint8
	Team     Team
	Floor    *block.Floor

	block   *block.Block
	linkX   int8
	linkY   int8
	linked  bool
	locked  bool
	payload any
	grid    *Grid
}

// Block возвращает блок, занимающий клетку (для связанных клеток — блок опоры)
func (t *Tile) Block() *block.Block {
	return t.Target().block
}

// OwnBlock возвращает блок, записанный в самой клетке (nil для связанных клеток)
func (t *Tile) OwnBlock() *block.Block {
	return t.block
}

// IsLinked возвращает true, если клетка — неопорная часть мультиблока
func (t *Tile) IsLinked() bool {
	return t.linked
}

// Link возвращает смещение клетки относительно опоры; (0,0) у опоры
func (t *Tile) Link() (dx, dy int8) {
	return t.linkX, t.linkY
}

// Target возвращает опорную клетку футпринта.
// Паникует с ErrBrokenLink при несогласованной связи.
func (t *Tile) Target() *Tile {
	if !t.linked {
		return t
	}
	if t.linkX == 0 && t.linkY == 0 {
		panic(fmt.Errorf("%w: клетка (%d,%d) ссылается сама на себя", ErrBrokenLink, t.X, t.Y))
	}
	anchor := t.grid.Tile(t.X-int(t.linkX), t.Y-int(t.linkY))
	if anchor == nil || anchor.linked {
		panic(fmt.Errorf("%w: клетка (%d,%d) со смещением (%d,%d)", ErrBrokenLink, t.X, t.Y, t.linkX, t.linkY))
	}
	return anchor
}

// Breakable возвращает false для клеток, защищённых картой
func (t *Tile) Breakable() bool {
	return !t.Target().locked
}

// Payload возвращает полезную нагрузку опорной клетки
func (t *Tile) Payload() any {
	return t.Target().payload
}

// SetPayload прикрепляет полезную нагрузку к опорной клетке
func (t *Tile) SetPayload(p any) {
	t.Target().payload = p
}

// DrawX возвращает мировую координату центра блока по X
func (t *Tile) DrawX(tileSize float32) float32 {
	return float32(t.X)*tileSize + t.Block().Offset(tileSize)
}

// DrawY возвращает мировую координату центра блока по Y
func (t *Tile) DrawY(tileSize float32) float32 {
	return float32(t.Y)*tileSize + t.Block().Offset(tileSize)
}

// String возвращает краткое описание клетки
func (t *Tile) String() string {
	return fmt.Sprintf("(%d,%d) %s [%s]", t.X, t.Y, t.Block(), t.Team)
}
