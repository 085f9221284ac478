package unit

import (
	"fmt"
	"math"
	"slices"

	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
)

// Index — пространственный индекс единиц на равномерной сетке ячеек.
//
// Единица хранится в ячейке своего центра. Порядок обхода детерминирован:
// ячейки построчно снизу вверх, внутри ячейки — в порядке вставки. От этого
// порядка зависит воспроизводимость цепных эффектов на всех участниках.
type Index struct {
	cellSize   float32
	cells      map[cellKey][]*Unit
	units      map[int32]*Unit
	order      []*Unit
	maxHitSize float32
	nextID     int32
}

// cellKey представляет ключ ячейки в пространственной сетке
type cellKey struct {
	x, y int
}

// NewIndex создаёт индекс с указанным размером ячейки
func NewIndex(cellSize float32) *Index {
	if cellSize <= 0 {
		cellSize = 32
	}
	return &Index{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*Unit),
		units:    make(map[int32]*Unit),
	}
}

func (idx *Index) keyFor(x, y float32) cellKey {
	return cellKey{
		x: int(math.Floor(float64(x / idx.cellSize))),
		y: int(math.Floor(float64(y / idx.cellSize))),
	}
}

// Spawn создаёт единицу со следующим свободным ID и добавляет её в индекс
func (idx *Index) Spawn(team world.Team, x, y, hitSize, health float32) *Unit {
	idx.nextID++
	u := &Unit{ID: idx.nextID, Team: team, X: x, Y: y, HitSize: hitSize, Health: health, MaxHealth: health}
	if err := idx.Add(u); err != nil {
		panic(err)
	}
	return u
}

// Add добавляет единицу в индекс
func (idx *Index) Add(u *Unit) error {
	if _, exists := idx.units[u.ID]; exists {
		return fmt.Errorf("единица %d уже в индексе", u.ID)
	}
	if u.ID > idx.nextID {
		idx.nextID = u.ID
	}
	idx.units[u.ID] = u
	idx.order = append(idx.order, u)
	key := idx.keyFor(u.X, u.Y)
	idx.cells[key] = append(idx.cells[key], u)
	if u.HitSize > idx.maxHitSize {
		idx.maxHitSize = u.HitSize
	}
	return nil
}

// Get возвращает единицу по ID или nil
func (idx *Index) Get(id int32) *Unit {
	return idx.units[id]
}

// Len возвращает количество единиц
func (idx *Index) Len() int {
	return len(idx.units)
}

// All возвращает единицы в порядке добавления
func (idx *Index) All() []*Unit {
	return slices.Clone(idx.order)
}

// Move перемещает единицу, обновляя её ячейку
func (idx *Index) Move(u *Unit, x, y float32) {
	oldKey := idx.keyFor(u.X, u.Y)
	u.X, u.Y = x, y
	newKey := idx.keyFor(x, y)
	if oldKey == newKey {
		return
	}
	idx.removeFromCell(oldKey, u)
	idx.cells[newKey] = append(idx.cells[newKey], u)
}

// Remove удаляет единицу из индекса
func (idx *Index) Remove(id int32) {
	u, exists := idx.units[id]
	if !exists {
		return
	}
	delete(idx.units, id)
	idx.order = slices.DeleteFunc(idx.order, func(o *Unit) bool { return o == u })
	idx.removeFromCell(idx.keyFor(u.X, u.Y), u)
}

// RemoveDead удаляет мёртвые единицы и возвращает их ID
func (idx *Index) RemoveDead() []int32 {
	var removed []int32
	for _, u := range idx.order {
		if u.Dead() {
			removed = append(removed, u.ID)
		}
	}
	for _, id := range removed {
		idx.Remove(id)
	}
	return removed
}

func (idx *Index) removeFromCell(key cellKey, u *Unit) {
	cell := slices.DeleteFunc(idx.cells[key], func(o *Unit) bool { return o == u })
	if len(cell) == 0 {
		delete(idx.cells, key)
		return
	}
	idx.cells[key] = cell
}

// each обходит живые единицы, чьи хитбоксы пересекают rect, в детерминированном порядке.
// Обход прекращается, если visit вернул false.
func (idx *Index) each(rect vec.Rect, visit func(u *Unit) bool) {
	pad := idx.maxHitSize / 2
	lo := idx.keyFor(rect.X-pad, rect.Y-pad)
	hi := idx.keyFor(rect.X+rect.Width+pad, rect.Y+rect.Height+pad)

	for cy := lo.y; cy <= hi.y; cy++ {
		for cx := lo.x; cx <= hi.x; cx++ {
			for _, u := range idx.cells[cellKey{x: cx, y: cy}] {
				if u.Dead() || !u.Hitbox().Overlaps(rect) {
					continue
				}
				if !visit(u) {
					return
				}
			}
		}
	}
}

// AnyEntitiesIn проверяет, пересекает ли прямоугольник хитбокс хотя бы одной живой единицы
func (idx *Index) AnyEntitiesIn(rect vec.Rect) bool {
	found := false
	idx.each(rect, func(*Unit) bool {
		found = true
		return false
	})
	return found
}

// NearbyEnemies вызывает visit для каждой единицы, враждебной team, в пределах rect.
// Для TeamNone враждебны все, кроме заброшенных.
func (idx *Index) NearbyEnemies(team world.Team, rect vec.Rect, visit func(u *Unit)) {
	idx.each(rect, func(u *Unit) bool {
		if world.AreEnemies(team, u.Team) {
			visit(u)
		}
		return true
	})
}
