package build

import (
	"sync"

	"github.com/annel0/blockforge/internal/vec"
)

// FootprintOffset возвращает смещение левого нижнего угла футпринта от опоры
func FootprintOffset(size int) int {
	return -(size - 1) / 2
}

var (
	edgesMu     sync.Mutex
	edgeCache   = map[int][]vec.Vec2{}
	insideCache = map[int][]vec.Vec2{}
)

// Edges возвращает клетки кольца вокруг футпринта без углов (size*4 точек).
// Результат кешируется и не должен изменяться вызывающим.
func Edges(size int) []vec.Vec2 {
	edgesMu.Lock()
	defer edgesMu.Unlock()
	if e, ok := edgeCache[size]; ok {
		return e
	}

	bot := FootprintOffset(size) - 1
	top := bot + size + 1
	edges := make([]vec.Vec2, 0, size*4)
	for j := 0; j < size; j++ {
		edges = append(edges,
			vec.Vec2{X: bot + 1 + j, Y: bot},
			vec.Vec2{X: bot + 1 + j, Y: top},
			vec.Vec2{X: bot, Y: bot + 1 + j},
			vec.Vec2{X: top, Y: bot + 1 + j},
		)
	}
	edgeCache[size] = edges
	return edges
}

// InsideEdges возвращает граничные клетки самого футпринта.
// Для размера 1 набор пуст.
func InsideEdges(size int) []vec.Vec2 {
	edgesMu.Lock()
	defer edgesMu.Unlock()
	if e, ok := insideCache[size]; ok {
		return e
	}

	lo := FootprintOffset(size)
	hi := lo + size - 1
	var inside []vec.Vec2
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			if size > 1 && (dx == lo || dx == hi || dy == lo || dy == hi) {
				inside = append(inside, vec.Vec2{X: dx, Y: dy})
			}
		}
	}
	insideCache[size] = inside
	return inside
}
