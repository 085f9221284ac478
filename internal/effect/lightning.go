// Package effect воспроизводит цепную молнию по сиду одинаково на всех участниках сессии.
package effect

import (
	"slices"

	"github.com/annel0/blockforge/internal/world"
)

const (
	ChainCap              = 8  // максимум различных целей одной цепи
	HitRange      float32 = 30 // сторона квадрата поиска целей
	Lifetime              = 10 // время жизни в тиках
	Jitter        float32 = 3  // разброс точек ломаной
	HeadingJitter float32 = 20 // разброс курса без цели, в градусах
	MaxHops       int32   = 64 // больше прыжков из сообщения не воспроизводится
)

// DefaultColor — цвет молнии по умолчанию (RGBA8888)
const DefaultColor uint32 = 0xa9d8ffff

// Point — точка ломаной молнии
type Point struct {
	X, Y float32
}

// Lightning — экземпляр цепной молнии: начало, ломаная и поражённые цели.
// Экземпляры переиспользуются; Reset очищает всё изменяемое состояние.
type Lightning struct {
	Seed      int32
	Team      world.Team
	Color     uint32
	Damage    float32
	X, Y      float32
	Waypoints []Point
	Struck    []int32
	age       int
}

// Reset очищает ломаную и цели и восстанавливает цвет по умолчанию
func (l *Lightning) Reset() {
	l.Seed = 0
	l.Team = world.TeamNone
	l.Color = DefaultColor
	l.Damage = 0
	l.X, l.Y = 0, 0
	l.Waypoints = l.Waypoints[:0]
	l.Struck = l.Struck[:0]
	l.age = 0
}

// Age возвращает прожитые тики
func (l *Lightning) Age() int {
	return l.age
}

// Fout возвращает долю оставшейся жизни в [0, 1]
func (l *Lightning) Fout() float32 {
	return 1 - float32(l.age)/Lifetime
}

func (l *Lightning) struck(id int32) bool {
	return slices.Contains(l.Struck, id)
}
