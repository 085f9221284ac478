// Package unit хранит боевые единицы и отвечает на пространственные запросы.
package unit

import (
	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
)

// Unit — минимальное представление боевой единицы для запросов и урона
type Unit struct {
	ID        int32
	Team      world.Team
	X, Y      float32
	HitSize   float32
	Health    float32
	MaxHealth float32
}

// Dead возвращает true, если у единицы не осталось здоровья
func (u *Unit) Dead() bool {
	return u.Health <= 0
}

// Hitbox возвращает хитбокс единицы
func (u *Unit) Hitbox() vec.Rect {
	return vec.Centered(u.X, u.Y, u.HitSize)
}

// Damage наносит урон; мёртвые единицы убираются в конце тика
func (u *Unit) Damage(amount float32) {
	if u.Dead() {
		return
	}
	u.Health -= amount
}
