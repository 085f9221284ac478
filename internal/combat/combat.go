// Package combat применяет урон от ударов к боевым единицам.
package combat

import (
	"github.com/annel0/blockforge/internal/metrics"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
)

// ImpactType описывает вид удара
type ImpactType struct {
	Name    string
	HitSize float32 // сторона квадрата поражения в мировых единицах
}

// LightningDamage — удар молнии в точке прыжка
var LightningDamage = ImpactType{Name: "damage-lightning", HitSize: 8}

// Emitter создаёт удары. source — идентификатор источника (например, сид эффекта).
type Emitter interface {
	CreateImpact(kind ImpactType, source int32, team world.Team, x, y, angle, damage float32)
}

// Hit — одно попадание по единице
type Hit struct {
	Source int32
	Unit   int32
	Damage float32
}

// DamageSystem наносит урон единицам, враждебным команде удара.
// Удар команды TeamNone задевает всех.
type DamageSystem struct {
	units *unit.Index
	hits  []Hit
	total float32
}

// NewDamageSystem создаёт систему урона поверх индекса единиц
func NewDamageSystem(units *unit.Index) *DamageSystem {
	return &DamageSystem{units: units}
}

// CreateImpact применяет урон ко всем враждебным единицам в квадрате удара
func (ds *DamageSystem) CreateImpact(kind ImpactType, source int32, team world.Team, x, y, angle, damage float32) {
	ds.units.NearbyEnemies(team, vec.Centered(x, y, kind.HitSize), func(u *unit.Unit) {
		u.Damage(damage)
		ds.hits = append(ds.hits, Hit{Source: source, Unit: u.ID, Damage: damage})
		ds.total += damage
	})
}

// Hits возвращает попадания текущего тика
func (ds *DamageSystem) Hits() []Hit {
	return ds.hits
}

// EndTick убирает погибшие единицы, сбрасывает попадания тика
// и возвращает ID погибших.
func (ds *DamageSystem) EndTick() []int32 {
	if ds.total > 0 {
		metrics.DamageDealt.Add(float64(ds.total))
	}
	ds.hits = ds.hits[:0]
	ds.total = 0

	dead := ds.units.RemoveDead()
	if len(dead) > 0 {
		metrics.UnitsKilled.Add(float64(len(dead)))
	}
	return dead
}
