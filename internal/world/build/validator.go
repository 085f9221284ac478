// Package build проверяет и начинает транзакции строительства и разбора блоков.
package build

import (
	"math"

	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
)

// Rules — параметры правил строительства
type Rules struct {
	TileSize             float32 // мировых единиц в клетке
	EnemyCoreBuildRadius float32 // запретная зона вокруг вражеских ядер
}

// DefaultRules возвращает стандартные правила
func DefaultRules() Rules {
	return Rules{TileSize: 8, EnemyCoreBuildRadius: 400}
}

// EntityQuery отвечает, занята ли область сущностями
type EntityQuery interface {
	AnyEntitiesIn(rect vec.Rect) bool
}

// Validator — чистые предикаты допустимости стройки и разбора.
// Не изменяет сетку; безопасен для вызова при согласованном снимке сетки.
type Validator struct {
	grid     *world.Grid
	teams    *world.Teams
	entities EntityQuery
	rules    Rules
}

// NewValidator создаёт валидатор. entities может быть nil.
func NewValidator(grid *world.Grid, teams *world.Teams, entities EntityQuery, rules Rules) *Validator {
	return &Validator{grid: grid, teams: teams, entities: entities, rules: rules}
}

// Grid возвращает сетку валидатора
func (v *Validator) Grid() *world.Grid {
	return v.grid
}

// Rules возвращает правила валидатора
func (v *Validator) Rules() Rules {
	return v.rules
}

// CanPlace проверяет, может ли команда начать стройку блока b в клетке (x, y)
func (v *Validator) CanPlace(team world.Team, x, y int, b *block.Block, rotation uint8) bool {
	if b == nil || !b.Visible || b.Hidden {
		return false
	}

	ts := v.rules.TileSize
	cx := float32(x)*ts + b.Offset(ts)
	cy := float32(y)*ts + b.Offset(ts)

	if (b.Solid || b.Solidifies) && v.entities != nil &&
		v.entities.AnyEntitiesIn(vec.Centered(cx, cy, ts*float32(b.Size))) {
		return false
	}

	if v.nearEnemyCore(team, cx, cy, b) {
		return false
	}

	tile := v.grid.Tile(x, y)
	if tile == nil {
		return false
	}

	if b.IsMultiblock() {
		return v.canPlaceMulti(tile, b)
	}
	return v.canPlaceSingle(team, tile, b, rotation)
}

func (v *Validator) nearEnemyCore(team world.Team, cx, cy float32, b *block.Block) bool {
	ts := v.rules.TileSize
	limit := v.rules.EnemyCoreBuildRadius + float32(b.Size)*ts/2
	for _, enemy := range v.teams.EnemiesOf(team) {
		for _, core := range v.teams.Cores(enemy) {
			dx := cx - core.DrawX(ts)
			dy := cy - core.DrawY(ts)
			if float32(math.Sqrt(float64(dx*dx+dy*dy))) < limit {
				return true
			}
		}
	}
	return false
}

// canPlaceMulti: замена на месте допускается только из опорной клетки
func (v *Validator) canPlaceMulti(tile *world.Tile, b *block.Block) bool {
	current := tile.Block()
	if !tile.IsLinked() && b.CanReplace(current) && current.Size == b.Size && b.CanPlaceOn(tile.Floor) {
		return true
	}

	if !ContactsGround(v.grid, tile.X, tile.Y, b) || !b.CanPlaceOn(tile.Floor) {
		return false
	}

	off := FootprintOffset(b.Size)
	air := v.grid.Air()
	for dx := 0; dx < b.Size; dx++ {
		for dy := 0; dy < b.Size; dy++ {
			other := v.grid.Tile(tile.X+dx+off, tile.Y+dy+off)
			if other == nil {
				return false
			}
			// Чужой мультиблок целиком заменяется только на месте, по частям нельзя
			if other.IsLinked() {
				return false
			}
			occupant := other.OwnBlock()
			if occupant != air && (!occupant.AlwaysReplace || occupant.IsMultiblock()) {
				return false
			}
			if other.Floor == nil || !other.Floor.PlaceableOn || (other.Floor.IsLiquid && !b.Floating) {
				return false
			}
		}
	}
	return true
}

func (v *Validator) canPlaceSingle(team world.Team, tile *world.Tile, b *block.Block, rotation uint8) bool {
	current := tile.Block()
	floor := tile.Floor
	if floor == nil {
		return false
	}

	// Повторная постановка того же поворотного блока с тем же поворотом запрещена,
	// неповоротный блок той же группы себя не заменяет через CanReplace.
	sameRotation := current == b && rotation%4 == tile.Rotation && b.Rotate
	replaceable := (b.CanReplace(current) && !sameRotation) ||
		current.AlwaysReplace ||
		current == v.grid.Air()

	return (tile.Team == world.TeamNone || tile.Team == team) &&
		ContactsGround(v.grid, tile.X, tile.Y, b) &&
		(!floor.IsLiquid || b.Floating) &&
		floor.PlaceableOn &&
		replaceable &&
		current.IsMultiblock() == b.IsMultiblock() &&
		b.CanPlaceOn(floor)
}

// CanBreak проверяет, может ли команда начать разбор клетки (x, y).
// Клетки мультиблока проверяются по опоре.
func (v *Validator) CanBreak(team world.Team, x, y int) bool {
	tile := v.grid.Tile(x, y)
	if tile == nil {
		return false
	}
	tile = tile.Target()
	b := tile.Block()

	return b.Breakable &&
		tile.Breakable() &&
		(!b.Synthetic || tile.Team == team)
}
