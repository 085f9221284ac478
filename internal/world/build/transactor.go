package build

import (
	"fmt"

	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/metrics"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
)

// Poster откладывает выполнение функции до конца текущего тика
type Poster interface {
	Post(fn func())
}

// Transactor начинает транзакции стройки и разбора.
// Вызывается только из потока симуляции.
type Transactor struct {
	validator *Validator
	catalog   *block.Catalog
	poster    Poster
	announcer Announcer
	logger    *logging.Logger
}

// NewTransactor создаёт транзактор. announcer и logger могут быть nil.
func NewTransactor(v *Validator, catalog *block.Catalog, poster Poster, announcer Announcer, logger *logging.Logger) *Transactor {
	return &Transactor{
		validator: v,
		catalog:   catalog,
		poster:    poster,
		announcer: announcer,
		logger:    logger,
	}
}

// Validator возвращает валидатор транзактора
func (tr *Transactor) Validator() *Validator {
	return tr.validator
}

// BeginBreak начинает разбор блока в клетке (x, y).
// Недопустимый запрос ничего не меняет; результат сообщает, началась ли транзакция.
func (tr *Transactor) BeginBreak(team world.Team, x, y int) bool {
	if !tr.validator.CanBreak(team, x, y) {
		metrics.BuildRejected.WithLabelValues("break").Inc()
		return false
	}
	grid := tr.validator.Grid()
	tile := grid.Tile(x, y)
	if tile == nil {
		return false
	}
	tile = tile.Target()

	previous := tile.Block()
	sub := tr.catalog.Placeholder(previous.Size)
	if sub == nil {
		tr.logger.Warn("нет заглушки размера %d для разбора %s", previous.Size, previous)
		return false
	}

	grid.SetBlock(tile, sub, tile.Rotation)
	tile.SetPayload(Deconstruct(previous))
	grid.SetTeam(tile, team)
	if previous.IsMultiblock() {
		linkFootprint(grid, tile, previous.Size, team)
	}

	metrics.BuildBegin.WithLabelValues("break").Inc()
	tr.logger.Debug("разбор %s в (%d,%d) командой %s", previous, tile.X, tile.Y, team)
	tr.announce(ConstructionBeginEvent{Tile: tile, Team: team, Breaking: true})
	return true
}

// BeginPlace начинает стройку блока result в клетке (x, y).
// Недопустимый запрос ничего не меняет; результат сообщает, началась ли транзакция.
func (tr *Transactor) BeginPlace(team world.Team, x, y int, result *block.Block, rotation uint8) bool {
	if !tr.validator.CanPlace(team, x, y, result, rotation) {
		metrics.BuildRejected.WithLabelValues("place").Inc()
		return false
	}
	grid := tr.validator.Grid()
	tile := grid.Tile(x, y)
	if tile == nil {
		return false
	}

	sub := tr.catalog.Placeholder(result.Size)
	if sub == nil {
		tr.logger.Warn("нет заглушки размера %d для стройки %s", result.Size, result)
		return false
	}

	previous := tile.Block()
	grid.SetBlock(tile, sub, rotation)
	tile.SetPayload(Construct(previous, result))
	grid.SetTeam(tile, team)
	if result.IsMultiblock() {
		linkFootprint(grid, tile, result.Size, team)
	}

	metrics.BuildBegin.WithLabelValues("place").Inc()
	tr.logger.Debug("стройка %s в (%d,%d) командой %s", result, x, y, team)
	tr.announce(ConstructionBeginEvent{Tile: tile, Team: team, Breaking: false})
	return true
}

// linkFootprint связывает все клетки футпринта, кроме опоры, с опорой и назначает команду
func linkFootprint(grid *world.Grid, anchor *world.Tile, size int, team world.Team) {
	off := FootprintOffset(size)
	for dx := 0; dx < size; dx++ {
		for dy := 0; dy < size; dy++ {
			lx, ly := dx+off, dy+off
			if lx == 0 && ly == 0 {
				continue
			}
			cell := grid.Tile(anchor.X+lx, anchor.Y+ly)
			if cell == nil {
				continue
			}
			grid.SetLinked(cell, int8(lx), int8(ly))
			grid.SetTeam(cell, team)
		}
	}
}

func (tr *Transactor) announce(ev ConstructionBeginEvent) {
	if tr.announcer == nil {
		return
	}
	if tr.poster == nil {
		tr.announcer.ConstructionBegin(ev)
		return
	}
	tr.poster.Post(func() { tr.announcer.ConstructionBegin(ev) })
}

// PlaceBuilt ставит готовый блок без проверок и транзакции: для подготовки карты.
// Футпринт должен целиком лежать в сетке.
func PlaceBuilt(grid *world.Grid, x, y int, b *block.Block, team world.Team, rotation uint8) (*world.Tile, error) {
	off := FootprintOffset(b.Size)
	if !grid.InBounds(x+off, y+off) || !grid.InBounds(x+off+b.Size-1, y+off+b.Size-1) {
		return nil, fmt.Errorf("футпринт %s в (%d,%d) выходит за пределы сетки", b, x, y)
	}
	anchor := grid.Tile(x, y)
	grid.SetBlock(anchor, b, rotation)
	grid.SetTeam(anchor, team)
	if b.IsMultiblock() {
		linkFootprint(grid, anchor, b.Size, team)
	}
	return anchor, nil
}
