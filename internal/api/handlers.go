package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/blockforge/internal/effect"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
	"github.com/annel0/blockforge/internal/world/build"
	"github.com/gin-gonic/gin"
)

// TileView — представление клетки в ответах API
type TileView struct {
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Block    string       `json:"block"`
	Floor    string       `json:"floor"`
	Team     string       `json:"team"`
	Rotation uint8        `json:"rotation"`
	Linked   bool         `json:"linked"`
	AnchorX  int          `json:"anchor_x"`
	AnchorY  int          `json:"anchor_y"`
	Build    *PayloadView `json:"build,omitempty"`
}

// PayloadView — состояние транзакции стройки
type PayloadView struct {
	Kind     string `json:"kind"`
	Previous string `json:"previous,omitempty"`
	Result   string `json:"result,omitempty"`
	Target   string `json:"target,omitempty"`
}

func newTileView(t *world.Tile) TileView {
	anchor := t.Target()
	v := TileView{
		X: t.X, Y: t.Y,
		Block:    t.Block().Name,
		Floor:    t.Floor.String(),
		Team:     t.Team.String(),
		Rotation: anchor.Rotation,
		Linked:   t.IsLinked(),
		AnchorX:  anchor.X,
		AnchorY:  anchor.Y,
	}
	if p, ok := build.PayloadOf(t); ok {
		pv := &PayloadView{Kind: p.Kind().String()}
		if p.Kind() == build.KindConstruct {
			pv.Previous, pv.Result = p.Previous().Name, p.Result().Name
		} else {
			pv.Target = p.Target().Name
		}
		v.Build = pv
	}
	return v
}

// PlaceRequest — запрос на стройку
type PlaceRequest struct {
	Team     string `json:"team" form:"team" binding:"required"`
	X        *int   `json:"x" form:"x" binding:"required"`
	Y        *int   `json:"y" form:"y" binding:"required"`
	Block    string `json:"block" form:"block" binding:"required"`
	Rotation uint8  `json:"rotation" form:"rotation"`
}

// BreakRequest — запрос на разбор
type BreakRequest struct {
	Team string `json:"team" form:"team" binding:"required"`
	X    *int   `json:"x" form:"x" binding:"required"`
	Y    *int   `json:"y" form:"y" binding:"required"`
}

// LightningRequest — запрос на запуск цепной молнии
type LightningRequest struct {
	Team   string  `json:"team"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Angle  float32 `json:"angle"`
	Damage float32 `json:"damage" binding:"gte=0"`
	Hops   int32   `json:"hops" binding:"gte=0,lte=64"` // верхняя граница — effect.MaxHops
	Color  *uint32 `json:"color"`
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: fmt.Sprintf(format, args...)})
}

func (s *Server) resolve(c *gin.Context, teamName, blockName string) (world.Team, *block.Block, bool) {
	team, ok := world.ParseTeam(teamName)
	if !ok {
		badRequest(c, "Неизвестная команда %q", teamName)
		return 0, nil, false
	}
	if blockName == "" {
		return team, nil, true
	}
	b := s.cfg.Catalog.ByName(blockName)
	if b == nil {
		badRequest(c, "Неизвестный блок %q", blockName)
		return 0, nil, false
	}
	return team, b, true
}

func (s *Server) handleTile(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	if errX != nil || errY != nil {
		badRequest(c, "Координаты должны быть целыми числами")
		return
	}

	var view *TileView
	if !s.call(c, func() {
		if t := s.cfg.Transactor.Validator().Grid().Tile(x, y); t != nil {
			v := newTileView(t)
			view = &v
		}
	}) {
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Клетка вне мира"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: view})
}

func (s *Server) handlePlaceCheck(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Неверный запрос: %v", err)
		return
	}
	team, b, ok := s.resolve(c, req.Team, req.Block)
	if !ok {
		return
	}

	var allowed bool
	if !s.call(c, func() {
		allowed = s.cfg.Transactor.Validator().CanPlace(team, *req.X, *req.Y, b, req.Rotation)
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

func (s *Server) handleBreakCheck(c *gin.Context) {
	var req BreakRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Неверный запрос: %v", err)
		return
	}
	team, _, ok := s.resolve(c, req.Team, "")
	if !ok {
		return
	}

	var allowed bool
	if !s.call(c, func() {
		allowed = s.cfg.Transactor.Validator().CanBreak(team, *req.X, *req.Y)
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

func (s *Server) handlePlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: %v", err)
		return
	}
	team, b, ok := s.resolve(c, req.Team, req.Block)
	if !ok {
		return
	}

	var started bool
	if !s.call(c, func() {
		started = s.cfg.Transactor.BeginPlace(team, *req.X, *req.Y, b, req.Rotation)
	}) {
		return
	}
	s.respondTransaction(c, started)
}

func (s *Server) handleBreak(c *gin.Context) {
	var req BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: %v", err)
		return
	}
	team, _, ok := s.resolve(c, req.Team, "")
	if !ok {
		return
	}

	var started bool
	if !s.call(c, func() {
		started = s.cfg.Transactor.BeginBreak(team, *req.X, *req.Y)
	}) {
		return
	}
	s.respondTransaction(c, started)
}

func (s *Server) respondTransaction(c *gin.Context, started bool) {
	if !started {
		c.JSON(http.StatusConflict, GenericResponse{Success: false, Message: "Транзакция не началась"})
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Транзакция начата"})
}

func (s *Server) handleLightning(c *gin.Context) {
	var req LightningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: %v", err)
		return
	}
	team := world.TeamNone
	if req.Team != "" {
		var ok bool
		if team, _, ok = s.resolve(c, req.Team, ""); !ok {
			return
		}
	}
	color := effect.DefaultColor
	if req.Color != nil {
		color = *req.Color
	}

	seed, err := s.cfg.Effects.Create(c.Request.Context(), team, color, req.Damage, req.X, req.Y, req.Angle, req.Hops)
	if errors.Is(err, session.ErrSeedsExhausted) {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: "Сиды сессии исчерпаны"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, GenericResponse{Success: false, Message: "Не удалось разослать эффект: " + err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Эффект создан", Data: gin.H{"seed": seed}})
}
