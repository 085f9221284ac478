// Package api — HTTP API предпросмотра и администрирования симуляции.
//
// Все чтения и изменения сетки выполняются через sim.Loop.Call, поэтому
// обработчики видят согласованный снимок между тиками.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/blockforge/internal/effect"
	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/middleware"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/sim"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/world/block"
	"github.com/annel0/blockforge/internal/world/build"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Config содержит зависимости API
type Config struct {
	Port       string // адрес для запуска сервера, например ":8088"
	Loop       *sim.Loop
	Transactor *build.Transactor
	Catalog    *block.Catalog
	Units      *unit.Index
	Effects    *effect.Controller
	Session    *session.Session
	Logger     *logging.Logger
	Registerer prometheus.Registerer // nil — глобальный реестр
}

// Server — HTTP API симуляции
type Server struct {
	cfg     Config
	router  *gin.Engine
	stats   *processStats
	httpSrv *http.Server
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewServer создаёт сервер и настраивает маршруты
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("blockforge_api"))
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("blockforge_api", cfg.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	s := &Server{cfg: cfg, router: router, stats: newProcessStats()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/tiles/:x/:y", s.handleTile)
	s.router.GET("/place/check", s.handlePlaceCheck)
	s.router.GET("/break/check", s.handleBreakCheck)

	admin := s.router.Group("/admin")
	{
		admin.POST("/place", s.handlePlace)
		admin.POST("/break", s.handleBreak)
		admin.POST("/lightning", s.handleLightning)
	}
	// Отладочный запуск молнии без префикса
	s.router.POST("/lightning", s.handleLightning)
}

// Handler возвращает http.Handler сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start запускает HTTP-сервер в отдельной горутине
func (s *Server) Start() {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.cfg.Logger.Info("API доступен по адресу %s", s.cfg.Port)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.Logger.Error("Ошибка HTTP сервера API: %v", err)
		}
	}()
}

// Shutdown корректно останавливает HTTP-сервер
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// call выполняет fn в потоке симуляции с таймаутом запроса
func (s *Server) call(c *gin.Context, fn func()) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.cfg.Loop.Call(ctx, fn); err != nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: "Симуляция не отвечает: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	report := HealthReport{Status: "ok"}
	if s.cfg.Session != nil {
		report.Session = s.cfg.Session.ID.String()
	}
	if !s.call(c, func() {
		report.Tick = s.cfg.Loop.TickCount()
		if s.cfg.Units != nil {
			report.Units = s.cfg.Units.Len()
		}
		if s.cfg.Effects != nil {
			report.Effects = len(s.cfg.Effects.Active())
		}
	}) {
		return
	}
	s.stats.fill(&report)
	c.JSON(http.StatusOK, report)
}
