package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/blockforge/internal/api"
	"github.com/annel0/blockforge/internal/combat"
	"github.com/annel0/blockforge/internal/config"
	"github.com/annel0/blockforge/internal/effect"
	"github.com/annel0/blockforge/internal/eventbus"
	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/observability"
	"github.com/annel0/blockforge/internal/protocol"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/sim"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/block"
	"github.com/annel0/blockforge/internal/world/block/content"
	"github.com/annel0/blockforge/internal/world/build"
)

// Ячейка пространственного индекса единиц в мировых единицах
const unitCellSize = 64

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $GAME_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level) // уровень проверен в config.Validate
	logging.Configure(cfg.Logging.Dir, level)
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer func() {
		if err := logging.CloseComponentLoggers(); err != nil {
			log.Printf("⚠️ Ошибка закрытия логов: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error("❌ %v", err)
		log.Fatalf("❌ %v", err)
	}
	logging.Info("✅ Сервер корректно остановлен")
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.Service, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === КОНТЕНТ И КАРТА ===
	catalog := content.NewCatalog()
	if cfg.World.Content != "" {
		if err := block.LoadYAML(catalog, cfg.World.Content); err != nil {
			return fmt.Errorf("загрузка контента: %w", err)
		}
	}

	grid, err := world.NewGrid(cfg.World.Width, cfg.World.Height, catalog.Air(), catalog.Floor(content.Stone))
	if err != nil {
		return err
	}
	floors := world.FloorNames{
		DeepWater:    content.DeepWater,
		ShallowWater: content.ShallowWater,
		Sand:         content.Sand,
		Grass:        content.Grass,
		Stone:        content.Stone,
		Ore:          content.OreCopper,
	}
	world.NewGenerator(cfg.World.Seed, floors, content.Rock).Generate(grid, catalog)

	teams := world.NewTeams()
	if err := placeCores(grid, teams, catalog); err != nil {
		return err
	}
	logging.Info("🗺️ Мир %dx%d сгенерирован (seed=%d)", grid.Width(), grid.Height(), cfg.World.Seed)

	// === ШИНА СОБЫТИЙ ===
	bus, err := newBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn("Ошибка закрытия шины: %v", err)
		}
	}()

	exporter := eventbus.NewMetricsExporter(bus, nil)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))

	if _, err := eventbus.StartLoggingListener(ctx, bus, logging.GetComponentLogger("eventbus")); err != nil {
		return fmt.Errorf("подписка логгера событий: %w", err)
	}

	// === СИМУЛЯЦИЯ ===
	loop := sim.NewLoop(cfg.EventBus.Buffer, logging.GetSimLogger())
	units := unit.NewIndex(unitCellSize)
	damage := combat.NewDamageSystem(units)

	rules := build.Rules{TileSize: cfg.Rules.TileSize, EnemyCoreBuildRadius: cfg.Rules.EnemyCoreBuildRadius}
	validator := build.NewValidator(grid, teams, units, rules)
	transactor := build.NewTransactor(validator, catalog, loop, build.NewBusAnnouncer(bus, "server"), logging.GetBuildLogger())

	sess := session.New(false)
	effects := effect.NewController(sess, protocol.NewBusBroadcaster(bus, "server"), units, damage, logging.GetEffectLogger())

	receiver := protocol.NewReceiver(bus, loop, func(msg *protocol.CreateChainEffect) {
		effects.Execute(msg)
	}, logging.GetEffectLogger())
	if _, err := receiver.Start(ctx); err != nil {
		return fmt.Errorf("подписка на эффекты: %w", err)
	}

	loop.AddSystem("effects", func(context.Context, uint64) { effects.Update() })
	loop.AddSystem("combat", func(context.Context, uint64) { damage.EndTick() })

	loop.Submit(func() { spawnWave(units, grid, rules.TileSize) })

	// === API ===
	server := api.NewServer(api.Config{
		Port:       fmt.Sprintf(":%d", cfg.Server.GetAPIPort()),
		Loop:       loop,
		Transactor: transactor,
		Catalog:    catalog,
		Units:      units,
		Effects:    effects,
		Session:    sess,
		Logger:     logging.GetAPILogger(),
	})
	server.Start()

	logging.Info("🚀 Сессия %s запущена", sess.ID)
	runErr := loop.Run(ctx, cfg.Sim.TickRate)

	// === ОСТАНОВКА ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Ошибка остановки API: %v", err)
	}
	if err := exporter.Stop(shutdownCtx); err != nil {
		logging.Warn("Ошибка остановки экспорта метрик: %v", err)
	}
	return runErr
}

func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Используется in-memory шина событий")
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("подключение к NATS %s: %w", cfg.URL, err)
	}
	logging.Info("📨 Подключена JetStream шина %s (stream=%s)", cfg.URL, cfg.Stream)
	return bus, nil
}

// placeCores ставит ядра sharded и crux в противоположных углах карты
func placeCores(grid *world.Grid, teams *world.Teams, catalog *block.Catalog) error {
	core := catalog.ByName(content.CoreShard)
	if core == nil {
		return fmt.Errorf("блок %s не зарегистрирован", content.CoreShard)
	}
	margin := core.Size + 2
	spots := []struct {
		team world.Team
		x, y int
	}{
		{world.TeamSharded, margin, margin},
		{world.TeamCrux, grid.Width() - 1 - margin, grid.Height() - 1 - margin},
	}
	for _, s := range spots {
		tile, err := build.PlaceBuilt(grid, s.x, s.y, core, s.team, 0)
		if err != nil {
			return fmt.Errorf("ядро %s: %w", s.team, err)
		}
		teams.AddCore(s.team, tile)
	}
	return nil
}

// spawnWave выставляет отряд crux у центра карты, чтобы молниям было по кому бить
func spawnWave(units *unit.Index, grid *world.Grid, tileSize float32) {
	cx := float32(grid.Width()) * tileSize / 2
	cy := float32(grid.Height()) * tileSize / 2
	for i := 0; i < 6; i++ {
		units.Spawn(world.TeamCrux, cx+float32(i%3)*24, cy+float32(i/3)*24, 8, 120)
	}
	logging.Debug("Выставлено %d единиц crux", units.Len())
}
