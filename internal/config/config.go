package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/blockforge/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера симуляции.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Rules     RulesConfig     `yaml:"rules"`
	Sim       SimConfig       `yaml:"sim"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WorldConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Seed    int64  `yaml:"seed"`
	Content string `yaml:"content"` // YAML-файл с дополнительными блоками
}

// RulesConfig — правила размещения. Расстояния в мировых единицах.
type RulesConfig struct {
	TileSize             float32 `yaml:"tile_size"`
	EnemyCoreBuildRadius float32 `yaml:"enemy_core_build_radius"`
}

type SimConfig struct {
	TickRate int `yaml:"tick_rate"` // тиков в секунду
}

type EventBusConfig struct {
	URL       string `yaml:"url"` // пусто — in-memory шина
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type ServerConfig struct {
	APIPort     int `yaml:"api_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"` // уровень консоли: trace, debug, info, warn, error
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{Width: 128, Height: 128, Seed: 1},
		Rules: RulesConfig{TileSize: 8, EnemyCoreBuildRadius: 400},
		Sim:   SimConfig{TickRate: 60},
		EventBus: EventBusConfig{
			Stream:    "EVENTS",
			Retention: 24,
			Buffer:    1024,
		},
		Telemetry: TelemetryConfig{Service: "blockforge"},
		Logging:   LoggingConfig{Dir: "logs", Level: "info"},
	}
}

// GetAPIPort возвращает порт API с поддержкой fallback значений
func (s *ServerConfig) GetAPIPort() int {
	return getPortWithEnvFallback(s.APIPort, "GAME_API_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых симуляция не может работать
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("некорректный размер мира %dx%d", c.World.Width, c.World.Height)
	}
	if c.Rules.TileSize <= 0 {
		return fmt.Errorf("rules.tile_size должен быть > 0, получено %v", c.Rules.TileSize)
	}
	if c.Rules.EnemyCoreBuildRadius < 0 {
		return fmt.Errorf("rules.enemy_core_build_radius не может быть отрицательным")
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate должен быть > 0, получено %d", c.Sim.TickRate)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
