package world

import (
	"github.com/annel0/blockforge/internal/rng"
	"github.com/annel0/blockforge/internal/util"
	"github.com/annel0/blockforge/internal/world/block"
)

// Пороги высоты для генерации пола
const (
	DeepWaterMax    = 0.20 // Ниже - глубокая вода
	ShallowWaterMax = 0.30 // Ниже - мелководье
	SandMax         = 0.38 // Ниже - песок
	StoneStart      = 0.75 // Выше - камень с рудой
)

// FloorNames — имена полов, которые использует генератор
type FloorNames struct {
	DeepWater, ShallowWater, Sand, Grass, Stone, Ore string
}

// Generator заполняет пол сетки по шуму Перлина и разбрасывает камни
type Generator struct {
	Seed       int64
	NoiseScale float64 // Масштаб шума высоты
	OreScale   float64 // Масштаб шума руды
	RockChance float32 // Вероятность камня на суше
	Floors     FloorNames
	RockName   string
}

// NewGenerator создаёт генератор с настройками по умолчанию
func NewGenerator(seed int64, floors FloorNames, rock string) *Generator {
	return &Generator{
		Seed:       seed,
		NoiseScale: 0.05,
		OreScale:   0.15,
		RockChance: 0.03,
		Floors:     floors,
		RockName:   rock,
	}
}

// Generate перезаписывает пол всех клеток сетки. Результат детерминирован по Seed.
func (gen *Generator) Generate(g *Grid, cat *block.Catalog) {
	height := util.NewNoise(gen.Seed)
	ore := util.NewNoise(gen.Seed + 42)
	random := rng.New(gen.Seed)
	rock := cat.ByName(gen.RockName)

	g.Each(func(t *Tile) {
		h := height.At(float64(t.X)*gen.NoiseScale, float64(t.Y)*gen.NoiseScale)

		var name string
		switch {
		case h < DeepWaterMax:
			name = gen.Floors.DeepWater
		case h < ShallowWaterMax:
			name = gen.Floors.ShallowWater
		case h < SandMax:
			name = gen.Floors.Sand
		case h < StoneStart:
			name = gen.Floors.Grass
		default:
			name = gen.Floors.Stone
			if ore.At(float64(t.X)*gen.OreScale, float64(t.Y)*gen.OreScale) > 0.6 {
				name = gen.Floors.Ore
			}
		}
		floor := cat.Floor(name)
		if floor == nil {
			return
		}
		g.SetFloor(t, floor)

		if rock != nil && !floor.IsLiquid && random.Float32() < gen.RockChance {
			g.SetBlock(t, rock, 0)
		}
	})
}
