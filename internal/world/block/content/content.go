// Package content регистрирует встроенные блоки и полы.
package content

import (
	"strconv"

	"github.com/annel0/blockforge/internal/world/block"
)

// MaxPlaceholderSize — наибольший размер блока, для которого есть заглушка стройки
const MaxPlaceholderSize = 4

// Имена встроенных блоков
const (
	Air          = block.AirName
	Rock         = "rock"
	Spawn        = "spawn"
	CopperWall   = "copper-wall"
	CopperWallL  = "copper-wall-large"
	TitaniumWall = "titanium-wall-huge"
	Conveyor     = "conveyor"
	Junction     = "junction"
	Pontoon      = "pontoon"
	Drill        = "mechanical-drill"
	PowerNode    = "power-node"
	CoreShard    = "core-shard"
)

// Имена встроенных полов
const (
	Stone        = "stone"
	Sand         = "sand"
	Grass        = "grass"
	MetalFloor   = "metal-floor"
	OreCopper    = "ore-copper"
	ShallowWater = "shallow-water"
	DeepWater    = "deep-water"
)

// Load регистрирует встроенный контент в каталоге
func Load(c *block.Catalog) {
	loadFloors(c)
	loadBlocks(c)
}

// NewCatalog создаёт каталог со встроенным контентом
func NewCatalog() *block.Catalog {
	c := block.NewCatalog()
	Load(c)
	return c
}

func loadFloors(c *block.Catalog) {
	c.MustRegisterFloor(&block.Floor{Name: Stone, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: Sand, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: Grass, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: MetalFloor, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: OreCopper, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: ShallowWater, IsLiquid: true, PlaceableOn: true})
	c.MustRegisterFloor(&block.Floor{Name: DeepWater, IsLiquid: true, PlaceableOn: false})
}

func loadBlocks(c *block.Catalog) {
	c.MustRegister(&block.Block{Name: Air, Size: 1, AlwaysReplace: true})

	for size := 1; size <= MaxPlaceholderSize; size++ {
		c.MustRegister(&block.Block{
			Name:        block.PlaceholderName + strconv.Itoa(size),
			Size:        size,
			Solid:       true,
			Breakable:   true,
			Synthetic:   true,
			Placeholder: true,
		})
	}

	c.MustRegister(&block.Block{Name: Rock, Size: 1, AlwaysReplace: true, Breakable: true, Visible: false})
	c.MustRegister(&block.Block{Name: Spawn, Size: 1, Visible: true, Hidden: true})

	walls := []struct {
		name string
		size int
	}{{CopperWall, 1}, {CopperWallL, 2}, {TitaniumWall, 3}}
	for _, w := range walls {
		c.MustRegister(&block.Block{
			Name:        w.name,
			Size:        w.size,
			Solid:       true,
			Replaceable: true,
			Visible:     true,
			Breakable:   true,
			Synthetic:   true,
			Group:       block.GroupWalls,
		})
	}

	c.MustRegister(&block.Block{
		Name: Conveyor, Size: 1, Replaceable: true, Rotate: true, Visible: true,
		Breakable: true, Synthetic: true, Group: block.GroupTransportation,
	})
	c.MustRegister(&block.Block{
		Name: Junction, Size: 1, Replaceable: true, Visible: true,
		Breakable: true, Synthetic: true, Group: block.GroupTransportation,
	})
	c.MustRegister(&block.Block{
		Name: Pontoon, Size: 2, Solid: true, Floating: true, Visible: true,
		Breakable: true, Synthetic: true,
	})
	c.MustRegister(&block.Block{
		Name: Drill, Size: 2, Solid: true, Replaceable: true, Visible: true, Breakable: true,
		Synthetic: true, Group: block.GroupDrills, AllowedFloors: []string{OreCopper, Sand},
	})
	c.MustRegister(&block.Block{
		Name: PowerNode, Size: 1, Solidifies: true, Replaceable: true, Visible: true,
		Breakable: true, Synthetic: true, Group: block.GroupPower,
	})
	c.MustRegister(&block.Block{
		Name: CoreShard, Size: 3, Solid: true, Visible: true, Synthetic: true,
	})
}
