package block

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// contentFile описывает YAML-файл с дополнительным контентом
type contentFile struct {
	Floors []floorDef `yaml:"floors"`
	Blocks []blockDef `yaml:"blocks"`
}

type floorDef struct {
	Name        string `yaml:"name"`
	Liquid      bool   `yaml:"liquid"`
	PlaceableOn *bool  `yaml:"placeable_on"`
}

// blockDef — указатели там, где значение по умолчанию true
type blockDef struct {
	Name          string   `yaml:"name"`
	Size          int      `yaml:"size"`
	Solid         bool     `yaml:"solid"`
	Solidifies    bool     `yaml:"solidifies"`
	AlwaysReplace bool     `yaml:"always_replace"`
	Replaceable   *bool    `yaml:"replaceable"`
	Rotate        bool     `yaml:"rotate"`
	Floating      bool     `yaml:"floating"`
	Visible       *bool    `yaml:"visible"`
	Hidden        bool     `yaml:"hidden"`
	Breakable     *bool    `yaml:"breakable"`
	Synthetic     *bool    `yaml:"synthetic"`
	Group         string   `yaml:"group"`
	AllowedFloors []string `yaml:"allowed_floors"`
}

var groupNames = map[string]Group{
	"":               GroupNone,
	"none":           GroupNone,
	"walls":          GroupWalls,
	"transportation": GroupTransportation,
	"power":          GroupPower,
	"drills":         GroupDrills,
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// LoadYAML дополняет каталог блоками и полами из YAML-файла
func LoadYAML(c *Catalog, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение контента %s: %w", path, err)
	}
	return ParseYAML(c, data)
}

// ParseYAML дополняет каталог описаниями из YAML
func ParseYAML(c *Catalog, data []byte) error {
	var file contentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("разбор контента: %w", err)
	}

	// Размеры проверяются до регистрации: блок без заглушки нельзя начать строить
	for i := range file.Blocks {
		bd := &file.Blocks[i]
		if bd.Size == 0 {
			bd.Size = 1
		}
		if bd.Size < 0 || c.Placeholder(bd.Size) == nil {
			return fmt.Errorf("блок %s: нет заглушки %s%d для размера %d", bd.Name, PlaceholderName, bd.Size, bd.Size)
		}
	}

	for _, fd := range file.Floors {
		if _, err := c.RegisterFloor(&Floor{
			Name:        fd.Name,
			IsLiquid:    fd.Liquid,
			PlaceableOn: boolOr(fd.PlaceableOn, true),
		}); err != nil {
			return err
		}
	}

	for _, bd := range file.Blocks {
		group, ok := groupNames[bd.Group]
		if !ok {
			return fmt.Errorf("блок %s: неизвестная группа %q", bd.Name, bd.Group)
		}
		size := bd.Size
		if _, err := c.Register(&Block{
			Name:          bd.Name,
			Size:          size,
			Solid:         bd.Solid,
			Solidifies:    bd.Solidifies,
			AlwaysReplace: bd.AlwaysReplace,
			Replaceable:   boolOr(bd.Replaceable, true),
			Rotate:        bd.Rotate,
			Floating:      bd.Floating,
			Visible:       boolOr(bd.Visible, true),
			Hidden:        bd.Hidden,
			Breakable:     boolOr(bd.Breakable, true),
			Synthetic:     boolOr(bd.Synthetic, true),
			Group:         group,
			AllowedFloors: bd.AllowedFloors,
		}); err != nil {
			return err
		}
	}
	return nil
}
