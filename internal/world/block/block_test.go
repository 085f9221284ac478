package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_Offset(t *testing.T) {
	assert.Equal(t, float32(0), (&Block{Size: 1}).Offset(8))
	assert.Equal(t, float32(4), (&Block{Size: 2}).Offset(8), "чётный размер сдвигает центр на полтайла")
	assert.Equal(t, float32(0), (&Block{Size: 3}).Offset(8))
}

func TestBlock_CanReplace(t *testing.T) {
	c := NewCatalog()
	wall := c.MustRegister(&Block{Name: "wall", Size: 1, Replaceable: true, Group: GroupWalls})
	wall2 := c.MustRegister(&Block{Name: "wall-titan", Size: 1, Replaceable: true, Group: GroupWalls})
	conveyor := c.MustRegister(&Block{Name: "conveyor", Size: 1, Replaceable: true, Rotate: true, Group: GroupTransportation})
	rock := c.MustRegister(&Block{Name: "rock", Size: 1, AlwaysReplace: true})

	assert.True(t, wall2.CanReplace(wall), "блок той же группы заменяется")
	assert.False(t, wall.CanReplace(wall), "неповоротный блок не заменяет сам себя")
	assert.True(t, conveyor.CanReplace(conveyor), "поворотный блок заменяет сам себя")
	assert.False(t, conveyor.CanReplace(wall), "разные группы")
	assert.False(t, rock.CanReplace(wall), "блок без группы ничего не заменяет")
	assert.False(t, wall.CanReplace(nil))
}

func TestBlock_CanPlaceOn(t *testing.T) {
	drill := &Block{Name: "drill", Size: 2, AllowedFloors: []string{"ore"}}
	assert.True(t, drill.CanPlaceOn(&Floor{Name: "ore"}))
	assert.False(t, drill.CanPlaceOn(&Floor{Name: "sand"}))
	assert.True(t, (&Block{Name: "wall", Size: 1}).CanPlaceOn(&Floor{Name: "sand"}))
}

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := NewCatalog()
	air := c.MustRegister(&Block{Name: AirName, Size: 1})
	b2 := c.MustRegister(&Block{Name: "build2", Size: 2, Placeholder: true})

	assert.Same(t, air, c.Air())
	assert.Same(t, b2, c.Placeholder(2))
	assert.Nil(t, c.Placeholder(5))
	assert.Same(t, b2, c.ByID(b2.ID))
	assert.Nil(t, c.ByID(99))

	_, err := c.Register(&Block{Name: "build2", Size: 2})
	assert.Error(t, err, "повторная регистрация имени запрещена")
	_, err = c.Register(&Block{Name: "broken", Size: 0})
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	c := NewCatalog()
	c.MustRegister(&Block{Name: "build1", Size: 1, Placeholder: true})
	c.MustRegister(&Block{Name: "build2", Size: 2, Placeholder: true})
	err := ParseYAML(c, []byte(`
floors:
  - name: tar
    liquid: true
    placeable_on: false
blocks:
  - name: plastanium-wall-large
    size: 2
    solid: true
    group: walls
  - name: decoration
    visible: false
    synthetic: false
`))
	require.NoError(t, err)

	tar := c.Floor("tar")
	require.NotNil(t, tar)
	assert.True(t, tar.IsLiquid)
	assert.False(t, tar.PlaceableOn)

	wall := c.ByName("plastanium-wall-large")
	require.NotNil(t, wall)
	assert.Equal(t, 2, wall.Size)
	assert.Equal(t, GroupWalls, wall.Group)
	assert.True(t, wall.Visible, "visible по умолчанию true")
	assert.True(t, wall.Breakable)

	deco := c.ByName("decoration")
	require.NotNil(t, deco)
	assert.Equal(t, 1, deco.Size, "размер по умолчанию 1")
	assert.False(t, deco.Visible)
	assert.False(t, deco.Synthetic)

	assert.Error(t, ParseYAML(c, []byte("blocks:\n  - name: x\n    group: unknown\n")))
}

func TestParseYAML_RejectsSizeWithoutPlaceholder(t *testing.T) {
	c := NewCatalog()
	c.MustRegister(&Block{Name: "build1", Size: 1, Placeholder: true})

	err := ParseYAML(c, []byte(`
blocks:
  - name: small-wall
    group: walls
  - name: huge-wall
    size: 5
    group: walls
`))
	assert.ErrorContains(t, err, "huge-wall")
	assert.Nil(t, c.ByName("small-wall"), "файл с ошибкой не регистрирует ничего")

	assert.Error(t, ParseYAML(c, []byte("blocks:\n  - name: neg\n    size: -1\n")))
}
