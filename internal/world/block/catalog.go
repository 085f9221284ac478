package block

import (
	"fmt"
	"strconv"
	"sync"
)

// Имена, на которые опирается логика строительства
const (
	AirName         = "air"
	PlaceholderName = "build" // + размер: build1, build2, ...
)

// Catalog — реестр типов блоков и полов.
// Регистрация выполняется при старте; после этого каталог только читается.
type Catalog struct {
	mu       sync.RWMutex
	blocks   []*Block
	byName   map[string]*Block
	floors   []*Floor
	floorIdx map[string]*Floor
}

// NewCatalog создаёт пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{
		byName:   make(map[string]*Block),
		floorIdx: make(map[string]*Floor),
	}
}

// Register добавляет блок в каталог и назначает ему ID
func (c *Catalog) Register(b *Block) (*Block, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("блок без имени")
	}
	if b.Size < 1 {
		return nil, fmt.Errorf("блок %s: некорректный размер %d", b.Name, b.Size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[b.Name]; exists {
		return nil, fmt.Errorf("блок %s уже зарегистрирован", b.Name)
	}
	b.ID = BlockID(len(c.blocks))
	c.blocks = append(c.blocks, b)
	c.byName[b.Name] = b
	return b, nil
}

// MustRegister как Register, но паникует при ошибке (для встроенного контента)
func (c *Catalog) MustRegister(b *Block) *Block {
	registered, err := c.Register(b)
	if err != nil {
		panic(err)
	}
	return registered
}

// RegisterFloor добавляет тип пола
func (c *Catalog) RegisterFloor(f *Floor) (*Floor, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("пол без имени")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.floorIdx[f.Name]; exists {
		return nil, fmt.Errorf("пол %s уже зарегистрирован", f.Name)
	}
	f.ID = uint16(len(c.floors))
	c.floors = append(c.floors, f)
	c.floorIdx[f.Name] = f
	return f, nil
}

// MustRegisterFloor как RegisterFloor, но паникует при ошибке
func (c *Catalog) MustRegisterFloor(f *Floor) *Floor {
	registered, err := c.RegisterFloor(f)
	if err != nil {
		panic(err)
	}
	return registered
}

// ByName возвращает блок по имени или nil
func (c *Catalog) ByName(name string) *Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// ByID возвращает блок по идентификатору или nil
func (c *Catalog) ByID(id BlockID) *Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(id) >= len(c.blocks) {
		return nil
	}
	return c.blocks[id]
}

// Floor возвращает пол по имени или nil
func (c *Catalog) Floor(name string) *Floor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.floorIdx[name]
}

// Placeholder возвращает блок-заглушку для стройки блока указанного размера
func (c *Catalog) Placeholder(size int) *Block {
	return c.ByName(PlaceholderName + strconv.Itoa(size))
}

// Air возвращает пустой блок
func (c *Catalog) Air() *Block {
	return c.ByName(AirName)
}

// Blocks возвращает все зарегистрированные блоки в порядке ID
func (c *Catalog) Blocks() []*Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}
