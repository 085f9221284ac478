package block

import "slices"

// BlockID — идентификатор типа блока в каталоге
type BlockID uint16

// Group — группа взаимозаменяемых блоков (стены заменяются стенами и т.д.)
type Group uint8

const (
	GroupNone Group = iota
	GroupWalls
	GroupTransportation
	GroupPower
	GroupDrills
)

// Block — неизменяемое описание типа блока.
// Экземпляры создаются при загрузке каталога и дальше только читаются.
type Block struct {
	ID   BlockID
	Name string
	Size int // сторона квадратного футпринта, >= 1

	Solid         bool // блокирует сущности
	Solidifies    bool // становится твёрдым после постройки
	AlwaysReplace bool // может быть перезаписан любым блоком (камни, мусор)
	Replaceable   bool // может быть заменён блоком той же группы
	Rotate        bool // поддерживает поворот
	Floating      bool // можно ставить на жидкий пол
	Visible       bool // доступен игрокам для постройки
	Hidden        bool // скрыт правилами карты
	Breakable     bool // может быть разобран
	Synthetic     bool // построен игроком, разбирать может только владелец
	Placeholder   bool // "build<N>": блок-заглушка на время стройки

	Group         Group
	AllowedFloors []string // пусто — любой пол
}

// IsMultiblock возвращает true для блоков больше одной клетки
func (b *Block) IsMultiblock() bool {
	return b.Size > 1
}

// Offset возвращает смещение центра блока относительно центра опорного тайла.
// Для чётных размеров центр сдвинут на полтайла.
func (b *Block) Offset(tileSize float32) float32 {
	return float32((b.Size+1)%2) * tileSize / 2
}

// CanReplace проверяет, может ли b заменить уже стоящий блок other.
// Тот же тип заменяет сам себя только если поддерживает поворот.
func (b *Block) CanReplace(other *Block) bool {
	if other == nil {
		return false
	}
	return other.Replaceable &&
		(other.ID != b.ID || b.Rotate) &&
		b.Group != GroupNone &&
		other.Group == b.Group
}

// CanPlaceOn проверяет ограничения блока на тип пола
func (b *Block) CanPlaceOn(floor *Floor) bool {
	if len(b.AllowedFloors) == 0 {
		return true
	}
	return floor != nil && slices.Contains(b.AllowedFloors, floor.Name)
}

// String возвращает имя блока
func (b *Block) String() string {
	if b == nil {
		return "<nil>"
	}
	return b.Name
}

// Floor — описание пола (террейна) под блоком
type Floor struct {
	ID          uint16
	Name        string
	IsLiquid    bool
	PlaceableOn bool
}

// String возвращает имя пола
func (f *Floor) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Name
}
