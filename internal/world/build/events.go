package build

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/blockforge/internal/eventbus"
	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/world"
)

// EventConstructionBegin — тип конверта шины для начала стройки
const EventConstructionBegin = "ConstructionBegin"

// ConstructionBeginEvent объявляет о начале стройки или разбора
type ConstructionBeginEvent struct {
	Tile     *world.Tile
	Team     world.Team
	Breaking bool
}

// Announcer получает объявления о начале транзакций
type Announcer interface {
	ConstructionBegin(ev ConstructionBeginEvent)
}

// AnnouncerFunc позволяет использовать функцию как Announcer
type AnnouncerFunc func(ev ConstructionBeginEvent)

// ConstructionBegin вызывает f(ev)
func (f AnnouncerFunc) ConstructionBegin(ev ConstructionBeginEvent) { f(ev) }

// ConstructionBeginPayload — JSON-представление события в шине
type ConstructionBeginPayload struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Team     uint8  `json:"team"`
	Breaking bool   `json:"breaking"`
	Block    string `json:"block"`
	Target   string `json:"target,omitempty"`
}

// BusAnnouncer публикует объявления в шину событий
type BusAnnouncer struct {
	bus     eventbus.EventBus
	source  string
	timeout time.Duration
}

// NewBusAnnouncer создаёт публикатор с указанным именем источника
func NewBusAnnouncer(bus eventbus.EventBus, source string) *BusAnnouncer {
	return &BusAnnouncer{bus: bus, source: source, timeout: time.Second}
}

// ConstructionBegin публикует событие; ошибки публикации логируются
func (a *BusAnnouncer) ConstructionBegin(ev ConstructionBeginEvent) {
	env, err := NewConstructionBeginEnvelope(ev, a.source)
	if err != nil {
		logging.Error("Ошибка сериализации ConstructionBegin: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.bus.Publish(ctx, env); err != nil {
		logging.Warn("Не удалось опубликовать ConstructionBegin: %v", err)
	}
}

// NewConstructionBeginEnvelope упаковывает событие в конверт шины
func NewConstructionBeginEnvelope(ev ConstructionBeginEvent, source string) (*eventbus.Envelope, error) {
	p := ConstructionBeginPayload{
		X:        ev.Tile.X,
		Y:        ev.Tile.Y,
		Team:     uint8(ev.Team),
		Breaking: ev.Breaking,
		Block:    ev.Tile.Block().Name,
	}
	if payload, ok := PayloadOf(ev.Tile); ok {
		if payload.Kind() == KindDeconstruct {
			p.Target = payload.Target().Name
		} else {
			p.Target = payload.Result().Name
		}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal construction begin: %w", err)
	}
	return eventbus.NewEnvelope(source, EventConstructionBegin, 5, data), nil
}

// DecodeConstructionBegin разбирает полезную нагрузку конверта
func DecodeConstructionBegin(env *eventbus.Envelope) (ConstructionBeginPayload, error) {
	var p ConstructionBeginPayload
	if env.EventType != EventConstructionBegin {
		return p, fmt.Errorf("неожиданный тип события %q", env.EventType)
	}
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return p, fmt.Errorf("unmarshal construction begin: %w", err)
	}
	return p, nil
}
