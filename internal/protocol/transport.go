package protocol

import (
	"context"
	"fmt"

	"github.com/annel0/blockforge/internal/eventbus"
	"github.com/annel0/blockforge/internal/logging"
)

// Broadcaster рассылает сообщение о цепном эффекте всем участникам сессии,
// включая отправителя. Доставка без подтверждений.
type Broadcaster interface {
	BroadcastChainEffect(ctx context.Context, msg *CreateChainEffect) error
}

// BusBroadcaster публикует CreateChainEffect в шину событий
type BusBroadcaster struct {
	bus    eventbus.EventBus
	source string
}

// NewBusBroadcaster создаёт рассыльщик поверх шины
func NewBusBroadcaster(bus eventbus.EventBus, source string) *BusBroadcaster {
	return &BusBroadcaster{bus: bus, source: source}
}

// BroadcastChainEffect публикует сообщение с высоким приоритетом, чтобы его не отбросило back-pressure
func (b *BusBroadcaster) BroadcastChainEffect(ctx context.Context, msg *CreateChainEffect) error {
	env := eventbus.NewEnvelope(b.source, EventCreateChainEffect, 7, msg.Marshal())
	if err := b.bus.Publish(ctx, env); err != nil {
		return fmt.Errorf("broadcast chain effect %d: %w", msg.Seed, err)
	}
	return nil
}

// Submitter передаёт функцию в поток симуляции
type Submitter interface {
	Submit(fn func())
}

// Receiver получает CreateChainEffect из шины и исполняет их в потоке симуляции
type Receiver struct {
	bus    eventbus.EventBus
	loop   Submitter
	handle func(msg *CreateChainEffect)
	logger *logging.Logger
}

// NewReceiver создаёт получателя. handle вызывается только в потоке симуляции.
func NewReceiver(bus eventbus.EventBus, loop Submitter, handle func(msg *CreateChainEffect), logger *logging.Logger) *Receiver {
	return &Receiver{bus: bus, loop: loop, handle: handle, logger: logger}
}

// Start подписывает получателя на шину
func (r *Receiver) Start(ctx context.Context) (eventbus.Subscription, error) {
	return r.bus.Subscribe(ctx, eventbus.Filter{Types: []string{EventCreateChainEffect}}, r.onEnvelope)
}

func (r *Receiver) onEnvelope(_ context.Context, ev *eventbus.Envelope) {
	var msg CreateChainEffect
	if err := msg.Unmarshal(ev.Payload); err != nil {
		logging.LogProtocolError(ev.Source, err, ev.Payload)
		return
	}
	r.logger.Trace("получен %s от %s", &msg, ev.Source)
	r.loop.Submit(func() { r.handle(&msg) })
}
