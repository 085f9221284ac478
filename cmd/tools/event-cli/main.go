package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/blockforge/internal/effect"
	"github.com/annel0/blockforge/internal/eventbus"
	"github.com/annel0/blockforge/internal/protocol"
	"github.com/annel0/blockforge/internal/world"
	"github.com/annel0/blockforge/internal/world/build"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "15:04:05.000"
)

// Известные типы событий шины
var knownTypes = []struct {
	name        string
	description string
}{
	{build.EventConstructionBegin, "начало стройки или разбора (JSON)"},
	{protocol.EventCreateChainEffect, "цепная молния, воспроизводится по сиду (protobuf wire)"},
}

func main() {
	var (
		natsURL    = flag.String("nats", defaultNatsURL, "адрес NATS JetStream")
		stream     = flag.String("stream", "EVENTS", "имя стрима")
		command    = flag.String("cmd", "tail", "команда: tail, types, chain")
		eventTypes = flag.String("types", "", "фильтр типов событий (через запятую)")
		sources    = flag.String("sources", "", "фильтр источников (через запятую)")
		limit      = flag.Int("limit", 0, "остановиться после N событий (0 — без ограничения)")

		seed   = flag.Int("seed", 0, "chain: сид эффекта")
		team   = flag.String("team", "none", "chain: команда эффекта")
		x      = flag.Float64("x", 0, "chain: X в мировых единицах")
		y      = flag.Float64("y", 0, "chain: Y в мировых единицах")
		damage = flag.Float64("damage", 20, "chain: урон одного удара")
		hops   = flag.Int("hops", 10, fmt.Sprintf("chain: длина цепи (0..%d)", effect.MaxHops))
	)
	flag.Parse()

	if *command == "types" {
		showTypes()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к %s: %v", *natsURL, err)
	}
	defer bus.Close()

	switch *command {
	case "tail":
		filter := eventbus.Filter{Types: parseStringList(*eventTypes), Sources: parseStringList(*sources)}
		if err := tailEvents(ctx, bus, filter, *limit); err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}

	case "chain":
		t, ok := world.ParseTeam(*team)
		if !ok {
			log.Fatalf("❌ Неизвестная команда %q", *team)
		}
		if *hops < 0 || *hops > int(effect.MaxHops) {
			log.Fatalf("❌ hops должно быть в пределах 0..%d, получено %d", effect.MaxHops, *hops)
		}
		msg := &protocol.CreateChainEffect{
			Seed:   int32(*seed),
			Team:   uint8(t),
			Color:  effect.DefaultColor,
			Damage: float32(*damage),
			X:      float32(*x),
			Y:      float32(*y),
			Hops:   int32(*hops),
		}
		if err := protocol.NewBusBroadcaster(bus, "event-cli").BroadcastChainEffect(ctx, msg); err != nil {
			log.Fatalf("❌ Публикация не удалась: %v", err)
		}
		fmt.Printf("⚡ Опубликовано: %s\n", msg)

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, types, chain")
		os.Exit(1)
	}
}

// tailEvents печатает новые события до отмены контекста или достижения limit
func tailEvents(ctx context.Context, bus eventbus.EventBus, filter eventbus.Filter, limit int) error {
	fmt.Printf("🎬 Tailing events (types: %v, limit: %d)\n", filter.Types, limit)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seen := make(chan struct{}, 64)
	sub, err := bus.Subscribe(ctx, filter, func(_ context.Context, ev *eventbus.Envelope) {
		printEvent(ev)
		select {
		case seen <- struct{}{}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	count := 0
	for {
		select {
		case <-ctx.Done():
			fmt.Printf("\n📊 Total events: %d\n", count)
			return nil
		case <-seen:
			count++
			if limit > 0 && count >= limit {
				cancel()
			}
		}
	}
}

func showTypes() {
	fmt.Println("📋 Available event types")
	for _, t := range knownTypes {
		fmt.Printf("Type: %s\n", t.name)
		fmt.Printf("  Subject: %s\n", eventbus.Subject(t.name))
		fmt.Printf("  Description: %s\n", t.description)
	}
}

// printEvent выводит событие в читаемом формате
func printEvent(ev *eventbus.Envelope) {
	fmt.Printf("[%s] %s [%s] %s\n", ev.Timestamp.Format(timeFormat), ev.Source, ev.EventType, ev.ID)

	switch ev.EventType {
	case build.EventConstructionBegin:
		p, err := build.DecodeConstructionBegin(ev)
		if err != nil {
			fmt.Printf("  ⚠️ %v\n", err)
			return
		}
		action := "place"
		if p.Breaking {
			action = "break"
		}
		fmt.Printf("  %s %s at (%d,%d) team=%s\n", action, p.Block, p.X, p.Y, world.Team(p.Team))
	case protocol.EventCreateChainEffect:
		var msg protocol.CreateChainEffect
		if err := msg.Unmarshal(ev.Payload); err != nil {
			fmt.Printf("  ⚠️ %v\n", err)
			return
		}
		fmt.Printf("  %s\n", &msg)
	}
}

// parseStringList парсит строку с разделителями-запятыми
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
