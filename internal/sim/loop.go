// Package sim содержит авторитетный цикл симуляции.
//
// Сетка, единицы и эффекты изменяются только внутри Tick. Другие горутины
// передают работу через Submit или Call и никогда не трогают состояние напрямую.
package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// System — шаг симуляции, выполняемый каждый тик
type System func(ctx context.Context, tick uint64)

type namedSystem struct {
	name string
	run  System
}

// Loop — однопоточный цикл тиков.
//
// Порядок внутри тика: задачи из входящей очереди, системы в порядке
// добавления, затем отложенные через Post функции.
type Loop struct {
	inbox   chan func()
	posted  []func()
	systems []namedSystem
	tick    uint64
	tracer  trace.Tracer
	logger  *logging.Logger
}

// NewLoop создаёт цикл с очередью указанного размера. logger может быть nil.
func NewLoop(inboxSize int, logger *logging.Logger) *Loop {
	if inboxSize <= 0 {
		inboxSize = 256
	}
	return &Loop{
		inbox:  make(chan func(), inboxSize),
		tracer: otel.Tracer("github.com/annel0/blockforge/internal/sim"),
		logger: logger,
	}
}

// AddSystem добавляет систему. Вызывать до Run.
func (l *Loop) AddSystem(name string, fn System) {
	l.systems = append(l.systems, namedSystem{name: name, run: fn})
}

// Post откладывает fn до конца текущего тика. Только из потока симуляции.
func (l *Loop) Post(fn func()) {
	l.posted = append(l.posted, fn)
}

// Submit ставит fn в очередь следующего тика. Безопасен из любой горутины;
// блокируется, если очередь заполнена.
func (l *Loop) Submit(fn func()) {
	l.inbox <- fn
}

// Call выполняет fn в потоке симуляции и ждёт завершения.
// Нельзя вызывать из потока симуляции.
//
// Если Call вернул ошибку, fn не выполнялась и уже не выполнится:
// задача, дождавшаяся очереди после отмены ctx, пропускается.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	const (
		callPending int32 = iota
		callRunning
		callAbandoned
	)
	var state atomic.Int32
	done := make(chan struct{})
	task := func() {
		if ctx.Err() != nil || !state.CompareAndSwap(callPending, callRunning) {
			return
		}
		defer close(done)
		fn()
	}

	select {
	case l.inbox <- task:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(callPending, callAbandoned) {
			return ctx.Err()
		}
		// fn уже выполняется: результат будет применён, дожидаемся его
		<-done
		return nil
	}
}

// TickCount возвращает номер следующего тика
func (l *Loop) TickCount() uint64 {
	return l.tick
}

// Tick выполняет один тик симуляции
func (l *Loop) Tick(ctx context.Context) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "sim.Tick", trace.WithAttributes(attribute.Int64("tick", int64(l.tick))))
	defer span.End()

	l.drainInbox()
	for _, s := range l.systems {
		s.run(ctx, l.tick)
	}
	l.runPosted()

	l.tick++
	metrics.TickDuration.Observe(time.Since(start).Seconds())
}

func (l *Loop) drainInbox() {
	for {
		select {
		case fn := <-l.inbox:
			fn()
			l.runPosted()
		default:
			return
		}
	}
}

// runPosted выполняет отложенные функции, включая добавленные во время выполнения
func (l *Loop) runPosted() {
	for len(l.posted) > 0 {
		batch := l.posted
		l.posted = nil
		for _, fn := range batch {
			fn()
		}
	}
}

// Run выполняет тики с частотой rate в секунду до отмены контекста
func (l *Loop) Run(ctx context.Context, rate int) error {
	if rate <= 0 {
		return fmt.Errorf("некорректная частота тиков %d", rate)
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	l.logger.Info("цикл симуляции запущен: %d тиков/с, систем: %d", rate, len(l.systems))
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("цикл симуляции остановлен на тике %d", l.tick)
			return nil
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}
