package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_TickOrder(t *testing.T) {
	l := NewLoop(8, nil)
	var order []string

	l.AddSystem("build", func(context.Context, uint64) {
		order = append(order, "system")
		l.Post(func() { order = append(order, "posted") })
	})
	l.AddSystem("effects", func(context.Context, uint64) { order = append(order, "system2") })
	l.Submit(func() { order = append(order, "inbox") })

	l.Tick(context.Background())
	assert.Equal(t, []string{"inbox", "system", "system2", "posted"}, order)
	assert.Equal(t, uint64(1), l.TickCount())
}

func TestLoop_PostFromPosted(t *testing.T) {
	l := NewLoop(8, nil)
	var order []int
	l.AddSystem("s", func(context.Context, uint64) {
		l.Post(func() {
			order = append(order, 1)
			l.Post(func() { order = append(order, 2) })
		})
	})

	l.Tick(context.Background())
	assert.Equal(t, []int{1, 2}, order, "вложенный Post выполняется в том же тике")
}

func TestLoop_PostFromInboxRunsBeforeSystems(t *testing.T) {
	l := NewLoop(8, nil)
	var order []string
	l.AddSystem("s", func(context.Context, uint64) { order = append(order, "system") })
	l.Submit(func() {
		l.Post(func() { order = append(order, "announce") })
	})

	l.Tick(context.Background())
	assert.Equal(t, []string{"announce", "system"}, order)
}

func TestLoop_Call(t *testing.T) {
	l := NewLoop(8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = l.Run(ctx, 200)
	}()

	called := false
	require.NoError(t, l.Call(context.Background(), func() { called = true }))
	assert.True(t, called, "функция выполнена до возврата Call")
}

func TestLoop_CallTimeout(t *testing.T) {
	l := NewLoop(1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, l.Call(ctx, func() {}), context.DeadlineExceeded, "цикл не запущен")
}

func TestLoop_CallTimeoutSkipsQueuedTask(t *testing.T) {
	l := NewLoop(4, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	called := false
	require.ErrorIs(t, l.Call(ctx, func() { called = true }), context.DeadlineExceeded)
	require.Len(t, l.inbox, 1, "задача осталась в очереди")

	l.Tick(context.Background())
	assert.False(t, called, "после ошибки Call функция не выполняется")
	assert.Empty(t, l.inbox)
}

func TestLoop_RunRejectsBadRate(t *testing.T) {
	assert.Error(t, NewLoop(1, nil).Run(context.Background(), 0))
}
