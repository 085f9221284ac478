package effect

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/annel0/blockforge/internal/combat"
	"github.com/annel0/blockforge/internal/protocol"
	"github.com/annel0/blockforge/internal/rng"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type impact struct {
	source int32
	team   world.Team
	x, y   float32
	damage float32
}

type recordingEmitter struct {
	impacts []impact
}

func (e *recordingEmitter) CreateImpact(_ combat.ImpactType, source int32, team world.Team, x, y, _, damage float32) {
	e.impacts = append(e.impacts, impact{source: source, team: team, x: x, y: y, damage: damage})
}

type recordingBroadcaster struct {
	sent []protocol.CreateChainEffect
	err  error
}

func (b *recordingBroadcaster) BroadcastChainEffect(_ context.Context, msg *protocol.CreateChainEffect) error {
	b.sent = append(b.sent, *msg)
	return b.err
}

func newController(units *unit.Index) (*Controller, *recordingEmitter) {
	em := &recordingEmitter{}
	return NewController(session.New(true), &recordingBroadcaster{}, units, em, nil), em
}

func chainMsg(seed int32, team world.Team, x, y float32, hops int32) *protocol.CreateChainEffect {
	return &protocol.CreateChainEffect{Seed: seed, Team: uint8(team), Color: DefaultColor, Damage: 1, X: x, Y: y, Hops: hops}
}

// crowd расставляет враждебные единицы сеткой с шагом step
func crowd(team world.Team, n int, step float32) *unit.Index {
	units := unit.NewIndex(16)
	for i := 0; i < n; i++ {
		units.Spawn(team, float32(i%6)*step, float32(i/6)*step, 4, 1000)
	}
	return units
}

func TestExecute_WanderWithoutTargets(t *testing.T) {
	c, em := newController(unit.NewIndex(16))
	l := c.Execute(chainMsg(42, world.TeamSharded, 0, 0, 8))

	require.Len(t, l.Waypoints, 4, "hops/2 точек")
	require.Len(t, em.impacts, 4, "удар на каждом прыжке")
	assert.Empty(t, l.Struck)
	assert.Equal(t, impact{source: 42, team: world.TeamSharded, x: 0, y: 0, damage: 1}, em.impacts[0], "первый удар в начале цепи")

	// Повторяем порядок выборок генератора: две на разброс точки, одна на курс.
	r := rng.New(42)
	var heading float32
	for i := 0; i < 3; i++ {
		r.Range(Jitter)
		r.Range(Jitter)
		heading = float32(heading + r.Range(HeadingJitter))

		from, to := em.impacts[i], em.impacts[i+1]
		dx, dy := float64(to.x-from.x), float64(to.y-from.y)
		assert.InDelta(t, float64(HitRange/2), math.Hypot(dx, dy), 1e-2, "шаг без цели — половина радиуса")
		assert.InDelta(t, float64(heading), math.Atan2(dy, dx)*180/math.Pi, 0.1, "курс прыжка %d", i)
	}

	for i, p := range l.Waypoints {
		assert.LessOrEqual(t, math.Abs(float64(p.X-em.impacts[i].x)), float64(Jitter))
		assert.LessOrEqual(t, math.Abs(float64(p.Y-em.impacts[i].y)), float64(Jitter))
	}
}

func TestExecute_DeterministicReplay(t *testing.T) {
	run := func() (*Lightning, []impact) {
		c, em := newController(crowd(world.TeamCrux, 36, 9))
		l := c.Execute(chainMsg(7, world.TeamSharded, 20, 20, 16))
		return l, em.impacts
	}
	first, firstImpacts := run()
	second, secondImpacts := run()

	assert.NotEmpty(t, first.Struck)
	assert.Equal(t, first.Struck, second.Struck, "одинаковые цели")
	assert.Equal(t, first.Waypoints, second.Waypoints, "одинаковые точки ломаной")
	assert.Equal(t, firstImpacts, secondImpacts)

	c, _ := newController(unit.NewIndex(16))
	a := append([]Point(nil), c.Execute(chainMsg(1, world.TeamSharded, 0, 0, 8)).Waypoints...)
	b := c.Execute(chainMsg(2, world.TeamSharded, 0, 0, 8)).Waypoints
	assert.NotEqual(t, a, b, "разные сиды дают разные пути")
}

func TestExecute_ChainCap(t *testing.T) {
	c, _ := newController(crowd(world.TeamCrux, 60, 8))
	l := c.Execute(chainMsg(3, world.TeamSharded, 16, 16, 60))

	assert.Len(t, l.Struck, ChainCap, "не больше восьми целей")
	seen := map[int32]bool{}
	for _, id := range l.Struck {
		assert.False(t, seen[id], "цель %d поражена дважды", id)
		seen[id] = true
	}
	assert.Len(t, l.Waypoints, 30)
}

func TestExecute_PicksFurthestTarget(t *testing.T) {
	units := unit.NewIndex(64)
	units.Spawn(world.TeamCrux, 10, 0, 2, 100)
	far := units.Spawn(world.TeamCrux, 14, 0, 2, 100)
	c, em := newController(units)

	l := c.Execute(chainMsg(5, world.TeamSharded, 0, 0, 4))
	require.NotEmpty(t, l.Struck)
	assert.Equal(t, far.ID, l.Struck[0])
	assert.Equal(t, float32(14), em.impacts[1].x, "второй удар в позиции цели")
}

func TestExecute_TieKeepsSearchOrder(t *testing.T) {
	units := unit.NewIndex(64)
	first := units.Spawn(world.TeamCrux, 0, 10, 2, 100)
	units.Spawn(world.TeamCrux, 10, 0, 2, 100)
	c, _ := newController(units)

	l := c.Execute(chainMsg(5, world.TeamSharded, 0, 0, 2))
	assert.Equal(t, []int32{first.ID}, l.Struck)
}

func TestExecute_TeamFilter(t *testing.T) {
	units := unit.NewIndex(64)
	friend := units.Spawn(world.TeamSharded, 5, 0, 2, 100)
	c, _ := newController(units)

	assert.Empty(t, c.Execute(chainMsg(1, world.TeamSharded, 0, 0, 2)).Struck, "свои не цель")
	assert.Equal(t, []int32{friend.ID}, c.Execute(chainMsg(1, world.TeamNone, 0, 0, 2)).Struck, "ничья молния бьёт всех")
}

func TestExecute_OddAndZeroHops(t *testing.T) {
	c, em := newController(unit.NewIndex(16))

	assert.Len(t, c.Execute(chainMsg(1, world.TeamSharded, 0, 0, 7)).Waypoints, 3)
	assert.Empty(t, c.Execute(chainMsg(1, world.TeamSharded, 0, 0, 1)).Waypoints)
	assert.Empty(t, c.Execute(chainMsg(1, world.TeamSharded, 0, 0, -4)).Waypoints)
	assert.Len(t, em.impacts, 3)
}

func TestExecute_ClampsHops(t *testing.T) {
	c, em := newController(unit.NewIndex(16))

	l := c.Execute(chainMsg(2, world.TeamSharded, 0, 0, 1_000_000))
	assert.Len(t, l.Waypoints, int(MaxHops/2))
	assert.Len(t, em.impacts, int(MaxHops/2))

	assert.Empty(t, c.Execute(chainMsg(2, world.TeamSharded, 0, 0, math.MinInt32)).Waypoints)
	assert.Equal(t, l.Waypoints, c.Execute(chainMsg(2, world.TeamSharded, 0, 0, MaxHops)).Waypoints,
		"обрезанная цепь совпадает с цепью максимальной длины")
}

func TestExecute_DamagesThroughDamageSystem(t *testing.T) {
	units := unit.NewIndex(16)
	victim := units.Spawn(world.TeamCrux, 12, 0, 4, 50)
	ds := combat.NewDamageSystem(units)
	c := NewController(session.New(true), &recordingBroadcaster{}, units, ds, nil)

	c.Execute(&protocol.CreateChainEffect{Seed: 9, Team: uint8(world.TeamSharded), Damage: 20, Hops: 4})
	assert.Equal(t, float32(30), victim.Health, "удар в позиции цели")
}

func TestCreate_BroadcastsOnlySeed(t *testing.T) {
	b := &recordingBroadcaster{}
	s := session.New(false)
	c := NewController(s, b, unit.NewIndex(16), &recordingEmitter{}, nil)

	seed1, err := c.Create(context.Background(), world.TeamCrux, 0xff0000ff, 15, 1, 2, 90, 8)
	require.NoError(t, err)
	seed2, err := c.Create(context.Background(), world.TeamCrux, 0xff0000ff, 15, 1, 2, 90, 8)
	require.NoError(t, err)

	assert.Equal(t, int32(0), seed1)
	assert.Equal(t, int32(1), seed2, "сиды растут даже при одинаковых параметрах")
	require.Len(t, b.sent, 2)
	assert.Equal(t, protocol.CreateChainEffect{
		Seed: 0, Team: uint8(world.TeamCrux), Color: 0xff0000ff, Damage: 15, X: 1, Y: 2, Angle: 90, Hops: 8,
	}, b.sent[0])
	assert.Empty(t, c.Active(), "создатель не вычисляет путь до получения сообщения")

	b.err = errors.New("offline")
	_, err = c.Create(context.Background(), world.TeamCrux, 0, 1, 0, 0, 0, 2)
	assert.Error(t, err)
}

func TestUpdate_ReleasesAfterLifetime(t *testing.T) {
	c, _ := newController(unit.NewIndex(16))
	l := c.Execute(chainMsg(4, world.TeamSharded, 0, 0, 8))
	require.Equal(t, []*Lightning{l}, c.Active())

	for i := 0; i < Lifetime-1; i++ {
		c.Update()
	}
	assert.Len(t, c.Active(), 1)
	assert.Equal(t, Lifetime-1, l.Age())

	c.Update()
	assert.Empty(t, c.Active())
}

func TestLightning_Reset(t *testing.T) {
	l := &Lightning{
		Seed: 3, Team: world.TeamCrux, Color: 0x112233ff, Damage: 5,
		Waypoints: []Point{{1, 2}}, Struck: []int32{4}, age: 7,
	}
	l.Reset()

	assert.Empty(t, l.Waypoints)
	assert.Empty(t, l.Struck)
	assert.Equal(t, DefaultColor, l.Color)
	assert.Zero(t, l.Age())
	assert.Equal(t, float32(1), l.Fout())
}

func TestAngles(t *testing.T) {
	assert.Equal(t, float32(1), cosDeg(0))
	assert.Equal(t, float32(1), sinDeg(90))
	assert.InDelta(t, 0.5, float64(sinDeg(30)), 1e-3)
	assert.InDelta(t, -0.5, float64(sinDeg(-30)), 1e-3)
	assert.InDelta(t, float64(trnsx(45, 10)), float64(trnsy(45, 10)), 1e-2)
}
