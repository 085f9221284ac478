package effect

import (
	"context"
	"sync"

	"github.com/annel0/blockforge/internal/combat"
	"github.com/annel0/blockforge/internal/logging"
	"github.com/annel0/blockforge/internal/metrics"
	"github.com/annel0/blockforge/internal/protocol"
	"github.com/annel0/blockforge/internal/rng"
	"github.com/annel0/blockforge/internal/session"
	"github.com/annel0/blockforge/internal/unit"
	"github.com/annel0/blockforge/internal/vec"
	"github.com/annel0/blockforge/internal/world"
)

// UnitQuery перечисляет враждебные единицы в прямоугольнике в детерминированном порядке
type UnitQuery interface {
	NearbyEnemies(team world.Team, rect vec.Rect, visit func(u *unit.Unit))
}

// Controller создаёт и воспроизводит цепные молнии.
// Create можно вызывать из любого потока; Execute и Update — только из потока симуляции.
type Controller struct {
	session     *session.Session
	broadcaster protocol.Broadcaster
	units       UnitQuery
	impacts     combat.Emitter
	logger      *logging.Logger

	random     *rng.Rand
	pool       sync.Pool
	active     []*Lightning
	candidates []*unit.Unit
}

// NewController создаёт контроллер
func NewController(s *session.Session, b protocol.Broadcaster, units UnitQuery, impacts combat.Emitter, logger *logging.Logger) *Controller {
	return &Controller{
		session:     s,
		broadcaster: b,
		units:       units,
		impacts:     impacts,
		logger:      logger,
		random:      rng.New(0),
		pool: sync.Pool{New: func() any {
			return &Lightning{Color: DefaultColor}
		}},
	}
}

// Create выделяет следующий сид сессии и один раз рассылает эффект всем участникам.
// Сам путь не вычисляется: его воспроизводит Execute у каждого получателя.
func (c *Controller) Create(ctx context.Context, team world.Team, color uint32, damage, x, y, angle float32, hops int32) (int32, error) {
	seed, err := c.session.NextSeed()
	if err != nil {
		c.logger.Warn("цепной эффект не создан: %v", err)
		return 0, err
	}
	msg := &protocol.CreateChainEffect{
		Seed:   seed,
		Team:   uint8(team),
		Color:  color,
		Damage: damage,
		X:      x,
		Y:      y,
		Angle:  angle,
		Hops:   hops,
	}
	if err := c.broadcaster.BroadcastChainEffect(ctx, msg); err != nil {
		c.logger.Warn("цепной эффект %d не разослан: %v", msg.Seed, err)
		return msg.Seed, err
	}
	return msg.Seed, nil
}

// Execute воспроизводит цепь по сообщению и регистрирует экземпляр как активный.
// Цепь проходит ровно Hops/2 прыжков в пределах одного вызова; Hops ограничивается [0, MaxHops].
func (c *Controller) Execute(msg *protocol.CreateChainEffect) *Lightning {
	l := c.pool.Get().(*Lightning)
	l.Reset()
	l.Seed = msg.Seed
	l.Team = world.Team(msg.Team)
	l.Color = msg.Color
	l.Damage = msg.Damage
	l.X, l.Y = msg.X, msg.Y

	c.random.SetSeed(int64(msg.Seed))

	hops := min(max(msg.Hops, 0), MaxHops)
	if hops != msg.Hops {
		c.logger.Debug("цепь %d: hops=%d ограничено до %d", msg.Seed, msg.Hops, hops)
	}

	x, y, rotation := msg.X, msg.Y, msg.Angle
	for i := int32(0); i < hops/2; i++ {
		c.impacts.CreateImpact(combat.LightningDamage, msg.Seed, l.Team, x, y, 0, msg.Damage)

		jx := c.random.Range(Jitter)
		jy := c.random.Range(Jitter)
		l.Waypoints = append(l.Waypoints, Point{X: x + jx, Y: y + jy})

		c.candidates = c.candidates[:0]
		if len(l.Struck) < ChainCap {
			c.units.NearbyEnemies(l.Team, vec.Centered(x, y, HitRange), func(u *unit.Unit) {
				if !l.struck(u.ID) {
					c.candidates = append(c.candidates, u)
				}
			})
		}

		if target := findFurthest(x, y, c.candidates); target != nil {
			l.Struck = append(l.Struck, target.ID)
			x, y = target.X, target.Y
			metrics.ChainHops.WithLabelValues("target").Inc()
			continue
		}

		rotation = float32(rotation + c.random.Range(HeadingJitter))
		x = float32(x + trnsx(rotation, HitRange/2))
		y = float32(y + trnsy(rotation, HitRange/2))
		metrics.ChainHops.WithLabelValues("wander").Inc()
	}
	c.candidates = c.candidates[:0]

	c.active = append(c.active, l)
	metrics.ChainEffects.Inc()
	c.logger.Trace("цепь %d: %d точек, %d целей", l.Seed, len(l.Waypoints), len(l.Struck))
	return l
}

// findFurthest возвращает кандидата, наиболее удалённого от (x, y).
// При равенстве побеждает встреченный раньше.
func findFurthest(x, y float32, candidates []*unit.Unit) *unit.Unit {
	var result *unit.Unit
	var best float32
	for _, u := range candidates {
		dx := float32(u.X - x)
		dy := float32(u.Y - y)
		dst := float32(dx*dx) + float32(dy*dy)
		if result == nil || dst > best {
			result, best = u, dst
		}
	}
	return result
}

// Update старит активные экземпляры и возвращает отжившие в пул
func (c *Controller) Update() {
	kept := c.active[:0]
	for _, l := range c.active {
		l.age++
		if l.age >= Lifetime {
			l.Reset()
			c.pool.Put(l)
			continue
		}
		kept = append(kept, l)
	}
	clear(c.active[len(kept):])
	c.active = kept
	metrics.ActiveEffects.Set(float64(len(c.active)))
}

// Active возвращает видимые экземпляры. Срез действителен до следующего Update.
func (c *Controller) Active() []*Lightning {
	return c.active
}
