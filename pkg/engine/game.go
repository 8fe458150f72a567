// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-recwars/pkg/config"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/logging"
)

var (
	// ErrPlayerNotFound is returned for handles that name no player.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrTimeWentBackwards reports an Update earlier than the game clock.
	ErrTimeWentBackwards = errors.New("time went backwards")
	// ErrNoMap is returned by NewGame without a map.
	ErrNoMap = errors.New("no map")
)

// Inputs maps each player to this frame's input. Players without an entry
// get the neutral input.
type Inputs map[entity.Handle]entity.Input

// Game owns the simulation. Update is the only writer; everything it
// touches is guarded by EntityLock.
type Game struct {
	Config     *config.Cvars
	Map        Map
	State      *GameState
	Prev       *GameState // previous frame, for input edges
	EventBus   *event.Bus
	EntityLock sync.RWMutex

	logger  *logging.Logger
	metrics *metrics
	cmds    commandBuffer
	events  event.Queue
}

// NewGame creates a game with no players. A nil logger discards output.
// Metrics go to the global OTel meter provider.
func NewGame(cvars *config.Cvars, m Map, logger *logging.Logger) (*Game, error) {
	return NewGameWithMeterProvider(cvars, m, logger, globalMeterProvider())
}

// NewGameWithMeterProvider is NewGame recording its metrics to mp.
func NewGameWithMeterProvider(cvars *config.Cvars, m Map, logger *logging.Logger, mp metric.MeterProvider) (*Game, error) {
	if cvars == nil {
		return nil, fmt.Errorf("%w: nil cvars", config.ErrInvalidCvars)
	}
	if err := cvars.Validate(); err != nil {
		return nil, logging.WrapError(err, "creating game")
	}
	if m == nil {
		return nil, ErrNoMap
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if mp == nil {
		mp = globalMeterProvider()
	}

	game := &Game{
		Config:   cvars,
		Map:      m,
		State:    NewGameState(cvars.Seed),
		EventBus: event.NewEventBus(),
		logger:   logger,
	}

	met, err := newMetrics(game, mp)
	if err != nil {
		return nil, logging.WrapError(err, "creating game metrics")
	}
	game.metrics = met
	game.Prev = game.State.Clone()

	return game, nil
}

// AddPlayer registers a player and spawns their first vehicle.
func (g *Game) AddPlayer(ctx context.Context, name string) entity.Handle {
	var h entity.Handle
	pending := g.withLock(func() {
		h = g.State.Players.Insert(entity.NewPlayer(name))
		g.logger.Info(ctx, "player joined", "player", name, "handle", h.String())
		g.emit(event.NewPlayerEvent(event.PlayerJoined, g, h, name))
		g.spawnVehicle(ctx, h)
	})
	pending.Flush(g.EventBus)
	return h
}

// RemovePlayer deletes a player and their vehicle. A missile they were
// guiding is not removed; it flies on as an orphan.
func (g *Game) RemovePlayer(ctx context.Context, player entity.Handle) error {
	var err error
	pending := g.withLock(func() {
		p, ok := g.State.Players.Remove(player)
		if !ok {
			err = fmt.Errorf("%w: %s", ErrPlayerNotFound, player)
			return
		}
		g.State.Vehicles.Remove(p.Vehicle)
		g.logger.Info(ctx, "player left", "player", p.Name, "handle", player.String())
		g.emit(event.NewPlayerEvent(event.PlayerLeft, g, player, p.Name))
	})
	pending.Flush(g.EventBus)
	return err
}

// Update advances the simulation to now, measured in seconds on the same
// clock as every previous call, and returns how many frames it ran.
// Events raised by those frames are published before it returns.
func (g *Game) Update(ctx context.Context, now float64, inputs Inputs) int {
	var frames int
	pending := g.withLock(func() {
		frames = g.advance(ctx, now, inputs)
	})
	pending.Flush(g.EventBus)
	return frames
}

func (g *Game) advance(ctx context.Context, now float64, inputs Inputs) int {
	now = g.checkClock(ctx, now)

	switch g.Config.Tickrate.Mode {
	case config.TickrateFixed:
		step := g.Config.FixedDt()
		frames := 0
		for g.State.GameTime+step <= now {
			g.runFrame(ctx, step, inputs)
			frames++
		}
		return frames
	case config.TickrateBounded:
		g.runFrame(ctx, min(now-g.State.GameTime, g.Config.Tickrate.MaxDt), inputs)
		return 1
	default:
		g.runFrame(ctx, now-g.State.GameTime, inputs)
		return 1
	}
}

// Step runs exactly one frame of dt seconds, whatever the tickrate mode.
func (g *Game) Step(ctx context.Context, dt float64, inputs Inputs) {
	pending := g.withLock(func() {
		if dt < 0 {
			g.violation(ctx, fmt.Errorf("%w: negative step %v", ErrTimeWentBackwards, dt), func() { dt = 0 })
		}
		g.runFrame(ctx, dt, inputs)
	})
	pending.Flush(g.EventBus)
}

// withLock runs fn holding EntityLock and hands back the events it raised,
// to be published once the lock is released so handlers may read the game.
func (g *Game) withLock(fn func()) event.Queue {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	fn()
	pending := g.events
	g.events = event.Queue{}
	return pending
}

// emit queues e stamped with the current clock.
func (g *Game) emit(e event.Event) {
	e.Stamp(g.State.FrameNum, g.State.GameTime)
	g.events.Push(e)
}

// checkClock rejects a clock that runs backwards.
func (g *Game) checkClock(ctx context.Context, now float64) float64 {
	if now < g.State.GameTime {
		err := fmt.Errorf("%w: %v < %v", ErrTimeWentBackwards, now, g.State.GameTime)
		g.violation(ctx, err, func() { now = g.State.GameTime })
	}
	return now
}

// runFrame runs every system once in their fixed order.
func (g *Game) runFrame(ctx context.Context, dt float64, inputs Inputs) {
	start := time.Now()

	g.Prev = g.State.Clone()

	s := g.State
	s.FrameNum++
	s.GameTimePrev = s.GameTime
	s.GameTime += dt
	s.Dt = dt
	ctx = logging.WithFrame(ctx, s.FrameNum)

	g.checkInvariants(ctx)

	s.RailBeams = s.RailBeams[:0]
	s.BfgBeams = s.BfgBeams[:0]

	g.assignInputs(ctx, inputs)
	g.respawn(ctx)
	g.moveVehicles()
	g.updateVehicleLogic(ctx)
	g.shoot(ctx)
	g.steerMissiles()
	g.moveProjectiles(ctx)
	g.timeoutProjectiles(ctx)
	g.cleanupExplosions()

	if n := g.cmds.len(); n > 0 {
		g.logger.Warn(ctx, "commands left after frame", "count", n)
		g.cmds.flush()
	}
	g.metrics.frameDone(ctx, time.Since(start))
}

// violation handles a broken invariant: panic in strict mode, otherwise
// apply fix and log.
func (g *Game) violation(ctx context.Context, err error, fix func()) {
	if g.Config.Rules.StrictInvariants {
		panic(err)
	}
	fix()
	g.logger.Warn(ctx, "invariant violation corrected", "error", err.Error())
	g.metrics.invariantCorrected(ctx)
}

// Snapshot returns a deep copy of the current state for readers.
func (g *Game) Snapshot() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return g.State.Clone()
}

// Close releases the game's metric callbacks.
func (g *Game) Close() error {
	return g.metrics.close()
}

// Subscribe registers an event handler. Events are published once the
// call that raised them has released the game lock.
func (g *Game) Subscribe(t event.Type, h event.Handler) *event.Subscription {
	return g.EventBus.Subscribe(t, h)
}
