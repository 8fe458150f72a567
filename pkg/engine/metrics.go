// pkg/engine/metrics.go
package engine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-recwars/pkg/entity"
)

const instrumentationName = "github.com/opd-ai/go-recwars/pkg/engine"

// globalMeterProvider is what NewGame records to. It is a no-op until the
// program installs one with otel.SetMeterProvider.
func globalMeterProvider() metric.MeterProvider {
	return otel.GetMeterProvider()
}

// metrics holds the engine's instruments.
type metrics struct {
	frames           metric.Int64Counter
	frameDuration    metric.Float64Histogram
	projectilesFired metric.Int64Counter
	impacts          metric.Int64Counter
	spawned          metric.Int64Counter
	destroyed        metric.Int64Counter
	corrections      metric.Int64Counter
	liveEntities     metric.Int64ObservableGauge
	registration     metric.Registration
}

func newMetrics(g *Game, mp metric.MeterProvider) (*metrics, error) {
	m := mp.Meter(instrumentationName)
	met := &metrics{}

	var err error
	met.frames, err = m.Int64Counter(
		"recwars.frames",
		metric.WithDescription("Simulation frames run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	met.frameDuration, err = m.Float64Histogram(
		"recwars.frame.duration",
		metric.WithDescription("Wall time spent computing one frame"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}

	met.projectilesFired, err = m.Int64Counter(
		"recwars.shots.fired",
		metric.WithDescription("Projectiles spawned and beams fired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}

	met.impacts, err = m.Int64Counter(
		"recwars.projectiles.impacts",
		metric.WithDescription("Projectiles removed by impact or timeout"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating impacts counter: %w", err)
	}

	met.spawned, err = m.Int64Counter(
		"recwars.vehicles.spawned",
		metric.WithDescription("Vehicles spawned"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}

	met.destroyed, err = m.Int64Counter(
		"recwars.vehicles.destroyed",
		metric.WithDescription("Vehicles destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	met.corrections, err = m.Int64Counter(
		"recwars.invariants.corrected",
		metric.WithDescription("Broken invariants repaired outside strict mode"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating corrections counter: %w", err)
	}

	met.liveEntities, err = m.Int64ObservableGauge(
		"recwars.entities.live",
		metric.WithDescription("Entities currently in the game"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating live entities gauge: %w", err)
	}

	met.registration, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			g.EntityLock.RLock()
			defer g.EntityLock.RUnlock()
			s := g.State
			o.ObserveInt64(met.liveEntities, int64(s.Players.Len()),
				metric.WithAttributes(attribute.String("kind", "player")))
			o.ObserveInt64(met.liveEntities, int64(s.Vehicles.Len()),
				metric.WithAttributes(attribute.String("kind", "vehicle")))
			o.ObserveInt64(met.liveEntities, int64(s.Projectiles.Len()),
				metric.WithAttributes(attribute.String("kind", "projectile")))
			return nil
		},
		met.liveEntities,
	)
	if err != nil {
		return nil, fmt.Errorf("registering live entities callback: %w", err)
	}

	return met, nil
}

func (m *metrics) close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

func (m *metrics) frameDone(ctx context.Context, took time.Duration) {
	m.frames.Add(ctx, 1)
	m.frameDuration.Record(ctx, took.Seconds())
}

func (m *metrics) projectileFired(ctx context.Context, w entity.Weapon) {
	m.projectilesFired.Add(ctx, 1, metric.WithAttributes(attribute.String("weapon", w.String())))
}

func (m *metrics) projectileImpact(ctx context.Context, w entity.Weapon) {
	m.impacts.Add(ctx, 1, metric.WithAttributes(attribute.String("weapon", w.String())))
}

func (m *metrics) vehicleSpawned(ctx context.Context, kind entity.VehicleKind) {
	m.spawned.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

func (m *metrics) vehicleDestroyed(ctx context.Context, kind entity.VehicleKind) {
	m.destroyed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

func (m *metrics) invariantCorrected(ctx context.Context) {
	m.corrections.Add(ctx, 1)
}
