// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/engine"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/logging"
)

// Draw feeds one snapshot to r: vehicles, then projectiles, then
// explosions and beams, between Clear and Present. explosionDuration turns
// explosion start times into animation progress.
func Draw(s *engine.GameState, r entity.Renderer, explosionDuration float64) {
	r.Clear()

	for h, v := range s.Vehicles.All() {
		r.RenderVehicle(h, v)
	}
	for h, p := range s.Projectiles.All() {
		r.RenderProjectile(h, p)
	}
	for i := range s.Explosions {
		e := &s.Explosions[i]
		r.RenderExplosion(e, e.Progress(s.GameTime, explosionDuration))
	}
	for _, b := range s.RailBeams {
		r.RenderBeam(entity.RailBeam, b)
	}
	for _, b := range s.BfgBeams {
		r.RenderBeam(entity.BfgBeam, b)
	}

	r.Present()
}

// NullRenderer is a simple implementation of entity.Renderer that only
// logs what it is asked to draw.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderVehicle implements entity.Renderer.
func (d *NullRenderer) RenderVehicle(h entity.Handle, v *entity.Vehicle) {
	ctx := context.Background()
	if v == nil {
		d.logger.Debug(ctx, "RenderVehicle called with nil vehicle")
		return
	}
	d.logger.Debug(ctx, "RenderVehicle called",
		"vehicle", h.String(),
		"kind", v.Kind.String(),
		"x", v.Pos.X,
		"y", v.Pos.Y,
		"hp", v.HP,
	)
}

// RenderProjectile implements entity.Renderer.
func (d *NullRenderer) RenderProjectile(h entity.Handle, p *entity.Projectile) {
	ctx := context.Background()
	if p == nil {
		d.logger.Debug(ctx, "RenderProjectile called with nil projectile")
		return
	}
	d.logger.Debug(ctx, "RenderProjectile called",
		"projectile", h.String(),
		"weapon", p.Weapon.String(),
	)
}

// RenderExplosion implements entity.Renderer.
func (d *NullRenderer) RenderExplosion(e *entity.Explosion, progress float64) {
	ctx := context.Background()
	if e == nil {
		d.logger.Debug(ctx, "RenderExplosion called with nil explosion")
		return
	}
	d.logger.Debug(ctx, "RenderExplosion called",
		"scale", e.Scale,
		"progress", progress,
		"bfg", e.Bfg,
	)
}

// RenderBeam implements entity.Renderer.
func (d *NullRenderer) RenderBeam(kind entity.BeamKind, b entity.Beam) {
	d.logger.Debug(context.Background(), "RenderBeam called",
		"kind", kind.String(),
		"length", b.End.Distance(b.Begin),
	)
}
