// pkg/engine/damage.go
package engine

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// damage subtracts amount hit points from v and reports whether this hit
// destroyed it. Destruction spawns one full-scale explosion at the vehicle
// and takes the owner's guided missile away from them. Already destroyed
// vehicles are not damaged again.
func (g *Game) damage(ctx context.Context, vh entity.Handle, v *entity.Vehicle, amount float64) bool {
	maxHP := g.Config.Vehicle(v.Kind).HP
	if !v.TakeDamage(amount / maxHP) {
		return false
	}

	g.spawnExplosion(v.Pos, 1, false)
	g.unlinkGuidedMissileLater(ctx, v.Owner, entity.Handle{})

	g.logger.Debug(ctx, "vehicle destroyed", "vehicle", vh.String(), "kind", v.Kind.String())
	g.emit(event.NewVehicleEvent(event.VehicleDestroyed, g, vh, v.Owner, v.Kind, v.Pos))
	g.metrics.vehicleDestroyed(ctx, v.Kind)
	return true
}

// impact ends a projectile at pos: an explosion if its weapon has one,
// control back to the owner's vehicle for a guided missile, and removal.
func (g *Game) impact(ctx context.Context, ph entity.Handle, p *entity.Projectile, pos physics.Vector2D) {
	if scale, ok := g.Config.ExplosionScale(p.Weapon); ok {
		g.spawnExplosion(pos, scale, p.Weapon == entity.BFG)
	}
	if p.Weapon == entity.GuidedMissile {
		g.unlinkGuidedMissileLater(ctx, p.Owner, ph)
	}
	g.removeProjectileLater(ph)

	g.emit(event.NewShotEvent(event.ProjectileImpact, g, p.Weapon, ph, p.Owner, pos))
	g.metrics.projectileImpact(ctx, p.Weapon)
}

func (g *Game) spawnExplosion(pos physics.Vector2D, scale float64, bfg bool) {
	g.State.Explosions = append(g.State.Explosions, entity.Explosion{
		Pos:       pos,
		Scale:     scale,
		StartTime: g.State.GameTime,
		Bfg:       bfg,
	})
}

// cleanupExplosions drops explosions whose animation has finished.
func (g *Game) cleanupExplosions() {
	s := g.State
	duration := g.Config.Rules.ExplosionDuration
	kept := s.Explosions[:0]
	for _, e := range s.Explosions {
		if e.Progress(s.GameTime, duration) <= 1 {
			kept = append(kept, e)
		}
	}
	clear(s.Explosions[len(kept):])
	s.Explosions = kept
}
