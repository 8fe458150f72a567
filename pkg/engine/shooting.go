// pkg/engine/shooting.go
package engine

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/config"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// shoot fires the selected weapon of every live vehicle that wants to and
// whose slot can. A successful fire always consumes ammo, even when the
// shot ends up doing nothing.
func (g *Game) shoot(ctx context.Context) {
	s := g.State
	now := s.GameTime

	for vh, v := range s.Vehicles.All() {
		if v.Destroyed() || !g.wantsToFire(v) {
			continue
		}

		w := v.CurWeapon
		wc := g.Config.Weapon(w)
		if !v.Ammos[w].Fire(now, wc.Refire, wc.ReloadTime) {
			continue
		}

		origin, angle := g.shotOrigin(v)
		g.fire(ctx, vh, v, w, origin, angle)
	}
	g.cmds.flush()
}

// wantsToFire is a fresh press of fire, or fire held with auto-fire on.
func (g *Game) wantsToFire(v *entity.Vehicle) bool {
	if !v.Input.Fire {
		return false
	}
	if g.Config.Rules.AutoFire {
		return true
	}
	return !g.prevInput(v).Fire
}

// shotOrigin resolves the selected weapon's hardpoint to a world position
// and firing angle.
func (g *Game) shotOrigin(v *entity.Vehicle) (physics.Vector2D, float64) {
	hp := g.Config.Hardpoint(v.Kind, v.CurWeapon)
	offset := hp.Offset.Vector()

	if hp.Mount == config.MountChassis {
		return v.Pos.Add(offset.Rotate(v.Angle)), v.Angle
	}

	angle := v.Angle + v.TurretAngle
	turret := g.Config.Vehicle(v.Kind).TurretOffsetChassis.Vector()
	origin := v.Pos.Add(turret.Rotate(v.Angle)).Add(offset.Rotate(angle))
	return origin, angle
}

// fire spawns what weapon w shoots from origin along angle.
func (g *Game) fire(ctx context.Context, vh entity.Handle, v *entity.Vehicle, w entity.Weapon, origin physics.Vector2D, angle float64) {
	s := g.State
	wc := g.Config.Weapon(w)
	inherited := v.Vel.Scale(wc.VehicleVelocityFactor)
	owner := v.Owner

	switch w {
	case entity.MachineGun:
		spread := g.Config.MachineGun.AngleSpread * s.Rng.NormFloat64()
		vel := physics.FromAngle(angle+spread, wc.Speed).Add(inherited)
		g.spawnProjectileLater(ctx, entity.NewProjectile(w, origin, vel, owner), nil)

	case entity.Railgun:
		g.fireRailgun(ctx, vh, owner, origin, angle)

	case entity.ClusterBomb:
		g.fireClusterBomb(ctx, owner, origin, angle, inherited)

	case entity.HomingMissile:
		vel := physics.FromAngle(angle, wc.Speed).Add(inherited)
		g.spawnProjectileLater(ctx, entity.NewMissile(w, origin, vel, owner), nil)

	case entity.GuidedMissile:
		vel := physics.FromAngle(angle, wc.Speed).Add(inherited)
		g.spawnProjectileLater(ctx, entity.NewMissile(w, origin, vel, owner), func(h entity.Handle) {
			g.linkGuidedMissileLater(ctx, owner, h)
		})

	default:
		// rockets and bfg fly straight
		vel := physics.FromAngle(angle, wc.Speed).Add(inherited)
		g.spawnProjectileLater(ctx, entity.NewProjectile(w, origin, vel, owner), nil)
	}
}

// fireRailgun traces a ray to the first wall. The trace is kept for this
// frame. With rules.railgunHitsVehicles every live vehicle of another owner
// close enough to it is hit. A ray that meets no wall does nothing.
func (g *Game) fireRailgun(ctx context.Context, shooter, owner entity.Handle, origin physics.Vector2D, angle float64) {
	s := g.State
	end := origin.Add(physics.FromAngle(angle, g.Config.Railgun.Range))
	g.emit(event.NewShotEvent(event.RailgunFired, g, entity.Railgun, entity.Handle{}, owner, origin))
	g.metrics.projectileFired(ctx, entity.Railgun)

	hit, ok := g.Map.CollisionBetween(origin, end)
	if !ok {
		return
	}
	s.RailBeams = append(s.RailBeams, entity.Beam{Begin: origin, End: hit})
	if !g.Config.Rules.RailgunHitsVehicles {
		return
	}

	r := g.Config.Rules.HitRadius
	damage := g.Config.Weapon(entity.Railgun).Damage
	for vh, v := range s.Vehicles.All() {
		if vh == shooter || v.Owner == owner || v.Destroyed() {
			continue
		}
		if physics.ClosestOnSegment(origin, hit, v.Pos).DistanceSquared(v.Pos) <= r*r {
			g.damage(ctx, vh, v, damage)
		}
	}
}

// fireClusterBomb scatters the configured number of bomblets, each with its
// own velocity spread and fuse.
func (g *Game) fireClusterBomb(ctx context.Context, owner entity.Handle, origin physics.Vector2D, angle float64, inherited physics.Vector2D) {
	s := g.State
	cb := g.Config.ClusterBomb
	speed := g.Config.Weapon(entity.ClusterBomb).Speed

	for range cb.Count {
		var forward, sideways float64
		if cb.SpreadGaussian {
			forward = cb.SpreadForward * s.Rng.NormFloat64()
			sideways = cb.SpreadSideways * s.Rng.NormFloat64()
		} else {
			forward = cb.SpreadForward * uniform(s.Rng.Float64(), -1.5, 1.5)
			sideways = cb.SpreadSideways * uniform(s.Rng.Float64(), -1.5, 1.5)
		}
		vel := physics.Vector2D{X: speed + forward, Y: sideways}.Rotate(angle).Add(inherited)
		fuse := s.GameTime + cb.Time + uniform(s.Rng.Float64(), -1, 1)*cb.TimeSpread

		g.spawnProjectileLater(ctx, entity.NewTimedProjectile(entity.ClusterBomb, origin, vel, owner, fuse), nil)
	}
}

// uniform maps u in [0, 1) onto [lo, hi).
func uniform(u, lo, hi float64) float64 {
	return lo + u*(hi-lo)
}
