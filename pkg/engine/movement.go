// pkg/engine/movement.go
package engine

import (
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// moveVehicles integrates every vehicle. The turn is tried first and
// rejected with a bounce if the rotated hitbox touches a wall; the move is
// then tried the same way, so a vehicle whose turn is blocked can still
// drive.
func (g *Game) moveVehicles() {
	s := g.State
	dt := s.Dt

	for _, v := range s.Vehicles.All() {
		stats := g.Config.MovementStats(v.Kind)

		newAngle := physics.Turning(stats, &v.Vel, v.Angle, &v.TurnRate, v.Input.Steer(), dt)
		if g.cornersHitWall(v.Hitbox.Corners(v.Pos, newAngle)) {
			v.TurnRate *= -0.5
		} else {
			v.Angle = newAngle
		}

		up, down := v.Input.Throttle()
		physics.AccelDecel(stats, &v.Vel, v.Angle, up, down, dt)

		newPos := v.Pos.Add(v.Vel.Scale(dt))
		if g.cornersHitWall(v.Hitbox.Corners(newPos, v.Angle)) {
			v.Vel = v.Vel.Scale(-0.5)
		} else {
			v.Pos = newPos
		}
	}
}

func (g *Game) cornersHitWall(corners [4]physics.Vector2D) bool {
	for _, c := range corners {
		if g.Map.Collision(c) {
			return true
		}
	}
	return false
}

// steerMissiles runs the movement model for homing and guided missiles
// using the shared missile stats. Missiles have no hitbox; walls are
// handled by the projectile pass.
func (g *Game) steerMissiles() {
	s := g.State
	dt := s.Dt
	stats := g.Config.MissileMovementStats()

	for _, p := range s.Projectiles.All() {
		if !p.Steerable() {
			continue
		}
		m := &p.Missile
		m.Angle = physics.Turning(stats, &p.Vel, m.Angle, &m.TurnRate, m.Input.Steer(), dt)
		up, down := m.Input.Throttle()
		physics.AccelDecel(stats, &p.Vel, m.Angle, up, down, dt)
	}
}
