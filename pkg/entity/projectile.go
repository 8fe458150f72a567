// pkg/entity/projectile.go
package entity

import "github.com/opd-ai/go-recwars/pkg/physics"

// MissileState is the kinematic state steerable projectiles add on top of
// position and velocity. Input is whatever the missile last received; an
// unlinked missile keeps it frozen.
type MissileState struct {
	Angle    float64
	TurnRate float64
	Input    Input
}

// Projectile is a moving shot. Weapon tags the variant: only timed weapons
// use ExpiresAt and only steerable weapons use Missile.
type Projectile struct {
	Weapon    Weapon
	Pos       physics.Vector2D
	Vel       physics.Vector2D
	Owner     Handle
	ExpiresAt float64
	Timed     bool
	Missile   MissileState
}

// NewProjectile creates an untimed, unsteered projectile.
func NewProjectile(w Weapon, pos, vel physics.Vector2D, owner Handle) Projectile {
	return Projectile{Weapon: w, Pos: pos, Vel: vel, Owner: owner}
}

// NewTimedProjectile creates a projectile that detonates at expiresAt.
func NewTimedProjectile(w Weapon, pos, vel physics.Vector2D, owner Handle, expiresAt float64) Projectile {
	p := NewProjectile(w, pos, vel, owner)
	p.ExpiresAt = expiresAt
	p.Timed = true
	return p
}

// NewMissile creates a steerable projectile facing along its velocity.
func NewMissile(w Weapon, pos, vel physics.Vector2D, owner Handle) Projectile {
	p := NewProjectile(w, pos, vel, owner)
	p.Missile = MissileState{
		Angle: physics.WrapAngle(vel.Angle()),
		Input: NeutralMissileInput,
	}
	return p
}

// Expired reports whether a timed projectile's deadline has passed.
func (p *Projectile) Expired(now float64) bool {
	return p.Timed && now >= p.ExpiresAt
}

// Steerable reports whether the projectile runs the movement model.
func (p *Projectile) Steerable() bool {
	return p.Weapon.Steerable()
}
