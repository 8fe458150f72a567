// pkg/entity/vehicle.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-recwars/pkg/physics"
)

// VehicleKind defines the chassis and its handling
type VehicleKind uint8

const (
	Tank VehicleKind = iota
	Hovercraft
	Hummer
)

// VehicleKindCount is the number of vehicle kinds a respawn picks from.
const VehicleKindCount = 3

func (k VehicleKind) String() string {
	switch k {
	case Tank:
		return "tank"
	case Hovercraft:
		return "hovercraft"
	case Hummer:
		return "hummer"
	default:
		return fmt.Sprintf("VehicleKind(%d)", uint8(k))
	}
}

// Vehicle is a player's vehicle. HP is a fraction of the kind's max hit
// points; the vehicle is destroyed once it reaches zero and stays that way
// until its player respawns.
type Vehicle struct {
	Kind        VehicleKind
	Pos         physics.Vector2D
	Vel         physics.Vector2D
	Angle       float64
	TurnRate    float64
	Hitbox      physics.Hitbox
	TurretAngle float64
	CurWeapon   Weapon
	HP          float64
	Ammos       [WeaponCount]Ammo
	Owner       Handle
	Input       Input
}

// NewVehicle creates a vehicle at full health with every slot loaded to
// the given capacity.
func NewVehicle(kind VehicleKind, pos physics.Vector2D, angle float64, hitbox physics.Hitbox, capacity [WeaponCount]uint32, owner Handle) Vehicle {
	v := Vehicle{
		Kind:   kind,
		Pos:    pos,
		Angle:  physics.WrapAngle(angle),
		Hitbox: hitbox,
		HP:     1,
		Owner:  owner,
	}
	for i := range v.Ammos {
		v.Ammos[i] = LoadedAmmo(0, capacity[i])
	}
	return v
}

// Destroyed reports whether the vehicle has been killed.
func (v *Vehicle) Destroyed() bool {
	return v.HP <= 0
}

// CurrentAmmo returns the selected weapon's slot.
func (v *Vehicle) CurrentAmmo() *Ammo {
	return &v.Ammos[v.CurWeapon]
}

// Corners returns the hitbox corners at the vehicle's pose.
func (v *Vehicle) Corners() [4]physics.Vector2D {
	return v.Hitbox.Corners(v.Pos, v.Angle)
}

// TakeDamage lowers HP by fraction and reports whether this call destroyed
// the vehicle. HP is clamped at zero and already destroyed vehicles are
// left alone.
func (v *Vehicle) TakeDamage(fraction float64) bool {
	if v.Destroyed() {
		return false
	}
	v.HP -= fraction
	if v.HP > 0 {
		return false
	}
	v.HP = 0
	return true
}
