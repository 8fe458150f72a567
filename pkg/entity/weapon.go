// pkg/entity/weapon.go
package entity

import "fmt"

// Weapon identifies a weapon slot. Every vehicle carries all of them.
type Weapon uint8

const (
	MachineGun Weapon = iota
	Railgun
	ClusterBomb
	Rockets
	HomingMissile
	GuidedMissile
	BFG
)

// WeaponCount is the number of weapon slots on a vehicle.
const WeaponCount = 7

var weaponNames = [WeaponCount]string{
	"machineGun",
	"railgun",
	"clusterBomb",
	"rockets",
	"homingMissile",
	"guidedMissile",
	"bfg",
}

// AllWeapons lists every weapon in slot order.
func AllWeapons() [WeaponCount]Weapon {
	var out [WeaponCount]Weapon
	for i := range out {
		out[i] = Weapon(i)
	}
	return out
}

func (w Weapon) String() string {
	if w.Valid() {
		return weaponNames[w]
	}
	return fmt.Sprintf("Weapon(%d)", uint8(w))
}

// Valid reports whether w names a real slot.
func (w Weapon) Valid() bool {
	return w < WeaponCount
}

// Next returns the following slot, wrapping around.
func (w Weapon) Next() Weapon {
	return (w + 1) % WeaponCount
}

// Prev returns the preceding slot, wrapping around.
func (w Weapon) Prev() Weapon {
	return (w + WeaponCount - 1) % WeaponCount
}

// IsBeam reports whether the weapon resolves instantly instead of
// spawning a projectile.
func (w Weapon) IsBeam() bool {
	return w == Railgun
}

// Steerable reports whether projectiles of this weapon run the
// movement model.
func (w Weapon) Steerable() bool {
	return w == HomingMissile || w == GuidedMissile
}

// ParseWeapon converts a weapon name as printed by String.
func ParseWeapon(name string) (Weapon, error) {
	for i, n := range weaponNames {
		if n == name {
			return Weapon(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weapon %q", name)
}
