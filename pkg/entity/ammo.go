// pkg/entity/ammo.go
package entity

import "fmt"

// AmmoState tags which Ammo fields are meaningful. The zero value is
// deliberately not a valid state.
type AmmoState uint8

const (
	AmmoLoaded AmmoState = iota + 1
	AmmoReloading
)

func (s AmmoState) String() string {
	switch s {
	case AmmoLoaded:
		return "loaded"
	case AmmoReloading:
		return "reloading"
	default:
		return fmt.Sprintf("AmmoState(%d)", uint8(s))
	}
}

// Ammo is the per-slot reload bookkeeping.
//
// Loaded uses ReadyAt and Remaining: the weapon may fire once now >= ReadyAt.
// Reloading uses StartedAt and EndsAt: the slot refills at EndsAt.
type Ammo struct {
	State     AmmoState
	ReadyAt   float64
	Remaining uint32
	StartedAt float64
	EndsAt    float64
}

// LoadedAmmo returns a Loaded slot.
func LoadedAmmo(readyAt float64, remaining uint32) Ammo {
	return Ammo{State: AmmoLoaded, ReadyAt: readyAt, Remaining: remaining}
}

// ReloadingAmmo returns a Reloading slot.
func ReloadingAmmo(startedAt, endsAt float64) Ammo {
	return Ammo{State: AmmoReloading, StartedAt: startedAt, EndsAt: endsAt}
}

// Valid reports whether exactly one variant holds with consistent fields.
// A Loaded slot with nothing left should already be Reloading.
func (a Ammo) Valid() bool {
	switch a.State {
	case AmmoLoaded:
		return a.Remaining > 0
	case AmmoReloading:
		return a.EndsAt >= a.StartedAt
	default:
		return false
	}
}

// CanFire reports whether a fire attempt at now would succeed.
func (a Ammo) CanFire(now float64) bool {
	return a.State == AmmoLoaded && now >= a.ReadyAt && a.Remaining > 0
}

// Fire consumes one round if the slot can fire. The last round starts the
// reload. Rejected attempts leave the slot untouched and return false.
func (a *Ammo) Fire(now, refire, reloadTime float64) bool {
	if !a.CanFire(now) {
		return false
	}
	a.ReadyAt = now + refire
	a.Remaining--
	if a.Remaining == 0 {
		*a = ReloadingAmmo(now, now+reloadTime)
	}
	return true
}

// Reload finishes a due reload, refilling to capacity. It returns true when
// the slot changed state.
func (a *Ammo) Reload(now float64, capacity uint32) bool {
	if a.State != AmmoReloading || now < a.EndsAt {
		return false
	}
	*a = LoadedAmmo(now, capacity)
	return true
}

// ReloadProgress is the completed fraction of a reload in [0, 1]. Loaded
// slots report 1.
func (a Ammo) ReloadProgress(now float64) float64 {
	if a.State != AmmoReloading {
		return 1
	}
	total := a.EndsAt - a.StartedAt
	if total <= 0 {
		return 1
	}
	p := (now - a.StartedAt) / total
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
