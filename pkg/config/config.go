// pkg/config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// ErrInvalidCvars is returned when loaded tunables cannot drive a game.
var ErrInvalidCvars = errors.New("invalid cvars")

// TickrateMode selects how wall-clock time is turned into simulation steps.
type TickrateMode string

const (
	// TickrateSynchronized runs one step per update with the real delta.
	TickrateSynchronized TickrateMode = "synchronized"
	// TickrateBounded is synchronized but caps each delta at MaxDt.
	TickrateBounded TickrateMode = "bounded"
	// TickrateFixed runs fixed 1/FixedFPS steps until the budget is spent.
	TickrateFixed TickrateMode = "fixed"
)

// Mount says what a hardpoint is attached to.
type Mount string

const (
	MountChassis Mount = "chassis"
	MountTurret  Mount = "turret"
)

// Cvars holds every gameplay tunable. It is read-only once a game starts.
type Cvars struct {
	Seed        uint64            `json:"seed" mapstructure:"seed"`
	Tickrate    TickrateConfig    `json:"tickrate" mapstructure:"tickrate"`
	Rules       RulesConfig       `json:"rules" mapstructure:"rules"`
	Vehicles    VehiclesConfig    `json:"vehicles" mapstructure:"vehicles"`
	Weapons     WeaponsConfig     `json:"weapons" mapstructure:"weapons"`
	MachineGun  MachineGunConfig  `json:"machineGun" mapstructure:"machineGun"`
	ClusterBomb ClusterBombConfig `json:"clusterBomb" mapstructure:"clusterBomb"`
	Railgun     RailgunConfig     `json:"railgun" mapstructure:"railgun"`
	Bfg         BfgConfig         `json:"bfg" mapstructure:"bfg"`
	// Missile drives both homing and guided missiles.
	Missile physics.MovementStats `json:"missile" mapstructure:"missile"`
}

// TickrateConfig contains frame timing settings
type TickrateConfig struct {
	Mode     TickrateMode `json:"mode" mapstructure:"mode"`
	FixedFPS float64      `json:"fixedFps" mapstructure:"fixedFps"`
	MaxDt    float64      `json:"maxDt" mapstructure:"maxDt"`
}

// RulesConfig contains game rules configuration
type RulesConfig struct {
	UseSpawns bool `json:"useSpawns" mapstructure:"useSpawns"`
	// AutoFire keeps firing while the button is held. When false only a
	// fresh press fires.
	AutoFire                   bool    `json:"autoFire" mapstructure:"autoFire"`
	StrictInvariants           bool    `json:"strictInvariants" mapstructure:"strictInvariants"`
	// RailgunHitsVehicles lets the railgun trace damage vehicles along it.
	// When false the railgun only draws its trace.
	RailgunHitsVehicles        bool    `json:"railgunHitsVehicles" mapstructure:"railgunHitsVehicles"`
	HitRadius                  float64 `json:"hitRadius" mapstructure:"hitRadius"`
	TurretTurnSpeed            float64 `json:"turretTurnSpeed" mapstructure:"turretTurnSpeed"`
	SelfDestructExplosionScale float64 `json:"selfDestructExplosionScale" mapstructure:"selfDestructExplosionScale"`
	ExplosionDuration          float64 `json:"explosionDuration" mapstructure:"explosionDuration"`
}

// VehiclesConfig has one entry per vehicle kind.
type VehiclesConfig struct {
	Tank       VehicleConfig `json:"tank" mapstructure:"tank"`
	Hovercraft VehicleConfig `json:"hovercraft" mapstructure:"hovercraft"`
	Hummer     VehicleConfig `json:"hummer" mapstructure:"hummer"`
}

// VehicleConfig contains the handling and geometry of one vehicle kind.
type VehicleConfig struct {
	HP                  float64               `json:"hp" mapstructure:"hp"`
	Movement            physics.MovementStats `json:"movement" mapstructure:"movement"`
	Hitbox              HitboxConfig          `json:"hitbox" mapstructure:"hitbox"`
	TurretOffsetChassis VectorConfig          `json:"turretOffsetChassis" mapstructure:"turretOffsetChassis"`
	Hardpoints          HardpointsConfig      `json:"hardpoints" mapstructure:"hardpoints"`
}

// VectorConfig is a config-friendly 2D vector.
type VectorConfig struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Vector converts to the physics type.
func (v VectorConfig) Vector() physics.Vector2D {
	return physics.Vector2D{X: v.X, Y: v.Y}
}

// HitboxConfig is a hitbox in the vehicle's local frame.
type HitboxConfig struct {
	Mins VectorConfig `json:"mins" mapstructure:"mins"`
	Maxs VectorConfig `json:"maxs" mapstructure:"maxs"`
}

// Hitbox converts to the physics type.
func (h HitboxConfig) Hitbox() physics.Hitbox {
	return physics.Hitbox{Mins: h.Mins.Vector(), Maxs: h.Maxs.Vector()}
}

// HardpointConfig places a weapon on a vehicle.
type HardpointConfig struct {
	Mount  Mount        `json:"mount" mapstructure:"mount"`
	Offset VectorConfig `json:"offset" mapstructure:"offset"`
}

// HardpointsConfig has one hardpoint per weapon slot.
type HardpointsConfig struct {
	MachineGun    HardpointConfig `json:"machineGun" mapstructure:"machineGun"`
	Railgun       HardpointConfig `json:"railgun" mapstructure:"railgun"`
	ClusterBomb   HardpointConfig `json:"clusterBomb" mapstructure:"clusterBomb"`
	Rockets       HardpointConfig `json:"rockets" mapstructure:"rockets"`
	HomingMissile HardpointConfig `json:"homingMissile" mapstructure:"homingMissile"`
	GuidedMissile HardpointConfig `json:"guidedMissile" mapstructure:"guidedMissile"`
	BFG           HardpointConfig `json:"bfg" mapstructure:"bfg"`
}

// WeaponsConfig has one entry per weapon slot.
type WeaponsConfig struct {
	MachineGun    WeaponConfig `json:"machineGun" mapstructure:"machineGun"`
	Railgun       WeaponConfig `json:"railgun" mapstructure:"railgun"`
	ClusterBomb   WeaponConfig `json:"clusterBomb" mapstructure:"clusterBomb"`
	Rockets       WeaponConfig `json:"rockets" mapstructure:"rockets"`
	HomingMissile WeaponConfig `json:"homingMissile" mapstructure:"homingMissile"`
	GuidedMissile WeaponConfig `json:"guidedMissile" mapstructure:"guidedMissile"`
	BFG           WeaponConfig `json:"bfg" mapstructure:"bfg"`
}

// WeaponConfig contains the tunables shared by every weapon.
type WeaponConfig struct {
	Damage     float64 `json:"damage" mapstructure:"damage"`
	Refire     float64 `json:"refire" mapstructure:"refire"`
	ReloadTime float64 `json:"reloadTime" mapstructure:"reloadTime"`
	ReloadAmmo uint32  `json:"reloadAmmo" mapstructure:"reloadAmmo"`
	// ExplosionScale of zero means impacts leave no explosion.
	ExplosionScale        float64 `json:"explosionScale" mapstructure:"explosionScale"`
	Speed                 float64 `json:"speed" mapstructure:"speed"`
	VehicleVelocityFactor float64 `json:"vehicleVelocityFactor" mapstructure:"vehicleVelocityFactor"`
}

// MachineGunConfig contains machine gun specific settings
type MachineGunConfig struct {
	AngleSpread float64 `json:"angleSpread" mapstructure:"angleSpread"`
}

// ClusterBombConfig contains cluster bomb scatter settings
type ClusterBombConfig struct {
	Count          int     `json:"count" mapstructure:"count"`
	SpreadForward  float64 `json:"spreadForward" mapstructure:"spreadForward"`
	SpreadSideways float64 `json:"spreadSideways" mapstructure:"spreadSideways"`
	// SpreadGaussian picks normal scatter; otherwise uniform in [-1.5, 1.5].
	SpreadGaussian bool    `json:"spreadGaussian" mapstructure:"spreadGaussian"`
	Time           float64 `json:"time" mapstructure:"time"`
	TimeSpread     float64 `json:"timeSpread" mapstructure:"timeSpread"`
}

// RailgunConfig contains railgun settings
type RailgunConfig struct {
	Range float64 `json:"range" mapstructure:"range"`
}

// BfgConfig contains BFG beam settings
type BfgConfig struct {
	BeamRange        float64 `json:"beamRange" mapstructure:"beamRange"`
	BeamDamagePerSec float64 `json:"beamDamagePerSec" mapstructure:"beamDamagePerSec"`
}

// Vehicle returns the settings for kind.
func (c *Cvars) Vehicle(kind entity.VehicleKind) *VehicleConfig {
	switch kind {
	case entity.Hovercraft:
		return &c.Vehicles.Hovercraft
	case entity.Hummer:
		return &c.Vehicles.Hummer
	default:
		return &c.Vehicles.Tank
	}
}

// Weapon returns the settings for w.
func (c *Cvars) Weapon(w entity.Weapon) *WeaponConfig {
	switch w {
	case entity.Railgun:
		return &c.Weapons.Railgun
	case entity.ClusterBomb:
		return &c.Weapons.ClusterBomb
	case entity.Rockets:
		return &c.Weapons.Rockets
	case entity.HomingMissile:
		return &c.Weapons.HomingMissile
	case entity.GuidedMissile:
		return &c.Weapons.GuidedMissile
	case entity.BFG:
		return &c.Weapons.BFG
	default:
		return &c.Weapons.MachineGun
	}
}

// Hardpoint returns where w is mounted on vehicles of kind.
func (c *Cvars) Hardpoint(kind entity.VehicleKind, w entity.Weapon) HardpointConfig {
	hp := &c.Vehicle(kind).Hardpoints
	switch w {
	case entity.Railgun:
		return hp.Railgun
	case entity.ClusterBomb:
		return hp.ClusterBomb
	case entity.Rockets:
		return hp.Rockets
	case entity.HomingMissile:
		return hp.HomingMissile
	case entity.GuidedMissile:
		return hp.GuidedMissile
	case entity.BFG:
		return hp.BFG
	default:
		return hp.MachineGun
	}
}

// MovementStats returns the handling of vehicles of kind.
func (c *Cvars) MovementStats(kind entity.VehicleKind) physics.MovementStats {
	return c.Vehicle(kind).Movement
}

// MissileMovementStats returns the handling shared by steerable missiles.
func (c *Cvars) MissileMovementStats() physics.MovementStats {
	return c.Missile
}

// AmmoCapacity returns the magazine size of every slot.
func (c *Cvars) AmmoCapacity() [entity.WeaponCount]uint32 {
	var out [entity.WeaponCount]uint32
	for _, w := range entity.AllWeapons() {
		out[w] = c.Weapon(w).ReloadAmmo
	}
	return out
}

// ExplosionScale reports the impact explosion of w, if it has one.
func (c *Cvars) ExplosionScale(w entity.Weapon) (float64, bool) {
	s := c.Weapon(w).ExplosionScale
	return s, s > 0
}

// FixedDt is the step length in fixed tickrate mode.
func (c *Cvars) FixedDt() float64 {
	return 1 / c.Tickrate.FixedFPS
}

// Validate checks the values the simulation divides by or relies on.
func (c *Cvars) Validate() error {
	switch c.Tickrate.Mode {
	case TickrateSynchronized, TickrateBounded, TickrateFixed:
	default:
		return fmt.Errorf("%w: unknown tickrate mode %q", ErrInvalidCvars, c.Tickrate.Mode)
	}
	if c.Tickrate.Mode == TickrateFixed && c.Tickrate.FixedFPS <= 0 {
		return fmt.Errorf("%w: fixedFps must be positive", ErrInvalidCvars)
	}
	if c.Tickrate.Mode == TickrateBounded && c.Tickrate.MaxDt <= 0 {
		return fmt.Errorf("%w: maxDt must be positive", ErrInvalidCvars)
	}
	for kind := entity.VehicleKind(0); kind < entity.VehicleKindCount; kind++ {
		if c.Vehicle(kind).HP <= 0 {
			return fmt.Errorf("%w: %v hp must be positive", ErrInvalidCvars, kind)
		}
		for _, w := range entity.AllWeapons() {
			switch m := c.Hardpoint(kind, w).Mount; m {
			case MountChassis, MountTurret:
			default:
				return fmt.Errorf("%w: %v %v hardpoint has mount %q", ErrInvalidCvars, kind, w, m)
			}
		}
	}
	for _, w := range entity.AllWeapons() {
		if c.Weapon(w).ReloadAmmo == 0 {
			return fmt.Errorf("%w: %v reloadAmmo must be at least 1", ErrInvalidCvars, w)
		}
	}
	if c.ClusterBomb.Count < 0 {
		return fmt.Errorf("%w: clusterBomb count must not be negative", ErrInvalidCvars)
	}
	if c.Rules.HitRadius < 0 {
		return fmt.Errorf("%w: hitRadius must not be negative", ErrInvalidCvars)
	}
	if c.Rules.ExplosionDuration <= 0 {
		return fmt.Errorf("%w: explosionDuration must be positive", ErrInvalidCvars)
	}
	return nil
}
