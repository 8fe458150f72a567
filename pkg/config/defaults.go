// pkg/config/defaults.go
package config

import "github.com/opd-ai/go-recwars/pkg/physics"

// DefaultCvars returns the stock tunables.
func DefaultCvars() *Cvars {
	return &Cvars{
		Seed: 42,
		Tickrate: TickrateConfig{
			Mode:     TickrateSynchronized,
			FixedFPS: 150,
			MaxDt:    0.1,
		},
		Rules: RulesConfig{
			UseSpawns:                  true,
			AutoFire:                   false,
			StrictInvariants:           false,
			RailgunHitsVehicles:        false,
			HitRadius:                  24,
			TurretTurnSpeed:            2,
			SelfDestructExplosionScale: 6,
			ExplosionDuration:          0.5,
		},
		Vehicles: VehiclesConfig{
			Tank: VehicleConfig{
				HP: 150,
				Movement: physics.MovementStats{
					TurnRateIncrease:       6,
					TurnRateFrictionConst:  1,
					TurnRateFrictionLinear: 0.98,
					TurnRateMax:            2,
					TurnEffectiveness:      1,
					SteeringCar:            0,
					AccelForward:           550,
					AccelBackward:          400,
					FrictionConst:          50,
					FrictionLinear:         0.9,
					SpeedMax:               110,
				},
				Hitbox: HitboxConfig{
					Mins: VectorConfig{X: -19, Y: -12},
					Maxs: VectorConfig{X: 19, Y: 12},
				},
				TurretOffsetChassis: VectorConfig{X: -5, Y: 0},
				Hardpoints:          turretHardpoints(VectorConfig{X: 19, Y: 0}, VectorConfig{X: 35, Y: 0}),
			},
			Hovercraft: VehicleConfig{
				HP: 100,
				Movement: physics.MovementStats{
					TurnRateIncrease:       8,
					TurnRateFrictionConst:  0.5,
					TurnRateFrictionLinear: 0.9,
					TurnRateMax:            2.5,
					TurnEffectiveness:      0,
					SteeringCar:            0,
					AccelForward:           400,
					AccelBackward:          400,
					FrictionConst:          20,
					FrictionLinear:         0.6,
					SpeedMax:               200,
				},
				Hitbox: HitboxConfig{
					Mins: VectorConfig{X: -22, Y: -14},
					Maxs: VectorConfig{X: 22, Y: 14},
				},
				TurretOffsetChassis: VectorConfig{X: -5, Y: 0},
				Hardpoints:          turretHardpoints(VectorConfig{X: 19, Y: 0}, VectorConfig{X: 30, Y: 0}),
			},
			Hummer: VehicleConfig{
				HP: 75,
				Movement: physics.MovementStats{
					TurnRateIncrease:       12,
					TurnRateFrictionConst:  2,
					TurnRateFrictionLinear: 0.99,
					TurnRateMax:            3.5,
					TurnEffectiveness:      1,
					SteeringCar:            200,
					AccelForward:           600,
					AccelBackward:          400,
					FrictionConst:          100,
					FrictionLinear:         0.6,
					SpeedMax:               250,
				},
				Hitbox: HitboxConfig{
					Mins: VectorConfig{X: -20, Y: -9},
					Maxs: VectorConfig{X: 20, Y: 9},
				},
				TurretOffsetChassis: VectorConfig{X: -10, Y: 0},
				Hardpoints:          turretHardpoints(VectorConfig{X: 10, Y: 0}, VectorConfig{X: 25, Y: 0}),
			},
		},
		Weapons: WeaponsConfig{
			MachineGun: WeaponConfig{
				Damage: 2.5, Refire: 0.05, ReloadTime: 1, ReloadAmmo: 50,
				Speed: 1000, VehicleVelocityFactor: 1,
			},
			Railgun: WeaponConfig{
				Damage: 47, Refire: 0, ReloadTime: 1.75, ReloadAmmo: 1,
			},
			ClusterBomb: WeaponConfig{
				Damage: 3, Refire: 0, ReloadTime: 1.5, ReloadAmmo: 1,
				ExplosionScale: 0.2, Speed: 400, VehicleVelocityFactor: 1,
			},
			Rockets: WeaponConfig{
				Damage: 25, Refire: 0.2, ReloadTime: 1.5, ReloadAmmo: 6,
				ExplosionScale: 0.5, Speed: 600, VehicleVelocityFactor: 1,
			},
			HomingMissile: WeaponConfig{
				Damage: 56, Refire: 0, ReloadTime: 1.5, ReloadAmmo: 1,
				ExplosionScale: 1, Speed: 300, VehicleVelocityFactor: 1,
			},
			GuidedMissile: WeaponConfig{
				Damage: 100, Refire: 0, ReloadTime: 1.5, ReloadAmmo: 1,
				ExplosionScale: 1, Speed: 200, VehicleVelocityFactor: 0,
			},
			BFG: WeaponConfig{
				Damage: 100, Refire: 0, ReloadTime: 2.5, ReloadAmmo: 1,
				ExplosionScale: 1, Speed: 150, VehicleVelocityFactor: 0,
			},
		},
		MachineGun: MachineGunConfig{AngleSpread: 0.015},
		ClusterBomb: ClusterBombConfig{
			Count:          40,
			SpreadForward:  20,
			SpreadSideways: 50,
			SpreadGaussian: true,
			Time:           0.8,
			TimeSpread:     0.2,
		},
		Railgun: RailgunConfig{Range: 100000},
		Bfg: BfgConfig{
			BeamRange:        125,
			BeamDamagePerSec: 25,
		},
		Missile: physics.MovementStats{
			TurnRateIncrease:       16,
			TurnRateFrictionConst:  0,
			TurnRateFrictionLinear: 0.99,
			TurnRateMax:            3,
			TurnEffectiveness:      1,
			SteeringCar:            0,
			AccelForward:           2000,
			AccelBackward:          500,
			FrictionConst:          0,
			FrictionLinear:         0.5,
			SpeedMax:               500,
		},
	}
}

// turretHardpoints mounts guns on the turret and missiles on the chassis,
// the layout every stock vehicle shares.
func turretHardpoints(gun, barrel VectorConfig) HardpointsConfig {
	turret := func(off VectorConfig) HardpointConfig {
		return HardpointConfig{Mount: MountTurret, Offset: off}
	}
	chassis := func(off VectorConfig) HardpointConfig {
		return HardpointConfig{Mount: MountChassis, Offset: off}
	}
	return HardpointsConfig{
		MachineGun:    turret(gun),
		Railgun:       turret(barrel),
		ClusterBomb:   turret(barrel),
		Rockets:       turret(barrel),
		HomingMissile: chassis(VectorConfig{X: 0, Y: -10}),
		GuidedMissile: chassis(VectorConfig{X: 0, Y: 10}),
		BFG:           turret(barrel),
	}
}
