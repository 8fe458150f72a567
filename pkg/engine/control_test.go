package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

func TestControl_GuidedMissileTakesSteering(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)
	v.CurWeapon = entity.GuidedMissile

	var controls []*event.ControlEvent
	g.Subscribe(event.ControlChanged, func(e event.Event) {
		controls = append(controls, e.(*event.ControlEvent))
	})

	step(g, Inputs{ph: {Fire: true}})

	p := player(t, g, ph)
	require.Equal(t, entity.ControllingGuidedMissile, p.Control())
	missile, ok := g.State.Projectiles.Get(p.GuidedMissile)
	require.True(t, ok)
	assert.Equal(t, entity.GuidedMissile, missile.Weapon)
	require.Len(t, controls, 1)
	assert.Equal(t, p.GuidedMissile, controls[0].Missile)

	step(g, Inputs{ph: {Up: true, Left: true, TurretRight: true}})

	assert.Equal(t, entity.Input{TurretRight: true}, v.Input)
	assert.Equal(t, entity.Input{Up: true, Left: true}, missile.Missile.Input)
	assert.Zero(t, v.Vel.Length())
	assert.Less(t, missile.Missile.TurnRate, 0.0)
}

func TestControl_NewGuidedMissileSupersedesOld(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)
	v.CurWeapon = entity.GuidedMissile

	step(g, Inputs{ph: {Fire: true}})
	first := player(t, g, ph).GuidedMissile
	require.False(t, first.IsNil())

	step(g, Inputs{ph: {Left: true}})
	v.Ammos[entity.GuidedMissile] = entity.LoadedAmmo(0, 3)
	step(g, Inputs{ph: {Fire: true, Right: true}})

	second := player(t, g, ph).GuidedMissile
	require.False(t, second.IsNil())
	assert.NotEqual(t, first, second)

	step(g, Inputs{ph: {Left: true}})

	old, ok := g.State.Projectiles.Get(first)
	require.True(t, ok, "superseded missile should keep flying")
	assert.Equal(t, entity.Input{Up: true, Right: true}, old.Missile.Input)
	cur, ok := g.State.Projectiles.Get(second)
	require.True(t, ok)
	assert.Equal(t, entity.Input{Up: true, Left: true}, cur.Missile.Input)
}

func TestControl_GuidedMissileImpactReturnsControl(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	_, eh := addPilot(g, "bob", entity.Tank, physics.Vector2D{X: 300, Y: 266}, 0)
	vehicle(t, g, vh).CurWeapon = entity.GuidedMissile

	step(g, Inputs{ph: {Fire: true}})
	require.Equal(t, entity.ControllingGuidedMissile, player(t, g, ph).Control())

	for range 60 {
		if g.State.Projectiles.Len() == 0 {
			break
		}
		step(g, nil)
	}

	assert.Zero(t, g.State.Projectiles.Len())
	assert.Equal(t, entity.ControllingVehicle, player(t, g, ph).Control())
	assert.InDelta(t, 1-100.0/150, vehicle(t, g, eh).HP, 1e-12)
	require.Len(t, g.State.Explosions, 1)
	assert.Equal(t, 1.0, g.State.Explosions[0].Scale)
}

func TestControl_StaleImpactKeepsNewLink(t *testing.T) {
	g := newRoomGame(t)
	ctx := context.Background()
	ph, _ := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	pos := physics.Vector2D{X: 400, Y: 256}
	old := g.State.Projectiles.Insert(entity.NewMissile(entity.GuidedMissile, pos, physics.Vector2D{X: 200}, ph))
	cur := g.State.Projectiles.Insert(entity.NewMissile(entity.GuidedMissile, pos, physics.Vector2D{X: 200}, ph))
	player(t, g, ph).GuidedMissile = cur

	p, _ := g.State.Projectiles.Get(old)
	g.impact(ctx, old, p, pos)
	g.cmds.flush()

	assert.False(t, g.State.Projectiles.Contains(old))
	assert.Equal(t, cur, player(t, g, ph).GuidedMissile)
}

func TestControl_DestructionReturnsControl(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)
	v.CurWeapon = entity.GuidedMissile

	step(g, Inputs{ph: {Fire: true}})
	missile := player(t, g, ph).GuidedMissile
	require.False(t, missile.IsNil())

	step(g, Inputs{ph: {SelfDestruct: true}})

	assert.True(t, v.Destroyed())
	assert.Equal(t, entity.ControllingVehicle, player(t, g, ph).Control())
	assert.True(t, g.State.Projectiles.Contains(missile), "orphaned missile keeps flying")
	require.Len(t, g.State.Explosions, 2)
	assert.Equal(t, g.Config.Rules.SelfDestructExplosionScale, g.State.Explosions[0].Scale)
	assert.Equal(t, 1.0, g.State.Explosions[1].Scale)
}

func TestControl_InputForUnknownPlayerIgnored(t *testing.T) {
	g := newRoomGame(t)
	_, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)

	step(g, Inputs{{Index: 42, Generation: 1}: {Up: true}})

	assert.Equal(t, entity.NeutralVehicleInput, vehicle(t, g, vh).Input)
}

func TestRespawn_FireAfterDestruction(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)

	var spawned []*event.VehicleEvent
	g.Subscribe(event.VehicleSpawned, func(e event.Event) {
		spawned = append(spawned, e.(*event.VehicleEvent))
	})

	step(g, Inputs{ph: {SelfDestruct: true}})
	require.True(t, vehicle(t, g, vh).Destroyed())

	// Without fire the wreck stays.
	step(g, nil)
	assert.Equal(t, vh, player(t, g, ph).Vehicle)

	step(g, Inputs{ph: {Fire: true}})

	p := player(t, g, ph)
	assert.NotEqual(t, vh, p.Vehicle)
	assert.False(t, g.State.Vehicles.Contains(vh))
	assert.Equal(t, 1, g.State.Vehicles.Len())
	nv := vehicle(t, g, p.Vehicle)
	assert.Equal(t, 1.0, nv.HP)
	assert.Equal(t, ph, nv.Owner)
	capacity := g.Config.AmmoCapacity()
	for w, a := range nv.Ammos {
		assert.Equal(t, entity.AmmoLoaded, a.State)
		assert.Equal(t, capacity[w], a.Remaining)
	}
	require.Len(t, spawned, 1)
	assert.Equal(t, p.Vehicle, spawned[0].Vehicle)
	// The fresh vehicle does not fire on the frame it appears.
	assert.Zero(t, g.State.Projectiles.Len())
}

func TestRespawn_HeldButtonsAreNotNewPresses(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)

	var shots int
	g.Subscribe(event.ProjectileFired, func(event.Event) { shots++ })

	step(g, Inputs{ph: {SelfDestruct: true}})
	held := entity.Input{Fire: true, NextWeapon: true}
	step(g, Inputs{ph: held})
	nh := player(t, g, ph).Vehicle
	require.NotEqual(t, vh, nh)

	step(g, Inputs{ph: held})
	step(g, Inputs{ph: held})
	nv := vehicle(t, g, nh)
	assert.Zero(t, shots)
	assert.Equal(t, entity.MachineGun, nv.CurWeapon)

	step(g, nil)
	step(g, Inputs{ph: {Fire: true}})
	assert.Equal(t, 1, shots)
	step(g, Inputs{ph: {NextWeapon: true}})
	assert.Equal(t, entity.Railgun, nv.CurWeapon)
}

func TestRespawn_PlayerWithoutVehicle(t *testing.T) {
	g := newRoomGame(t)
	ph := g.State.Players.Insert(entity.NewPlayer("alice"))

	step(g, nil)
	assert.True(t, player(t, g, ph).Vehicle.IsNil())

	step(g, Inputs{ph: {Fire: true}})
	v, ok := g.State.PlayerVehicle(ph)
	require.True(t, ok)
	assert.False(t, v.Destroyed())
}

func TestRespawn_RandomFacingWithoutSpawns(t *testing.T) {
	g := newRoomGame(t)
	g.Config.Rules.UseSpawns = false

	ph := g.AddPlayer(context.Background(), "alice")
	v, ok := g.State.PlayerVehicle(ph)
	require.True(t, ok)

	assert.False(t, g.Map.Collision(v.Pos))
	assert.GreaterOrEqual(t, v.Angle, 0.0)
	assert.Less(t, v.Angle, 2*math.Pi)
}

func TestVehicleLogic_WeaponCyclingIsEdgeTriggered(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)

	for range 3 {
		step(g, Inputs{ph: {NextWeapon: true}})
	}
	assert.Equal(t, entity.Railgun, v.CurWeapon)

	step(g, Inputs{ph: {PrevWeapon: true}})
	step(g, nil)
	step(g, Inputs{ph: {PrevWeapon: true}})
	assert.Equal(t, entity.BFG, v.CurWeapon)
}

func TestVehicleLogic_TurretRotation(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)

	step(g, Inputs{ph: {TurretRight: true}})
	assert.InDelta(t, 2*frameDt, v.TurretAngle, 1e-12)

	step(g, Inputs{ph: {TurretLeft: true}})
	step(g, Inputs{ph: {TurretLeft: true}})
	assert.InDelta(t, 2*math.Pi-2*frameDt, v.TurretAngle, 1e-9)
}

func TestVehicleLogic_ReloadCompletes(t *testing.T) {
	g := newRoomGame(t)
	ctx := context.Background()
	_, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)
	v := vehicle(t, g, vh)
	v.Ammos[entity.Railgun] = entity.ReloadingAmmo(0, 0.5)
	v.Ammos[entity.Rockets] = entity.ReloadingAmmo(0, 0.5)

	var reloads int
	g.Subscribe(event.WeaponReloaded, func(event.Event) { reloads++ })

	g.Update(ctx, 0.4, nil)
	assert.Equal(t, entity.AmmoReloading, v.Ammos[entity.Railgun].State)
	assert.Zero(t, reloads)

	g.Update(ctx, 0.6, nil)
	rail, rockets := v.Ammos[entity.Railgun], v.Ammos[entity.Rockets]
	assert.Equal(t, entity.AmmoLoaded, rail.State)
	assert.Equal(t, uint32(1), rail.Remaining)
	assert.InDelta(t, 0.6, rail.ReadyAt, 1e-12)
	assert.Equal(t, entity.AmmoLoaded, rockets.State)
	assert.Equal(t, uint32(6), rockets.Remaining)
	assert.Equal(t, 2, reloads)
}

func TestVehicleLogic_SelfDestructOnce(t *testing.T) {
	g := newRoomGame(t)
	ph, vh := addPilot(g, "alice", entity.Tank, physics.Vector2D{X: 200, Y: 256}, 0)

	var destroyed int
	g.Subscribe(event.VehicleDestroyed, func(event.Event) { destroyed++ })

	for range 3 {
		step(g, Inputs{ph: {SelfDestruct: true}})
	}

	assert.True(t, vehicle(t, g, vh).Destroyed())
	assert.Equal(t, 1, destroyed)
	assert.Len(t, g.State.Explosions, 2)
}

func TestMovement_BlockedMoveBounces(t *testing.T) {
	g := newRoomGame(t)
	// the front corners sit half a unit from the east wall at x = 704
	pos := physics.Vector2D{X: 704 - 19 - 0.5, Y: 256}
	_, vh := addPilot(g, "alice", entity.Tank, pos, 0)
	v := vehicle(t, g, vh)
	v.Vel = physics.Vector2D{X: 100}

	step(g, nil)

	assert.Equal(t, pos, v.Pos)
	assert.Less(t, v.Vel.X, 0.0)
	assert.Equal(t, 0.0, v.Angle)
}

func TestMovement_BlockedTurnBounces(t *testing.T) {
	g := newRoomGame(t)
	// the top corners sit a fifth of a unit below the north wall at y = 64
	pos := physics.Vector2D{X: 300, Y: 64 + 12 + 0.2}
	ph, vh := addPilot(g, "alice", entity.Tank, pos, 0)
	v := vehicle(t, g, vh)
	v.TurnRate = 2

	step(g, Inputs{ph: {Right: true}})

	assert.Equal(t, 0.0, v.Angle)
	assert.Less(t, v.TurnRate, 0.0)
	assert.Equal(t, pos, v.Pos)
}

func TestMovement_DrivesForward(t *testing.T) {
	g := newRoomGame(t)
	pos := physics.Vector2D{X: 200, Y: 256}
	ph, vh := addPilot(g, "alice", entity.Tank, pos, 0)
	v := vehicle(t, g, vh)

	for range 30 {
		step(g, Inputs{ph: {Up: true}})
	}

	assert.Greater(t, v.Pos.X, pos.X)
	assert.InDelta(t, pos.Y, v.Pos.Y, 1e-9)
	assert.LessOrEqual(t, v.Vel.Length(), g.Config.Vehicles.Tank.Movement.SpeedMax+1e-9)
}

func TestMovement_HomingMissileFliesStraight(t *testing.T) {
	g := newRoomGame(t)
	h := g.State.Projectiles.Insert(entity.NewMissile(
		entity.HomingMissile, physics.Vector2D{X: 100, Y: 256}, physics.Vector2D{X: 300}, entity.Handle{}))

	step(g, nil)

	p, ok := g.State.Projectiles.Get(h)
	require.True(t, ok)
	assert.Greater(t, p.Vel.X, 300.0)
	assert.Equal(t, 0.0, p.Vel.Y)
	assert.Equal(t, entity.NeutralMissileInput, p.Missile.Input)
}
