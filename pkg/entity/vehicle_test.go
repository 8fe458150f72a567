// pkg/entity/vehicle_test.go
package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-recwars/pkg/physics"
)

func testCapacity() [WeaponCount]uint32 {
	return [WeaponCount]uint32{50, 1, 1, 6, 1, 1, 1}
}

func TestNewVehicle(t *testing.T) {
	owner := Handle{Index: 3, Generation: 1}
	v := NewVehicle(Hummer, physics.Vector2D{X: 5, Y: 6}, -math.Pi/2, physics.Hitbox{}, testCapacity(), owner)

	if v.HP != 1 || v.Destroyed() {
		t.Errorf("new vehicle HP = %v, destroyed = %v", v.HP, v.Destroyed())
	}
	if v.Owner != owner {
		t.Errorf("Owner = %v, want %v", v.Owner, owner)
	}
	if v.Angle < 0 || v.Angle >= physics.FullTurn {
		t.Errorf("Angle = %v, not wrapped", v.Angle)
	}
	for i, a := range v.Ammos {
		if a.State != AmmoLoaded || a.Remaining != testCapacity()[i] || a.ReadyAt != 0 {
			t.Errorf("slot %v = %+v, want loaded with %d", Weapon(i), a, testCapacity()[i])
		}
	}
	if v.CurrentAmmo() != &v.Ammos[MachineGun] {
		t.Error("CurrentAmmo should point at the selected slot")
	}
}

func TestVehicle_TakeDamage(t *testing.T) {
	tests := []struct {
		name      string
		hp        float64
		fraction  float64
		wantHP    float64
		destroyed bool
	}{
		{"survives", 1, 0.25, 0.75, false},
		{"overkill_clamps_to_zero", 0.1, 0.15, 0, true},
		{"exactly_zero_destroys", 0.5, 0.5, 0, true},
		{"already_destroyed_ignored", 0, 0.3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vehicle{HP: tt.hp}
			if got := v.TakeDamage(tt.fraction); got != tt.destroyed {
				t.Errorf("TakeDamage() = %v, want %v", got, tt.destroyed)
			}
			if v.HP != tt.wantHP {
				t.Errorf("HP = %v, want %v", v.HP, tt.wantHP)
			}
		})
	}
}

func TestInput_Projections(t *testing.T) {
	in := Input{
		Up: true, Down: true, Left: true, Right: false,
		TurretLeft: true, Fire: true, NextWeapon: true, SelfDestruct: true,
	}

	veh := in.VehicleWhileGuiding()
	if veh.Up || veh.Down || veh.Left || veh.Right {
		t.Errorf("vehicle projection still drives: %+v", veh)
	}
	if !veh.TurretLeft || !veh.Fire || !veh.NextWeapon || !veh.SelfDestruct {
		t.Errorf("vehicle projection lost turret/weapon controls: %+v", veh)
	}

	missile := in.MissileWhileGuiding()
	want := Input{Up: true, Left: true}
	if missile != want {
		t.Errorf("missile projection = %+v, want %+v", missile, want)
	}
}

func TestInput_AxesAndRising(t *testing.T) {
	in := Input{Right: true, Down: true, Fire: true}
	if got := in.Steer(); got != 1 {
		t.Errorf("Steer() = %v, want 1", got)
	}
	up, down := in.Throttle()
	if up != 0 || down != 1 {
		t.Errorf("Throttle() = %v, %v, want 0, 1", up, down)
	}
	if got := (Input{Left: true, Right: true}).Steer(); got != 0 {
		t.Errorf("both directions Steer() = %v, want 0", got)
	}

	rising := in.Rising(Input{Fire: true})
	if rising.Fire {
		t.Error("held fire reported as rising")
	}
	if !rising.Right || !rising.Down {
		t.Errorf("Rising() = %+v, want right and down", rising)
	}
}

func TestPlayer_Control(t *testing.T) {
	p := NewPlayer("p1")
	if p.Control() != ControllingVehicle {
		t.Errorf("Control() = %v, want vehicle", p.Control())
	}
	p.GuidedMissile = Handle{Index: 0, Generation: 1}
	if p.Control() != ControllingGuidedMissile {
		t.Errorf("Control() = %v, want guided_missile", p.Control())
	}
}

func TestProjectile_Variants(t *testing.T) {
	owner := Handle{Index: 1, Generation: 1}
	cb := NewTimedProjectile(ClusterBomb, physics.Vector2D{}, physics.Vector2D{X: 1}, owner, 12)
	if cb.Expired(11.9) || !cb.Expired(12) {
		t.Error("cluster bomb deadline not honoured")
	}

	rocket := NewProjectile(Rockets, physics.Vector2D{}, physics.Vector2D{X: 1}, owner)
	if rocket.Expired(1e9) {
		t.Error("untimed projectile expired")
	}

	gm := NewMissile(GuidedMissile, physics.Vector2D{}, physics.Vector2D{Y: -3}, owner)
	if !gm.Steerable() {
		t.Error("guided missile should be steerable")
	}
	if math.Abs(gm.Missile.Angle-3*math.Pi/2) > 1e-9 {
		t.Errorf("missile angle = %v, want 3π/2", gm.Missile.Angle)
	}
	if gm.Missile.Input != NeutralMissileInput {
		t.Errorf("missile input = %+v, want neutral", gm.Missile.Input)
	}
}

func TestExplosion_Progress(t *testing.T) {
	e := Explosion{StartTime: 2}
	if got := e.Progress(2.25, 0.5); got != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}
	if got := e.Progress(3, 0); got != 1 {
		t.Errorf("Progress() with zero duration = %v, want 1", got)
	}
}
