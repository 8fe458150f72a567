// pkg/entity/input.go
package entity

// Input is one tick of player intent for whatever entity receives it.
type Input struct {
	Up           bool `json:"up"`
	Down         bool `json:"down"`
	Left         bool `json:"left"`
	Right        bool `json:"right"`
	TurretLeft   bool `json:"turretLeft"`
	TurretRight  bool `json:"turretRight"`
	Fire         bool `json:"fire"`
	Mine         bool `json:"mine"`
	PrevWeapon   bool `json:"prevWeapon"`
	NextWeapon   bool `json:"nextWeapon"`
	SelfDestruct bool `json:"selfDestruct"`
	Horn         bool `json:"horn"`
	Chat         bool `json:"chat"`
}

// NeutralVehicleInput keeps an uncontrolled vehicle still and silent.
var NeutralVehicleInput = Input{}

// NeutralMissileInput keeps an unguided missile flying straight ahead.
var NeutralMissileInput = Input{Up: true}

// VehicleWhileGuiding is the part of in that still reaches the vehicle while
// its player steers a guided missile: everything except driving.
func (in Input) VehicleWhileGuiding() Input {
	out := in
	out.Up = false
	out.Down = false
	out.Left = false
	out.Right = false
	return out
}

// MissileWhileGuiding is the part of in that steers a guided missile. The
// missile always thrusts and never fires.
func (in Input) MissileWhileGuiding() Input {
	return Input{
		Up:    true,
		Left:  in.Left,
		Right: in.Right,
	}
}

// Steer returns right minus left as -1, 0 or 1.
func (in Input) Steer() float64 {
	return boolFloat(in.Right) - boolFloat(in.Left)
}

// Throttle returns the forward and backward axes as 0 or 1.
func (in Input) Throttle() (up, down float64) {
	return boolFloat(in.Up), boolFloat(in.Down)
}

// Rising reports which buttons went down between prev and in.
func (in Input) Rising(prev Input) Input {
	return Input{
		Up:           in.Up && !prev.Up,
		Down:         in.Down && !prev.Down,
		Left:         in.Left && !prev.Left,
		Right:        in.Right && !prev.Right,
		TurretLeft:   in.TurretLeft && !prev.TurretLeft,
		TurretRight:  in.TurretRight && !prev.TurretRight,
		Fire:         in.Fire && !prev.Fire,
		Mine:         in.Mine && !prev.Mine,
		PrevWeapon:   in.PrevWeapon && !prev.PrevWeapon,
		NextWeapon:   in.NextWeapon && !prev.NextWeapon,
		SelfDestruct: in.SelfDestruct && !prev.SelfDestruct,
		Horn:         in.Horn && !prev.Horn,
		Chat:         in.Chat && !prev.Chat,
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
