// pkg/entity/player.go
package entity

// Control names the entity a player's input is routed to.
type Control uint8

const (
	ControllingVehicle Control = iota
	ControllingGuidedMissile
)

func (c Control) String() string {
	if c == ControllingGuidedMissile {
		return "guided_missile"
	}
	return "vehicle"
}

// Player owns at most one vehicle and guides at most one missile. Both
// links are weak handles and may go stale.
type Player struct {
	Name          string
	Vehicle       Handle
	GuidedMissile Handle
	Input         Input
}

// NewPlayer creates a player with no vehicle yet.
func NewPlayer(name string) Player {
	return Player{Name: name}
}

// Control reports where the player's input currently goes.
func (p *Player) Control() Control {
	if p.GuidedMissile.IsNil() {
		return ControllingVehicle
	}
	return ControllingGuidedMissile
}
