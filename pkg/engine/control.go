// pkg/engine/control.go
package engine

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/entity"
)

// assignInputs routes each player's input to the vehicle or the guided
// missile it controls. Vehicles nobody drives this frame get the neutral
// input; missiles nobody guides keep whatever they last received.
func (g *Game) assignInputs(ctx context.Context, inputs Inputs) {
	s := g.State

	for h := range inputs {
		if !s.Players.Contains(h) {
			g.logger.Debug(ctx, "input for unknown player ignored", "handle", h.String())
		}
	}

	for _, v := range s.Vehicles.All() {
		v.Input = entity.NeutralVehicleInput
	}

	for h, p := range s.Players.All() {
		p.Input = inputs[h]
		g.routeInput(p)
	}
}

// routeInput demultiplexes a player's input to at most one vehicle and one
// missile. A destroyed vehicle's pilot neither drives nor guides.
func (g *Game) routeInput(p *entity.Player) {
	s := g.State

	v, ok := s.Vehicles.Get(p.Vehicle)
	if !ok || v.Destroyed() {
		return
	}

	missile, guiding := s.Projectiles.Get(p.GuidedMissile)
	if !guiding {
		v.Input = p.Input
		return
	}
	v.Input = p.Input.VehicleWhileGuiding()
	missile.Missile.Input = p.Input.MissileWhileGuiding()
}

// prevInput returns what the vehicle's owner pressed last frame. Edges are
// taken against the player, so a button held across a respawn or the end of
// a guided missile is not a new press.
func (g *Game) prevInput(v *entity.Vehicle) entity.Input {
	if g.Prev == nil {
		return entity.Input{}
	}
	if p, ok := g.Prev.Players.Get(v.Owner); ok {
		return p.Input
	}
	return entity.Input{}
}
