// pkg/engine/respawn.go
package engine

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// respawn gives a new vehicle to every player holding fire while their
// vehicle is destroyed, or while they have none.
func (g *Game) respawn(ctx context.Context) {
	s := g.State
	for ph, p := range s.Players.All() {
		if !p.Input.Fire {
			continue
		}

		v, ok := s.Vehicles.Get(p.Vehicle)
		switch {
		case !ok:
			g.cmds.exec(func() { g.spawnVehicle(ctx, ph) })
		case v.Destroyed():
			old := p.Vehicle
			g.cmds.exec(func() {
				s.Vehicles.Remove(old)
				g.spawnVehicle(ctx, ph)
			})
		}
	}
	g.cmds.flush()
}

// spawnVehicle creates a vehicle of a random kind for player and links it
// in the same step, so the player never points at a missing vehicle.
func (g *Game) spawnVehicle(ctx context.Context, player entity.Handle) entity.Handle {
	s := g.State
	p, ok := s.Players.Get(player)
	if !ok {
		return entity.Handle{}
	}

	kind := entity.VehicleKind(s.Rng.IntN(entity.VehicleKindCount))
	pos, angle := g.spawnPoint()

	v := entity.NewVehicle(kind, pos, angle, g.Config.Vehicle(kind).Hitbox.Hitbox(), g.Config.AmmoCapacity(), player)
	for i := range v.Ammos {
		v.Ammos[i].ReadyAt = s.GameTime
	}
	vh := s.Vehicles.Insert(v)
	p.Vehicle = vh

	g.logger.Debug(ctx, "vehicle spawned",
		"player", p.Name, "vehicle", vh.String(), "kind", kind.String(), "x", pos.X, "y", pos.Y)
	g.emit(event.NewVehicleEvent(event.VehicleSpawned, g, vh, player, kind, pos))
	g.metrics.vehicleSpawned(ctx, kind)

	return vh
}

// spawnPoint picks a designated spawn, or a random open tile with a random
// facing when designated spawns are disabled.
func (g *Game) spawnPoint() (physics.Vector2D, float64) {
	rng := g.State.Rng
	if g.Config.Rules.UseSpawns {
		return g.Map.RandomSpawn(rng)
	}
	pos, _ := g.Map.RandomNonwall(rng)
	return pos, rng.Float64() * physics.FullTurn
}
