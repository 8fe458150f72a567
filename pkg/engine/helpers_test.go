package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-recwars/pkg/config"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
	"github.com/opd-ai/go-recwars/pkg/tilemap"
)

const frameDt = 1.0 / 60

// openRoom is 12x8 tiles of 64 units with a wall border: the open floor
// spans x in [64, 704) and y in [64, 448).
var openRoom = []string{
	"############",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"############",
}

// railCorridor has a 50 unit tile size; its single open row spans y in
// [50, 100) and its east wall starts at x = 750.
var railCorridor = []string{
	"################",
	"#..............#",
	"################",
}

func newTestGame(t *testing.T, rows []string, tileSize float64, mutate func(c *config.Cvars)) *Game {
	t.Helper()
	cvars := config.DefaultCvars()
	if mutate != nil {
		mutate(cvars)
	}
	g, err := NewGame(cvars, tilemap.MustFromRows(rows, tileSize), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func newRoomGame(t *testing.T) *Game {
	return newTestGame(t, openRoom, 64, nil)
}

// addPilot places a player with a vehicle of a known kind and pose,
// bypassing the random spawn.
func addPilot(g *Game, name string, kind entity.VehicleKind, pos physics.Vector2D, angle float64) (entity.Handle, entity.Handle) {
	s := g.State
	ph := s.Players.Insert(entity.NewPlayer(name))
	v := entity.NewVehicle(kind, pos, angle, g.Config.Vehicle(kind).Hitbox.Hitbox(), g.Config.AmmoCapacity(), ph)
	vh := s.Vehicles.Insert(v)
	p, _ := s.Players.Get(ph)
	p.Vehicle = vh
	return ph, vh
}

func vehicle(t *testing.T, g *Game, h entity.Handle) *entity.Vehicle {
	t.Helper()
	v, ok := g.State.Vehicles.Get(h)
	require.True(t, ok, "vehicle %s not found", h)
	return v
}

func player(t *testing.T, g *Game, h entity.Handle) *entity.Player {
	t.Helper()
	p, ok := g.State.Players.Get(h)
	require.True(t, ok, "player %s not found", h)
	return p
}

func projectiles(g *Game) []*entity.Projectile {
	var out []*entity.Projectile
	for _, p := range g.State.Projectiles.All() {
		out = append(out, p)
	}
	return out
}

func step(g *Game, inputs Inputs) {
	g.Step(context.Background(), frameDt, inputs)
}
