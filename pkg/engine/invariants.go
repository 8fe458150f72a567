// pkg/engine/invariants.go
package engine

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-recwars/pkg/entity"
)

// checkInvariants looks for state no system should ever produce. Each
// finding goes through violation, which panics in strict mode and repairs
// the state otherwise.
func (g *Game) checkInvariants(ctx context.Context) {
	s := g.State

	for _, p := range s.Players.All() {
		if !p.Vehicle.IsNil() && !s.Vehicles.Contains(p.Vehicle) {
			err := fmt.Errorf("player %q has dangling vehicle %s", p.Name, p.Vehicle)
			g.violation(ctx, err, func() { p.Vehicle = entity.Handle{} })
		}
		if p.GuidedMissile.IsNil() {
			continue
		}
		if m, ok := s.Projectiles.Get(p.GuidedMissile); !ok || m.Weapon != entity.GuidedMissile {
			err := fmt.Errorf("player %q has dangling guided missile %s", p.Name, p.GuidedMissile)
			g.violation(ctx, err, func() { p.GuidedMissile = entity.Handle{} })
		}
	}

	capacity := g.Config.AmmoCapacity()
	for vh, v := range s.Vehicles.All() {
		if v.HP < 0 || v.HP > 1 {
			err := fmt.Errorf("vehicle %s has hp fraction %v", vh, v.HP)
			g.violation(ctx, err, func() { v.HP = min(max(v.HP, 0), 1) })
		}
		for w := range v.Ammos {
			if v.Ammos[w].Valid() {
				continue
			}
			err := fmt.Errorf("vehicle %s has invalid %s ammo %+v", vh, entity.Weapon(w), v.Ammos[w])
			g.violation(ctx, err, func() { v.Ammos[w] = entity.LoadedAmmo(s.GameTime, capacity[w]) })
		}
	}
}
