// pkg/engine/vehicle_logic.go
package engine

import (
	"context"
	"math"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// updateVehicleLogic handles weapon cycling, turret rotation, reload
// completion and self-destruct. Button presses are edges against the
// owning player's input from the previous frame.
func (g *Game) updateVehicleLogic(ctx context.Context) {
	s := g.State
	now := s.GameTime
	turretStep := g.Config.Rules.TurretTurnSpeed * s.Dt
	capacity := g.Config.AmmoCapacity()

	for vh, v := range s.Vehicles.All() {
		pressed := v.Input.Rising(g.prevInput(v))

		if pressed.PrevWeapon {
			v.CurWeapon = v.CurWeapon.Prev()
		}
		if pressed.NextWeapon {
			v.CurWeapon = v.CurWeapon.Next()
		}

		if v.Input.TurretLeft {
			v.TurretAngle = physics.WrapAngle(v.TurretAngle - turretStep)
		}
		if v.Input.TurretRight {
			v.TurretAngle = physics.WrapAngle(v.TurretAngle + turretStep)
		}

		for _, w := range entity.AllWeapons() {
			if v.Ammos[w].Reload(now, capacity[w]) {
				g.emit(event.NewReloadEvent(g, vh, w))
			}
		}

		if pressed.SelfDestruct && !v.Destroyed() {
			g.selfDestruct(ctx, vh, v)
		}
	}
	g.cmds.flush()
}

// selfDestruct blows the vehicle up: a big cosmetic explosion first, then
// lethal damage through the normal destruction path.
func (g *Game) selfDestruct(ctx context.Context, vh entity.Handle, v *entity.Vehicle) {
	g.spawnExplosion(v.Pos, g.Config.Rules.SelfDestructExplosionScale, false)
	g.logger.Debug(ctx, "vehicle self-destructed", "vehicle", vh.String())
	g.damage(ctx, vh, v, math.MaxFloat64)
}
