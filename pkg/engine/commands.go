// pkg/engine/commands.go
package engine

import (
	"context"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
)

// commandBuffer holds structural changes raised while a pass ranges over an
// arena. They run in order once the pass is over; a command may queue more.
type commandBuffer struct {
	ops []func()
}

func (b *commandBuffer) exec(op func()) {
	b.ops = append(b.ops, op)
}

func (b *commandBuffer) len() int {
	return len(b.ops)
}

// flush runs every queued command and returns how many ran.
func (b *commandBuffer) flush() int {
	n := 0
	for n < len(b.ops) {
		op := b.ops[n]
		b.ops[n] = nil
		op()
		n++
	}
	b.ops = b.ops[:0]
	return n
}

// spawnProjectileLater inserts p after the current pass. then, if set, runs
// right after the insert with the new handle.
func (g *Game) spawnProjectileLater(ctx context.Context, p entity.Projectile, then func(entity.Handle)) {
	g.cmds.exec(func() {
		h := g.State.Projectiles.Insert(p)
		g.emit(event.NewShotEvent(event.ProjectileFired, g, p.Weapon, h, p.Owner, p.Pos))
		g.metrics.projectileFired(ctx, p.Weapon)
		if then != nil {
			then(h)
		}
	})
}

// removeProjectileLater deletes a projectile after the current pass.
func (g *Game) removeProjectileLater(h entity.Handle) {
	g.cmds.exec(func() {
		g.State.Projectiles.Remove(h)
	})
}

// linkGuidedMissileLater routes a player's steering to missile after the
// current pass. A previously linked missile is simply forgotten and keeps
// flying on its last input.
func (g *Game) linkGuidedMissileLater(ctx context.Context, player, missile entity.Handle) {
	g.cmds.exec(func() {
		p, ok := g.State.Players.Get(player)
		if !ok || !g.State.Projectiles.Contains(missile) {
			return
		}
		if !p.GuidedMissile.IsNil() {
			g.logger.Debug(ctx, "guided missile superseded",
				"player", p.Name, "old", p.GuidedMissile.String(), "new", missile.String())
		}
		p.GuidedMissile = missile
		g.emit(event.NewControlEvent(g, player, entity.ControllingGuidedMissile, missile))
	})
}

// unlinkGuidedMissileLater gives a player's input back to their vehicle
// after the current pass. With a non-nil only, the link is cleared only if
// it still points at that missile.
func (g *Game) unlinkGuidedMissileLater(ctx context.Context, player, only entity.Handle) {
	g.cmds.exec(func() {
		g.unlinkGuidedMissile(ctx, player, only)
	})
}

func (g *Game) unlinkGuidedMissile(ctx context.Context, player, only entity.Handle) {
	p, ok := g.State.Players.Get(player)
	if !ok || p.GuidedMissile.IsNil() {
		return
	}
	if !only.IsNil() && p.GuidedMissile != only {
		return
	}
	g.logger.Debug(ctx, "guided missile unlinked", "player", p.Name, "missile", p.GuidedMissile.String())
	p.GuidedMissile = entity.Handle{}
	g.emit(event.NewControlEvent(g, player, entity.ControllingVehicle, entity.Handle{}))
}
