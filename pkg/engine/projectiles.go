// pkg/engine/projectiles.go
package engine

import (
	"context"
	"math"
	"slices"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// quadCapacity is the number of vehicles a quadtree node holds before it
// splits.
const quadCapacity = 8

// moveProjectiles advances every projectile and resolves what it runs into.
//
// Cluster bombs only move. Everything else stops at the first wall on its
// path, or else hits the first live vehicle of another owner within the hit
// radius. A BFG ball that hits nothing also burns every such vehicle within
// beam range and in line of sight. Damage lands immediately, so a vehicle
// destroyed earlier in the pass is skipped by later checks.
func (g *Game) moveProjectiles(ctx context.Context) {
	s := g.State
	dt := s.Dt
	hitRadius := g.Config.Rules.HitRadius
	beamRange := g.Config.Bfg.BeamRange
	index := g.vehicleIndex()

	for ph, p := range s.Projectiles.All() {
		newPos := p.Pos.Add(p.Vel.Scale(dt))

		if p.Weapon == entity.ClusterBomb {
			p.Pos = newPos
			continue
		}

		if hit, ok := g.Map.CollisionBetween(p.Pos, newPos); ok {
			g.impact(ctx, ph, p, hit)
			continue
		}
		p.Pos = newPos

		reach := hitRadius
		if p.Weapon == entity.BFG {
			reach = max(reach, beamRange)
		}

		for _, vh := range index.near(p.Pos, reach) {
			v, ok := s.Vehicles.Get(vh)
			if !ok || v.Destroyed() || v.Owner == p.Owner {
				continue
			}

			dist2 := p.Pos.DistanceSquared(v.Pos)
			if dist2 <= hitRadius*hitRadius {
				g.damage(ctx, vh, v, g.Config.Weapon(p.Weapon).Damage)
				g.impact(ctx, ph, p, p.Pos)
				break
			}
			if p.Weapon == entity.BFG && dist2 <= beamRange*beamRange {
				g.bfgBeam(ctx, p, vh, v)
			}
		}
	}
	g.cmds.flush()
}

// bfgBeam burns v for this frame if no wall stands between it and the ball.
func (g *Game) bfgBeam(ctx context.Context, p *entity.Projectile, vh entity.Handle, v *entity.Vehicle) {
	if _, blocked := g.Map.CollisionBetween(p.Pos, v.Pos); blocked {
		return
	}
	s := g.State
	s.BfgBeams = append(s.BfgBeams, entity.Beam{Begin: p.Pos, End: v.Pos})
	g.damage(ctx, vh, v, g.Config.Bfg.BeamDamagePerSec*s.Dt)
}

// timeoutProjectiles force-impacts every timed projectile whose deadline has
// passed, wherever it is.
func (g *Game) timeoutProjectiles(ctx context.Context) {
	s := g.State
	for ph, p := range s.Projectiles.All() {
		if p.Expired(s.GameTime) {
			g.impact(ctx, ph, p, p.Pos)
		}
	}
	g.cmds.flush()
}

// vehicleIndex is a broadphase over the vehicles that were alive when the
// projectile pass started.
type vehicleIndex struct {
	tree *physics.QuadTree[entity.Handle]
}

func (g *Game) vehicleIndex() vehicleIndex {
	s := g.State

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, v := range s.Vehicles.All() {
		if v.Destroyed() {
			continue
		}
		minX, maxX = min(minX, v.Pos.X), max(maxX, v.Pos.X)
		minY, maxY = min(minY, v.Pos.Y), max(maxY, v.Pos.Y)
		n++
	}
	if n == 0 {
		return vehicleIndex{}
	}

	// Pad so the max edge is inside the half-open boundary.
	size := max(maxX-minX, maxY-minY) + 2
	boundary := physics.Rect{
		Center: physics.Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  size,
		Height: size,
	}
	tree := physics.NewQuadTree[entity.Handle](boundary, quadCapacity)
	for vh, v := range s.Vehicles.All() {
		if !v.Destroyed() {
			tree.Insert(v.Pos, vh)
		}
	}
	return vehicleIndex{tree: tree}
}

// near returns the vehicles within a square of half-size radius around p,
// in arena order so results match a linear scan.
func (idx vehicleIndex) near(p physics.Vector2D, radius float64) []entity.Handle {
	if idx.tree == nil {
		return nil
	}
	found := idx.tree.Query(physics.RectAround(p, radius+1))
	slices.SortFunc(found, func(a, b entity.Handle) int {
		return int(a.Index) - int(b.Index)
	})
	return found
}
