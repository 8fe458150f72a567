// pkg/render/scene.go
package render

import (
	"slices"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-recwars/pkg/engine"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// Layer orders sprites from bottom to top.
type Layer uint8

const (
	LayerVehicle Layer = iota
	LayerProjectile
	LayerExplosion
	LayerBeam
)

// Sprite is what a frontend needs to draw one simulated object.
type Sprite struct {
	Layer    Layer
	Label    string
	Pos      physics.Vector2D
	End      physics.Vector2D // beams only
	Angle    float64
	Scale    float64
	Progress float64
	Wreck    bool
}

type spriteEntity struct {
	basic  *ecs.BasicEntity
	sprite *Sprite
}

// SpriteSystem is the ecs system owning every sprite. Its Update sorts the
// draw list.
type SpriteSystem struct {
	entities map[uint64]spriteEntity
	drawList []Sprite
	elapsed  float64
}

func newSpriteSystem() *SpriteSystem {
	return &SpriteSystem{entities: make(map[uint64]spriteEntity)}
}

// Add starts tracking a sprite for basic.
func (s *SpriteSystem) Add(basic *ecs.BasicEntity, sprite *Sprite) {
	s.entities[basic.ID()] = spriteEntity{basic: basic, sprite: sprite}
}

// Remove implements ecs.System.
func (s *SpriteSystem) Remove(basic ecs.BasicEntity) {
	delete(s.entities, basic.ID())
}

// Update implements ecs.System.
func (s *SpriteSystem) Update(dt float32) {
	s.elapsed += float64(dt)

	s.drawList = s.drawList[:0]
	ids := make([]uint64, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.drawList = append(s.drawList, *s.entities[id].sprite)
	}
	slices.SortStableFunc(s.drawList, func(a, b Sprite) int {
		return int(a.Layer) - int(b.Layer)
	})
}

// key names a sprite across frames. Explosions and beams have no handle,
// so they are keyed by their index in this frame.
type key struct {
	layer  Layer
	handle entity.Handle
	index  int
}

// Scene mirrors snapshots into an ecs.World so a frontend can draw sprites
// that persist across frames instead of rebuilding them. It implements
// entity.Renderer; use Sync to feed it a snapshot.
type Scene struct {
	world   *ecs.World
	sprites *SpriteSystem

	tracked map[key]*ecs.BasicEntity
	seen    map[key]bool
	frame   struct {
		explosions int
		beams      int
	}
	dt float64
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	scene := &Scene{
		world:   &ecs.World{},
		sprites: newSpriteSystem(),
		tracked: make(map[key]*ecs.BasicEntity),
		seen:    make(map[key]bool),
	}
	scene.world.AddSystem(scene.sprites)
	return scene
}

// Sync draws snapshot s into the scene and steps the world by its dt.
func (scene *Scene) Sync(s *engine.GameState, explosionDuration float64) {
	scene.dt = s.Dt
	Draw(s, scene, explosionDuration)
}

// Sprites returns the current draw list, bottom layer first.
func (scene *Scene) Sprites() []Sprite {
	return slices.Clone(scene.sprites.drawList)
}

// Len returns the number of live sprite entities.
func (scene *Scene) Len() int {
	return len(scene.tracked)
}

// Elapsed returns the total time the world has been stepped by.
func (scene *Scene) Elapsed() float64 {
	return scene.sprites.elapsed
}

// Clear implements entity.Renderer.
func (scene *Scene) Clear() {
	clear(scene.seen)
	scene.frame.explosions = 0
	scene.frame.beams = 0
}

// Present implements entity.Renderer. Sprites not drawn this frame are
// removed from the world before it is updated.
func (scene *Scene) Present() {
	for k, basic := range scene.tracked {
		if !scene.seen[k] {
			scene.world.RemoveEntity(*basic)
			delete(scene.tracked, k)
		}
	}
	scene.world.Update(float32(scene.dt))
}

// getOrCreate gets the sprite for k, creating its entity on first sight.
func (scene *Scene) getOrCreate(k key) *Sprite {
	scene.seen[k] = true
	if basic, ok := scene.tracked[k]; ok {
		return scene.sprites.entities[basic.ID()].sprite
	}

	basic := ecs.NewBasic()
	sprite := &Sprite{Layer: k.layer}
	scene.tracked[k] = &basic
	scene.sprites.Add(&basic, sprite)
	return sprite
}

// RenderVehicle implements entity.Renderer.
func (scene *Scene) RenderVehicle(h entity.Handle, v *entity.Vehicle) {
	sp := scene.getOrCreate(key{layer: LayerVehicle, handle: h})
	sp.Label = v.Kind.String()
	sp.Pos = v.Pos
	sp.Angle = v.Angle
	sp.Scale = 1
	sp.Wreck = v.Destroyed()
}

// RenderProjectile implements entity.Renderer.
func (scene *Scene) RenderProjectile(h entity.Handle, p *entity.Projectile) {
	sp := scene.getOrCreate(key{layer: LayerProjectile, handle: h})
	sp.Label = p.Weapon.String()
	sp.Pos = p.Pos
	sp.Angle = p.Vel.Angle()
	sp.Scale = 1
}

// RenderExplosion implements entity.Renderer.
func (scene *Scene) RenderExplosion(e *entity.Explosion, progress float64) {
	sp := scene.getOrCreate(key{layer: LayerExplosion, index: scene.frame.explosions})
	scene.frame.explosions++
	sp.Label = "explosion"
	if e.Bfg {
		sp.Label = "bfg_explosion"
	}
	sp.Pos = e.Pos
	sp.Scale = e.Scale
	sp.Progress = progress
}

// RenderBeam implements entity.Renderer.
func (scene *Scene) RenderBeam(kind entity.BeamKind, b entity.Beam) {
	sp := scene.getOrCreate(key{layer: LayerBeam, index: scene.frame.beams})
	scene.frame.beams++
	sp.Label = kind.String()
	sp.Pos = b.Begin
	sp.End = b.End
	sp.Angle = b.End.Sub(b.Begin).Angle()
	sp.Scale = 1
}
