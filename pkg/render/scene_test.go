// pkg/render/scene_test.go
package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-recwars/pkg/engine"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

func TestScene_MirrorsSnapshot(t *testing.T) {
	scene := NewScene()
	s := testSnapshot()
	s.Dt = 0.25

	scene.Sync(s, 0.5)

	assert.Equal(t, 6, scene.Len())
	assert.Equal(t, 0.25, scene.Elapsed())

	sprites := scene.Sprites()
	require.Len(t, sprites, 6)
	layers := make([]Layer, len(sprites))
	for i, sp := range sprites {
		layers[i] = sp.Layer
	}
	assert.Equal(t, []Layer{LayerVehicle, LayerVehicle, LayerProjectile, LayerExplosion, LayerBeam, LayerBeam}, layers)

	assert.Equal(t, "tank", sprites[0].Label)
	assert.False(t, sprites[0].Wreck)
	assert.Equal(t, "hummer", sprites[1].Label)
	assert.True(t, sprites[1].Wreck)
	assert.Equal(t, "rockets", sprites[2].Label)
	assert.Equal(t, 0.5, sprites[3].Progress)
	assert.Equal(t, physics.Vector2D{X: 40, Y: 0}, sprites[4].End)
}

func TestScene_KeepsEntitiesAcrossFrames(t *testing.T) {
	scene := NewScene()
	s := engine.NewGameState(1)
	h := s.Vehicles.Insert(entity.Vehicle{Kind: entity.Tank, HP: 1})

	scene.Sync(s, 0.5)
	first := scene.tracked[key{layer: LayerVehicle, handle: h}]
	require.NotNil(t, first)

	v, _ := s.Vehicles.Get(h)
	v.Pos = physics.Vector2D{X: 50, Y: 60}
	scene.Sync(s, 0.5)

	assert.Same(t, first, scene.tracked[key{layer: LayerVehicle, handle: h}])
	require.Len(t, scene.Sprites(), 1)
	assert.Equal(t, physics.Vector2D{X: 50, Y: 60}, scene.Sprites()[0].Pos)
}

func TestScene_RemovesVanishedEntities(t *testing.T) {
	scene := NewScene()
	s := engine.NewGameState(1)
	h := s.Vehicles.Insert(entity.Vehicle{Kind: entity.Tank, HP: 1})
	p := s.Projectiles.Insert(entity.NewProjectile(entity.Rockets, physics.Vector2D{}, physics.Vector2D{X: 1}, entity.Handle{}))

	scene.Sync(s, 0.5)
	assert.Equal(t, 2, scene.Len())

	s.Projectiles.Remove(p)
	scene.Sync(s, 0.5)

	assert.Equal(t, 1, scene.Len())
	assert.Len(t, scene.sprites.entities, 1)
	require.Len(t, scene.Sprites(), 1)
	assert.Equal(t, LayerVehicle, scene.Sprites()[0].Layer)

	s.Vehicles.Remove(h)
	scene.Sync(s, 0.5)
	assert.Zero(t, scene.Len())
	assert.Empty(t, scene.Sprites())
}
