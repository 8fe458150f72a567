// Package tilemap is an in-memory tile grid that answers the collision
// queries the simulation asks of its map. Maps are built from ASCII rows;
// there is no file format.
package tilemap

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-recwars/pkg/physics"
)

// DefaultTileSize is the edge length of a tile in world units.
const DefaultTileSize = 64.0

// ErrInvalidMap is returned when rows cannot form a playable map.
var ErrInvalidMap = errors.New("invalid map")

// Tile is the content of one grid cell.
type Tile uint8

const (
	Floor Tile = iota
	Wall
	Spawn
)

// Legend:
//
//	'.' ' '  floor
//	'#'      wall
//	'>' 'S'  spawn facing +X
//	'v'      spawn facing +Y
//	'<'      spawn facing -X
//	'^'      spawn facing -Y
var spawnAngles = map[rune]float64{
	'>': 0,
	'S': 0,
	'v': math.Pi / 2,
	'<': math.Pi,
	'^': 3 * math.Pi / 2,
}

type spawnPoint struct {
	pos   physics.Vector2D
	angle float64
}

// Grid is a rectangular tile map. Everything outside the grid is wall.
type Grid struct {
	width    int
	height   int
	tileSize float64
	tiles    []Tile
	spawns   []spawnPoint
	nonwall  []int
}

// FromRows builds a grid from equally long ASCII rows.
func FromRows(rows []string, tileSize float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidMap)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %v", ErrInvalidMap, tileSize)
	}

	width := len([]rune(rows[0]))
	g := &Grid{
		width:    width,
		height:   len(rows),
		tileSize: tileSize,
		tiles:    make([]Tile, 0, width*len(rows)),
	}

	for y, row := range rows {
		cells := []rune(row)
		if len(cells) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidMap, y, len(cells), width)
		}
		for x, c := range cells {
			idx := y*width + x
			switch {
			case c == '#':
				g.tiles = append(g.tiles, Wall)
				continue
			case c == '.' || c == ' ':
				g.tiles = append(g.tiles, Floor)
			default:
				angle, ok := spawnAngles[c]
				if !ok {
					return nil, fmt.Errorf("%w: unknown tile %q at %d,%d", ErrInvalidMap, c, x, y)
				}
				g.tiles = append(g.tiles, Spawn)
				g.spawns = append(g.spawns, spawnPoint{pos: g.TileCenter(x, y), angle: angle})
			}
			g.nonwall = append(g.nonwall, idx)
		}
	}

	if len(g.nonwall) == 0 {
		return nil, fmt.Errorf("%w: no open tiles", ErrInvalidMap)
	}
	return g, nil
}

// MustFromRows is FromRows that panics on error. For fixtures and tests.
func MustFromRows(rows []string, tileSize float64) *Grid {
	g, err := FromRows(rows, tileSize)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of tile columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of tile rows.
func (g *Grid) Height() int { return g.height }

// TileSize returns the edge length of a tile.
func (g *Grid) TileSize() float64 { return g.tileSize }

// Bounds returns the world-space extent of the map.
func (g *Grid) Bounds() physics.Vector2D {
	return physics.Vector2D{X: float64(g.width) * g.tileSize, Y: float64(g.height) * g.tileSize}
}

// TileAt returns the tile at column x, row y.
func (g *Grid) TileAt(x, y int) Tile {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Wall
	}
	return g.tiles[y*g.width+x]
}

// TileCenter returns the world position of the centre of a tile.
func (g *Grid) TileCenter(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: (float64(x) + 0.5) * g.tileSize,
		Y: (float64(y) + 0.5) * g.tileSize,
	}
}

func (g *Grid) tileOf(p physics.Vector2D) (int, int) {
	return int(math.Floor(p.X / g.tileSize)), int(math.Floor(p.Y / g.tileSize))
}

// Collision reports whether p lies inside a wall.
func (g *Grid) Collision(p physics.Vector2D) bool {
	x, y := g.tileOf(p)
	return g.TileAt(x, y) == Wall
}

// CollisionBetween walks the tiles crossed by the segment a→b and returns
// the point where it first enters a wall.
func (g *Grid) CollisionBetween(a, b physics.Vector2D) (physics.Vector2D, bool) {
	if g.Collision(a) {
		return a, true
	}

	d := b.Sub(a)
	tx, ty := g.tileOf(a)
	stepX, tMaxX, tDeltaX := g.axisSetup(a.X, d.X, tx)
	stepY, tMaxY, tDeltaY := g.axisSetup(a.Y, d.Y, ty)

	for {
		var t float64
		if tMaxX < tMaxY {
			t = tMaxX
			tx += stepX
			tMaxX += tDeltaX
		} else {
			t = tMaxY
			ty += stepY
			tMaxY += tDeltaY
		}
		if t > 1 {
			return physics.Vector2D{}, false
		}
		if g.TileAt(tx, ty) == Wall {
			return a.Add(d.Scale(t)), true
		}
	}
}

// axisSetup returns the tile step, the segment parameter of the first tile
// boundary and the parameter distance between boundaries along one axis.
func (g *Grid) axisSetup(origin, delta float64, tile int) (int, float64, float64) {
	switch {
	case delta > 0:
		return 1, (float64(tile+1)*g.tileSize - origin) / delta, g.tileSize / delta
	case delta < 0:
		return -1, (float64(tile)*g.tileSize - origin) / delta, -g.tileSize / delta
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

// RandomSpawn picks one of the spawn tiles, or any open tile when the map
// has none.
func (g *Grid) RandomSpawn(rng *rand.Rand) (physics.Vector2D, float64) {
	if len(g.spawns) == 0 {
		return g.RandomNonwall(rng)
	}
	s := g.spawns[rng.IntN(len(g.spawns))]
	return s.pos, s.angle
}

// RandomNonwall picks the centre of a random open tile. Open tiles carry no
// facing, so the angle is always 0.
func (g *Grid) RandomNonwall(rng *rand.Rand) (physics.Vector2D, float64) {
	idx := g.nonwall[rng.IntN(len(g.nonwall))]
	return g.TileCenter(idx%g.width, idx/g.width), 0
}

// SpawnCount returns the number of designated spawn tiles.
func (g *Grid) SpawnCount() int {
	return len(g.spawns)
}
