package render

import (
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/physics"
)

// Walls reports whether a world position is inside a wall. engine.Map
// satisfies it.
type Walls interface {
	Collision(p physics.Vector2D) bool
}

var vehicleSymbols = [entity.VehicleKindCount]rune{'T', 'H', 'J'}

var projectileSymbols = [entity.WeaponCount]rune{'.', '|', ',', '-', 'h', 'g', 'O'}

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	out       io.Writer
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	walls     Walls
	ansi      bool
}

// NewTerminalRenderer creates a renderer of width x height cells, each
// covering scale world units, that writes frames to out.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetWalls sets the map drawn under every frame. nil draws no walls.
func (r *TerminalRenderer) SetWalls(w Walls) {
	r.walls = w
}

// SetANSI makes Present clear the terminal before each frame.
func (r *TerminalRenderer) SetANSI(on bool) {
	r.ansi = on
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2))
	return screenX, screenY
}

// screenToWorld returns the world position at the middle of a cell.
func (r *TerminalRenderer) screenToWorld(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: (float64(x)+0.5-float64(r.width)/2)*r.scale + r.centerPos.X,
		Y: (float64(y)+0.5-float64(r.height)/2)*r.scale + r.centerPos.Y,
	}
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
			if r.walls != nil && r.walls.Collision(r.screenToWorld(x, y)) {
				r.buffer[y][x] = '#'
			}
		}
	}
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	var sb strings.Builder
	if r.ansi {
		sb.WriteString("\033[H\033[2J")
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	sb.WriteString(border)
	for y := range r.buffer {
		sb.WriteByte('|')
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)

	_, _ = io.WriteString(r.out, sb.String())
}

// RenderVehicle implements entity.Renderer. Wrecks are drawn as 'x'.
func (r *TerminalRenderer) RenderVehicle(_ entity.Handle, v *entity.Vehicle) {
	symbol := 'x'
	if !v.Destroyed() && int(v.Kind) < len(vehicleSymbols) {
		symbol = vehicleSymbols[v.Kind]
	}
	r.plot(v.Pos, symbol)
}

// RenderProjectile implements entity.Renderer
func (r *TerminalRenderer) RenderProjectile(_ entity.Handle, p *entity.Projectile) {
	symbol := '.'
	if p.Weapon.Valid() {
		symbol = projectileSymbols[p.Weapon]
	}
	r.plot(p.Pos, symbol)
}

// RenderExplosion implements entity.Renderer. Finished explosions are
// skipped.
func (r *TerminalRenderer) RenderExplosion(e *entity.Explosion, progress float64) {
	if progress < 0 || progress > 1 {
		return
	}
	symbol := '*'
	if e.Bfg {
		symbol = '@'
	}
	r.plot(e.Pos, symbol)
}

// RenderBeam implements entity.Renderer by sampling the segment once per
// cell.
func (r *TerminalRenderer) RenderBeam(kind entity.BeamKind, b entity.Beam) {
	symbol := '='
	if kind == entity.BfgBeam {
		symbol = '~'
	}

	steps := int(math.Ceil(b.End.Distance(b.Begin) / r.scale))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		r.plot(b.Begin.Add(b.End.Sub(b.Begin).Scale(t)), symbol)
	}
}
