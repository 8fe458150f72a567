// pkg/entity/explosion.go
package entity

import "github.com/opd-ai/go-recwars/pkg/physics"

// Explosion is a visual effect spawned by gameplay. Bfg selects the cyan
// variant.
type Explosion struct {
	Pos       physics.Vector2D
	Scale     float64
	StartTime float64
	Bfg       bool
}

// Progress returns how far through its animation the explosion is.
// Values above 1 mean it has finished.
func (e Explosion) Progress(now, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return (now - e.StartTime) / duration
}

// BeamKind distinguishes the two beam traces.
type BeamKind uint8

const (
	RailBeam BeamKind = iota
	BfgBeam
)

func (k BeamKind) String() string {
	if k == BfgBeam {
		return "bfg"
	}
	return "rail"
}

// Beam is a line drawn for a single frame.
type Beam struct {
	Begin physics.Vector2D
	End   physics.Vector2D
}
