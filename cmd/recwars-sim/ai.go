// cmd/recwars-sim/ai.go
package main

import (
	"math/rand/v2"

	"github.com/opd-ai/go-recwars/pkg/entity"
)

// bot is a biased coin-flip driver. Movement, steering and the trigger are
// sticky so the vehicle does something for a while before changing its
// mind; everything else is an occasional random press.
type bot struct {
	movement int // -1 back, 0 coast, 1 forward
	turning  int // -1 left, 0 straight, 1 right
	firing   bool
}

func (b *bot) input(rng *rand.Rand) entity.Input {
	if chance(rng, 0.05) {
		b.movement = rng.IntN(3) - 1
	}
	if chance(rng, 0.05) {
		b.turning = rng.IntN(3) - 1
	}

	if !b.firing && chance(rng, 0.01) {
		b.firing = true
	} else if b.firing && chance(rng, 0.05) {
		b.firing = false
	}

	return entity.Input{
		Up:           b.movement == 1,
		Down:         b.movement == -1,
		Left:         b.turning == -1,
		Right:        b.turning == 1,
		TurretLeft:   chance(rng, 0.001),
		TurretRight:  chance(rng, 0.001),
		PrevWeapon:   chance(rng, 0.001),
		NextWeapon:   chance(rng, 0.001),
		Fire:         b.firing,
		Mine:         chance(rng, 0.001),
		SelfDestruct: chance(rng, 0.0001),
		Horn:         chance(rng, 0.0001),
	}
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
