package deal

import (
	"math/rand/v2"

	"crystal-mem/internal/crystal"
)

// Source draws a uniform integer in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator produces shuffled tile assignments.
type Generator struct {
	rng Source
}

// New returns a Generator drawing from rng, or from the process-wide
// generator when rng is nil.
func New(rng Source) *Generator {
	if rng == nil {
		rng = globalSource{}
	}
	return &Generator{rng: rng}
}

// Deal returns TileCount crystal types with each type appearing Copies times,
// in uniformly random order.
func (g *Generator) Deal() []crystal.Type {
	out := make([]crystal.Type, 0, crystal.TileCount)
	for _, t := range crystal.All() {
		for i := 0; i < crystal.Copies; i++ {
			out = append(out, t)
		}
	}
	Shuffle(out, g.rng)
	return out
}

// Shuffle permutes xs in place using Fisher-Yates.
func Shuffle(xs []crystal.Type, rng Source) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
