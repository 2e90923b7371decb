package particle

import (
	"math/rand/v2"
	"time"
)

// Rand is an explicitly owned, seedable random source.
//
// Each Simulator receives its own Rand so that a live preview and a bake never
// draw from the same stream. Reset rewinds the stream to its seed.
type Rand struct {
	seed int64
	r    *rand.Rand
}

// NewRand creates a generator for seed. A seed of 0 is replaced by the current time.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Rand{seed: seed}
	g.Reset()
	return g
}

// Seed returns the seed the generator was created with.
func (g *Rand) Seed() int64 {
	return g.seed
}

// Reset rewinds the generator to the start of its stream.
func (g *Rand) Reset() {
	g.r = rand.New(rand.NewPCG(uint64(g.seed), uint64(g.seed)^0x9e3779b97f4a7c15))
}

// Float64 returns a uniform value in [0, 1).
func (g *Rand) Float64() float64 {
	return g.r.Float64()
}

// Range returns a uniform value between min and max. Inverted bounds are swapped.
func (g *Rand) Range(min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + g.r.Float64()*(max-min)
}
