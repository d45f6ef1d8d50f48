package random

import (
	"math"
	"math/rand/v2"
)

// pcgStream is the fixed PCG increment; only the seed varies between engines.
const pcgStream = 0xda3e39cb94b95bdb

// Engine is a deterministic random source. For a fixed Seed and a fixed
// sequence of calls it always returns the same values. Every method consumes
// a whole number of 64-bit draws from the underlying PCG source.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	seed Seed
	src  *rand.PCG
}

// New returns an Engine seeded exactly from seed.Value.
func New(seed Seed) *Engine {
	return &Engine{seed: seed, src: rand.NewPCG(seed.Value, pcgStream)}
}

// Seed returns the seed the engine was created with.
func (e *Engine) Seed() Seed {
	return e.seed
}

// Uint64 returns one raw 64-bit draw.
func (e *Engine) Uint64() uint64 {
	return e.src.Uint64()
}

// InRangeInclusive returns a value in [low, high]. It panics if high < low.
func (e *Engine) InRangeInclusive(low, high int) int {
	if high < low {
		panic("random: no valid range")
	}
	n := uint64(high-low) + 1
	u := e.src.Uint64()
	if n == 0 {
		// [math.MinInt, math.MaxInt]
		return int(u)
	}
	return low + int(u%n)
}

// InRangeExclusive returns a value in [low, high). It panics if high <= low.
func (e *Engine) InRangeExclusive(low, high int) int {
	if high <= low {
		panic("random: no valid range")
	}
	return low + int(e.src.Uint64()%uint64(high-low))
}

// WithProbability reports true with probability p. It always consumes exactly
// one draw, including for p == 0 and p == 1.
func (e *Engine) WithProbability(p float64) bool {
	switch {
	case p >= 1:
		e.Skip()
		return true
	case p <= 0:
		e.Skip()
		return false
	}
	return float64(e.src.Uint64()>>11)/(1<<53) < p
}

// Float returns a value in [0.0, 1.0], both ends included.
func (e *Engine) Float() float64 {
	return float64(e.src.Uint64()) / math.MaxUint64
}

// Skip consumes and discards one draw.
func (e *Engine) Skip() {
	e.src.Uint64()
}

// SkipN consumes and discards n draws.
func (e *Engine) SkipN(n int) {
	for i := 0; i < n; i++ {
		e.src.Uint64()
	}
}

// Pick returns a uniformly chosen element of values. It panics on an empty slice.
func Pick[T any](e *Engine, values []T) T {
	return values[e.InRangeExclusive(0, len(values))]
}
