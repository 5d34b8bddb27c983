package combat

import (
	"math/rand/v2"
)

// Random is a source of uniform deviates in [0, 1).
//
// *rand.Rand from math/rand/v2 satisfies it. A seeded Random must not be
// shared between concurrent battles.
type Random interface {
	Float64() float64
}

// pcgStream is the second PCG word; fixed so that one seed means one sequence.
const pcgStream = 0x9e3779b97f4a7c15

// NewSeeded returns a deterministic generator for reproducible battles.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, pcgStream))
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// Global returns the process-wide generator. Safe for concurrent use.
func Global() Random {
	return globalRandom{}
}
