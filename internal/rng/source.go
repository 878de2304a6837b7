// Package rng provides the seeded random source shared by every stochastic
// decision of a single simulation instance.
package rng

import (
	"math/rand/v2"

	"github.com/nvandessel/alignleap/internal/constants"
)

// streamSalt derives the second PCG word from the seed so one 64-bit seed
// fully determines the stream.
const streamSalt uint64 = 0x9e3779b97f4a7c15

// Source produces uniform and standard-normal draws from one generator.
// A Source is not safe for concurrent use; each instance owns its own.
type Source struct {
	seed uint64
	r    *rand.Rand
}

// New creates a Source for the given seed. A zero seed is replaced by
// constants.DefaultSeed.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = constants.DefaultSeed
	}
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^streamSalt)),
	}
}

// Seed returns the effective seed (after zero replacement).
func (s *Source) Seed() uint64 {
	return s.seed
}

// Uniform returns a draw in [0, 1).
func (s *Source) Uniform() float64 {
	return s.r.Float64()
}

// Normal returns a draw from the standard normal distribution.
func (s *Source) Normal() float64 {
	return s.r.NormFloat64()
}
