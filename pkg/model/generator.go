package model

import (
	"fmt"
	"math/rand/v2"
)

// Generate builds a random well-formed instance. Each type gets an even count drawn uniformly from [2, maxgems] and the gems are uniformly shuffled.
// Given the same seeded rng and parameters, the result is always the same
func Generate(ntypes, maxgems int, rng *rand.Rand) (Instance, error) {
	if ntypes < 2 {
		return Instance{}, fmt.Errorf("%w: ntypes must be at least 2, got %d", ErrInvalidParameter, ntypes)
	} else if maxgems < 2 || maxgems%2 != 0 {
		return Instance{}, fmt.Errorf("%w: maxgems must be a positive even number, got %d", ErrInvalidParameter, maxgems)
	} else if rng == nil {
		return Instance{}, fmt.Errorf("%w: a random source is required", ErrInvalidParameter)
	}

	counts := make([]int, ntypes)
	for gemType := range counts {
		counts[gemType] = (rng.IntN(maxgems/2) + 1) * 2
	}

	sequence := make([]int, 0, ntypes*maxgems)
	for gemType, count := range counts {
		for range count {
			sequence = append(sequence, gemType)
		}
	}
	rng.Shuffle(len(sequence), func(i, j int) {
		sequence[i], sequence[j] = sequence[j], sequence[i]
	})

	return Instance{
		Types:    ntypes,
		Counts:   counts,
		Sequence: sequence,
	}, nil
}

// NewRand returns a deterministic random source for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
