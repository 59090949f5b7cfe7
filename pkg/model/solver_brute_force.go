package model

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

type bruteForceSolver struct {
	maxEvaluations uint64
	logger         *zap.Logger
}

// NewBruteForceSolver returns the exhaustive reference solver. maxEvaluations bounds the number of candidate cut sets checked per call, where 0 means unbounded.
// Every evaluated candidate is traced at debug level
func NewBruteForceSolver(maxEvaluations uint64, logger *zap.Logger) Solver {
	return &bruteForceSolver{
		maxEvaluations: maxEvaluations,
		logger:         nopIfNil(logger),
	}
}

// bruteForceSearch holds the state of a single call, so that concurrent calls never share anything
type bruteForceSearch struct {
	instance       Instance
	maxEvaluations uint64
	evaluations    uint64
	exhausted      bool
	logger         *zap.Logger
}

func (solver *bruteForceSolver) Solve(instance Instance) (CutSet, error) {
	if err := instance.Validate(); err != nil {
		return nil, err
	}

	search := &bruteForceSearch{
		instance:       instance,
		maxEvaluations: solver.maxEvaluations,
		logger:         solver.logger,
	}

	cuts, ok := search.search(0, CutSet{})
	if search.exhausted {
		return nil, fmt.Errorf("%w: budget of %d evaluations spent", ErrSearchExhausted, solver.maxEvaluations)
	} else if !ok {
		return nil, fmt.Errorf("%w: no valid split with at most %d cuts", ErrSearchExhausted, instance.Types)
	}

	solver.logger.Debug("brute force split found", zap.Ints("cuts", cuts), zap.Uint64("evaluations", search.evaluations))
	return cuts, nil
}

// search extends cuts with indices starting at cursor, depth first and leftmost first, and returns the first valid cut set it meets
func (search *bruteForceSearch) search(cursor int, cuts CutSet) (CutSet, bool) {
	// A valid split with at most Types cuts always exists, so deeper branches are never explored
	if len(cuts) == search.instance.Types {
		if search.evaluate(cuts) {
			return cuts, true
		}
		return nil, false
	}

	for i := cursor; i < len(search.instance.Sequence)-1; i++ {
		candidate := append(slices.Clone(cuts), i)
		if search.evaluate(candidate) {
			return candidate, true
		} else if search.exhausted {
			return nil, false
		}

		if solution, ok := search.search(i+1, candidate); ok {
			return solution, true
		} else if search.exhausted {
			return nil, false
		}
	}
	return nil, false
}

func (search *bruteForceSearch) evaluate(cuts CutSet) bool {
	if search.maxEvaluations > 0 && search.evaluations >= search.maxEvaluations {
		search.exhausted = true
		return false
	}
	search.evaluations++

	valid := IsValidSplit(search.instance.Sequence, cuts)
	if entry := search.logger.Check(zap.DebugLevel, "evaluating candidate"); entry != nil {
		entry.Write(
			zap.String("split", Render(search.instance.Sequence, cuts)),
			zap.Ints("cuts", cuts),
			zap.Bool("valid", valid),
		)
	}
	return valid
}
