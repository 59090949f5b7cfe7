package model

import (
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/necklace/pkg/sat"
	"go.uber.org/zap"
)

type satSolver struct {
	solver sat.SATSolver
	logger *zap.Logger
}

// NewSatSolver returns an exact solver: it asks the SAT backend for a split with at most 1, 2, ... cuts, so the first split found has the minimum number of cuts
func NewSatSolver(solver sat.SATSolver, logger *zap.Logger) Solver {
	return &satSolver{
		solver: solver,
		logger: nopIfNil(logger),
	}
}

func (solver *satSolver) Solve(instance Instance) (CutSet, error) {
	if err := instance.Validate(); err != nil {
		return nil, err
	}

	for maxCuts := 1; maxCuts <= instance.Types; maxCuts++ {
		satInstance, cutLiterals := EncodeSplit(instance, maxCuts)
		solver.logger.Debug("solving split encoding",
			zap.Int("maxCuts", maxCuts),
			zap.Uint64("variables", satInstance.Variables),
			zap.Int("clauses", len(satInstance.Clauses)),
		)

		solution, err := solver.solver.Solve(satInstance)
		if err != nil {
			return nil, fmt.Errorf("cannot solve the split encoding with at most %d cuts: %w", maxCuts, err)
		} else if solution == nil { // No split with maxCuts cuts, try with one more
			continue
		}

		assignment := solution.Assignment()
		cuts := CutSet{}
		for i, literal := range cutLiterals {
			if literalValue(assignment, literal) {
				cuts = append(cuts, i)
			}
		}

		if !IsValidSplit(instance.Sequence, cuts) {
			return nil, fmt.Errorf("sat backend produced an invalid split %v", cuts)
		}
		return cuts, nil
	}

	return nil, fmt.Errorf("%w: no valid split with at most %d cuts", ErrSearchExhausted, instance.Types)
}

// EncodeSplit returns a CNF that is satisfiable if and only if the instance admits a valid split with at most maxCuts cuts,
// together with the DIMACS literal that holds when a cut falls right after position i, for every i in [0, n-2].
//
// Each gem gets a variable telling whether it goes to party 1. The first gem belongs to party 0 and a cut happens between
// two neighbours exactly when they go to different parties, which is the same as handing blocks out alternately
func EncodeSplit(instance Instance, maxCuts int) (sat.SAT, []int64) {
	circuit := logic.NewC()

	parties := make([]z.Lit, len(instance.Sequence))
	for i := range parties {
		parties[i] = circuit.Lit()
	}

	cuts := make([]z.Lit, len(instance.Sequence)-1)
	for i := range cuts {
		current, next := parties[i], parties[i+1]
		cuts[i] = circuit.Or(circuit.And(current, next.Not()), circuit.And(current.Not(), next))
	}

	assertions := []z.Lit{circuit.T, parties[0].Not()}

	// Party 1 must hold exactly half of every type
	members := make([][]z.Lit, instance.Types)
	for i, gem := range instance.Sequence {
		members[gem] = append(members[gem], parties[i])
	}
	for gemType, count := range instance.Counts {
		cardinality := logic.NewCardSort(members[gemType], circuit)
		assertions = append(assertions, cardinality.Leq(count/2), cardinality.Geq(count/2))
	}

	assertions = append(assertions, logic.NewCardSort(cuts, circuit).Leq(maxCuts))

	cutLiterals := make([]int64, len(cuts))
	for i, cut := range cuts {
		cutLiterals[i] = int64(cut.Dimacs())
	}

	return sat.FromCircuit(circuit, assertions...), cutLiterals
}

func literalValue(assignment map[int64]bool, literal int64) bool {
	if literal < 0 {
		return !assignment[-literal]
	}
	return assignment[literal]
}
