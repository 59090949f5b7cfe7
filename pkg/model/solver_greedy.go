package model

import "go.uber.org/zap"

type greedySolver struct {
	logger *zap.Logger
}

// NewGreedySolver returns the linear-time solver. It hands each gem to the current party unless that party already holds half of the gem's type, in which case it cuts right before the gem and switches party.
// The split is always valid, though its length is not bounded by the number of types: such splits are reported through the logger
func NewGreedySolver(logger *zap.Logger) Solver {
	return &greedySolver{
		logger: nopIfNil(logger),
	}
}

func (solver *greedySolver) Solve(instance Instance) (CutSet, error) {
	if err := instance.Validate(); err != nil {
		return nil, err
	}

	parties := [2][]int{make([]int, instance.Types), make([]int, instance.Types)}
	party := 0
	cuts := CutSet{}

	for i, gem := range instance.Sequence {
		if parties[party][gem]+1 > instance.Counts[gem]/2 {
			party = 1 - party
			cuts = append(cuts, i-1)
		}
		parties[party][gem]++
	}

	if len(cuts) > instance.Types {
		solver.logger.Warn("greedy split exceeds the cut bound",
			zap.Int("cuts", len(cuts)),
			zap.Int("types", instance.Types),
			zap.String("split", Render(instance.Sequence, cuts)),
		)
	}
	return cuts, nil
}
