package sat

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

type giniSolver struct{}

// NewGiniSolver returns an in-process solver backed by gini, which requires no external executable
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(sat SAT) (SATSolution, error) {
	g := gini.New()
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	// 1 stands for satisfiable, -1 for unsatisfiable and 0 for an interrupted search
	switch result := g.Solve(); result {
	case 1:
	case -1:
		return nil, nil
	default:
		return nil, fmt.Errorf("gini could not decide the instance: result %d", result)
	}

	solution := make(SATSolution, 0, sat.Variables)
	for variable := uint64(1); variable <= sat.Variables; variable++ {
		if g.Value(z.Var(variable).Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return solution, nil
}
