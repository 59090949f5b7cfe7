package config

import (
	"github.com/limaJavier/necklace/pkg/model"
	"github.com/limaJavier/necklace/pkg/sat"
	"go.uber.org/zap"
)

// SATSolver returns the backend selected by Backend
func (config Config) SATSolver() sat.SATSolver {
	external, ok := config.ExternalSolvers[config.Backend]
	if config.Backend == GiniBackend || !ok {
		return sat.NewGiniSolver()
	} else if external.FileInput {
		return sat.NewExternalFileSolver(config.Backend, external.Path, external.Args...)
	}
	return sat.NewExternalSolver(config.Backend, external.Path, external.Args...)
}

// Solvers returns the solvers selected by Solver, keyed by name
func (config Config) Solvers(logger *zap.Logger) map[string]model.Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	solvers := map[string]func() model.Solver{
		"bruteforce": func() model.Solver {
			return model.NewBruteForceSolver(config.Budget, logger.Named("bruteforce"))
		},
		"greedy": func() model.Solver {
			return model.NewGreedySolver(logger.Named("greedy"))
		},
		"sat": func() model.Solver {
			return model.NewSatSolver(config.SATSolver(), logger.Named("sat"))
		},
	}

	selected := make(map[string]model.Solver)
	for name, newSolver := range solvers {
		if config.Solver == "all" || config.Solver == name {
			selected[name] = newSolver()
		}
	}
	return selected
}
