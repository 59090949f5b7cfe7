package check

import (
	"context"
	"testing"

	"github.com/limaJavier/necklace/pkg/model"
	"github.com/limaJavier/necklace/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixedSolver struct {
	cuts model.CutSet
}

func (solver fixedSolver) Solve(model.Instance) (model.CutSet, error) {
	return solver.cuts, nil
}

func TestRun(t *testing.T) {
	solvers := map[string]model.Solver{
		"bruteforce": model.NewBruteForceSolver(0, nil),
		"greedy":     model.NewGreedySolver(nil),
		"sat":        model.NewSatSolver(sat.NewGiniSolver(), nil),
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		config := Config{Runs: 25, Types: 3, MaxGems: 4, Seed: 11, Workers: 4}

		//** Act
		report, err := Run(context.Background(), config, solvers, nil)

		//** Assert
		require.NoError(t, err)
		assert.Len(t, report.Results, 75)
		assert.Empty(t, report.Failures())
		for i, result := range report.Results {
			assert.Equal(t, i/3, result.Run)
			assert.Equal(t, config.Seed+uint64(result.Run), result.Seed)
		}
	})

	t.Run("Replayable batches", func(t *testing.T) {
		config := Config{Runs: 10, Types: 4, MaxGems: 6, Seed: 3, Workers: 3}

		first, err := Run(context.Background(), config, solvers, nil)
		require.NoError(t, err)
		second, err := Run(context.Background(), config, solvers, nil)
		require.NoError(t, err)

		for i := range first.Results {
			assert.Equal(t, first.Results[i].Cuts, second.Results[i].Cuts)
		}
	})

	t.Run("Failures are flagged", func(t *testing.T) {
		//** Arrange
		core, logs := observer.New(zap.ErrorLevel)
		config := Config{Runs: 5, Types: 2, MaxGems: 4, Workers: 2}

		//** Act
		report, err := Run(context.Background(), config, map[string]model.Solver{"broken": fixedSolver{}}, zap.New(core))

		//** Assert
		require.NoError(t, err)
		assert.Len(t, report.Failures(), 5)
		assert.Equal(t, 5, logs.Len())
	})

	t.Run("Invalid parameters", func(t *testing.T) {
		_, err := Run(context.Background(), Config{Runs: 2, Types: 2, MaxGems: 3}, solvers, nil)
		assert.ErrorIs(t, err, model.ErrInvalidParameter)

		_, err = Run(context.Background(), Config{Runs: 2, Types: 2, MaxGems: 4}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, Config{Runs: 5, Types: 2, MaxGems: 4}, solvers, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResultBounded(t *testing.T) {
	assert.True(t, Result{Types: 2, Cuts: model.CutSet{0, 2}}.Bounded())
	assert.False(t, Result{Types: 2, Cuts: model.CutSet{1, 3, 4}}.Bounded())

	report := Report{Results: []Result{
		{Types: 2, Cuts: model.CutSet{1, 3, 4}, Valid: true},
		{Types: 2, Cuts: model.CutSet{1}, Valid: true},
	}}
	assert.Len(t, report.Unbounded(), 1)
	assert.Empty(t, report.Failures())
}
