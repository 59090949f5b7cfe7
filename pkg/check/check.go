// Package check runs solvers over batches of generated instances and flags every result that is not a valid split within the cut bound.
package check

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/limaJavier/necklace/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Runs    int    // Number of generated instances
	Types   int    // Gem types of every instance
	MaxGems int    // Upper bound of every type's count, positive and even
	Seed    uint64 // Run i uses Seed+i, so a batch can be replayed
	Workers int    // Instances solved concurrently, where values below 1 mean one
}

type Result struct {
	Run      int
	Seed     uint64
	Solver   string
	Types    int
	Gems     int
	Cuts     model.CutSet
	Valid    bool
	Duration time.Duration
	Err      error
}

// Bounded reports whether the split uses at most one cut per gem type
func (result Result) Bounded() bool {
	return result.Err == nil && len(result.Cuts) <= result.Types
}

type Report struct {
	Results []Result
}

// Failures returns the results that errored or produced an invalid split
func (report Report) Failures() []Result {
	return lo.Filter(report.Results, func(result Result, _ int) bool {
		return result.Err != nil || !result.Valid
	})
}

// Unbounded returns the valid results whose split needs more cuts than gem types
func (report Report) Unbounded() []Result {
	return lo.Filter(report.Results, func(result Result, _ int) bool {
		return result.Err == nil && result.Valid && !result.Bounded()
	})
}

// Run solves Config.Runs generated instances with every solver. Solver errors are recorded in the results, whereas generation errors and cancellation abort the batch
func Run(ctx context.Context, config Config, solvers map[string]model.Solver, logger *zap.Logger) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(solvers) == 0 {
		return Report{}, errors.New("at least one solver is required")
	}

	names := lo.Keys(solvers)
	slices.Sort(names)
	results := make([]Result, config.Runs*len(names))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(config.Workers, 1))
	for run := range config.Runs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seed := config.Seed + uint64(run)
			instance, err := model.Generate(config.Types, config.MaxGems, model.NewRand(seed))
			if err != nil {
				return fmt.Errorf("cannot generate instance of run %d: %w", run, err)
			}

			for i, name := range names {
				results[run*len(names)+i] = solve(run, seed, name, solvers[name], instance)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Results: results}
	for _, failure := range report.Failures() {
		logger.Error("solver failed",
			zap.String("solver", failure.Solver),
			zap.Uint64("seed", failure.Seed),
			zap.Ints("cuts", failure.Cuts),
			zap.Error(failure.Err),
		)
	}
	for _, unbounded := range report.Unbounded() {
		logger.Warn("split exceeds the cut bound",
			zap.String("solver", unbounded.Solver),
			zap.Uint64("seed", unbounded.Seed),
			zap.Int("cuts", len(unbounded.Cuts)),
			zap.Int("types", unbounded.Types),
		)
	}
	logger.Info("batch checked",
		zap.Int("runs", config.Runs),
		zap.Strings("solvers", names),
		zap.Int("failures", len(report.Failures())),
		zap.Int("unbounded", len(report.Unbounded())),
	)

	return report, nil
}

func solve(run int, seed uint64, name string, solver model.Solver, instance model.Instance) Result {
	start := time.Now()
	cuts, err := solver.Solve(instance)
	return Result{
		Run:      run,
		Seed:     seed,
		Solver:   name,
		Types:    instance.Types,
		Gems:     len(instance.Sequence),
		Cuts:     cuts,
		Valid:    err == nil && model.IsValidSplit(instance.Sequence, cuts),
		Duration: time.Since(start),
		Err:      err,
	}
}
