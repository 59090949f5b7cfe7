package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/limaJavier/necklace/internal/config"
	"github.com/limaJavier/necklace/internal/logger"
	"github.com/limaJavier/necklace/pkg/check"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	defaultOutFile = "benchmark_results.csv"
	runsPerTest    = 20
)

type TestMetadata struct {
	Types   int
	MaxGems int
}

type BenchmarkResult struct {
	Solver       string
	Test         TestMetadata
	Runs         int
	MeanGems     float64
	MeanCuts     float64
	MaxCuts      int
	MeanDuration time.Duration
	MaxDuration  time.Duration
	Failures     int
	Unbounded    int
}

func main() {
	flags := config.BenchmarkFlags()
	if err := flags.Parse(os.Args[1:]); errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Out == "" {
		cfg.Out = defaultOutFile
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	log, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	solvers := cfg.Solvers(zap.NewNop())
	results := make([]BenchmarkResult, 0)

	for _, test := range getTests() {
		log.Info("benchmarking", zap.Int("types", test.Types), zap.Int("maxgems", test.MaxGems), zap.Strings("solvers", lo.Keys(solvers)))

		report, err := check.Run(context.Background(), check.Config{
			Runs:    runsFor(cfg),
			Types:   test.Types,
			MaxGems: test.MaxGems,
			Seed:    cfg.Seed,
			Workers: cfg.Workers,
		}, solvers, log)
		if err != nil {
			log.Fatal("benchmark aborted", zap.Error(err))
		}

		results = append(results, summarize(test, report)...)
	}

	if err := toCsv(cfg.Out, results); err != nil {
		log.Fatal("cannot write benchmark results", zap.Error(err))
	}
	log.Info("benchmark results written", zap.String("file", cfg.Out), zap.Uint64("seed", cfg.Seed))
}

// runsFor returns the instances generated per benchmarked shape
func runsFor(cfg config.Config) int {
	if cfg.Runs > 0 {
		return cfg.Runs
	}
	return runsPerTest
}

// getTests lists the instance shapes to benchmark. The brute force solver is exponential, so shapes stay small
func getTests() []TestMetadata {
	tests := make([]TestMetadata, 0)
	for types := 2; types <= 5; types++ {
		for _, maxGems := range []int{2, 4} {
			tests = append(tests, TestMetadata{Types: types, MaxGems: maxGems})
		}
	}
	return tests
}

// summarize aggregates a report into one result per solver, sorted by solver name
func summarize(test TestMetadata, report check.Report) []BenchmarkResult {
	perSolver := lo.GroupBy(report.Results, func(result check.Result) string { return result.Solver })
	names := lo.Keys(perSolver)
	slices.Sort(names)

	return lo.Map(names, func(name string, _ int) BenchmarkResult {
		results := perSolver[name]
		succeeded := lo.Filter(results, func(result check.Result, _ int) bool { return result.Err == nil })
		durations := lo.Map(results, func(result check.Result, _ int) time.Duration { return result.Duration })

		summary := BenchmarkResult{
			Solver:      name,
			Test:        test,
			Runs:        len(results),
			MaxDuration: lo.Max(durations),
			Failures:    len(lo.Filter(results, func(result check.Result, _ int) bool { return result.Err != nil || !result.Valid })),
			Unbounded:   len(lo.Filter(succeeded, func(result check.Result, _ int) bool { return !result.Bounded() })),
		}
		if len(results) > 0 {
			summary.MeanDuration = lo.Sum(durations) / time.Duration(len(results))
			summary.MeanGems = float64(lo.SumBy(results, func(result check.Result) int { return result.Gems })) / float64(len(results))
		}
		if len(succeeded) > 0 {
			cuts := lo.Map(succeeded, func(result check.Result, _ int) int { return len(result.Cuts) })
			summary.MeanCuts = float64(lo.Sum(cuts)) / float64(len(succeeded))
			summary.MaxCuts = lo.Max(cuts)
		}
		return summary
	})
}

func toCsv(path string, results []BenchmarkResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Solver", "Types", "MaxGems", "Runs", "Gems(mean)", "Cuts(mean)", "Cuts(max)", "Duration(us, mean)", "Duration(us, max)", "Failures", "Unbounded"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		result.Solver,
		fmt.Sprintf("%d", result.Test.Types),
		fmt.Sprintf("%d", result.Test.MaxGems),
		fmt.Sprintf("%d", result.Runs),
		fmt.Sprintf("%.1f", result.MeanGems),
		fmt.Sprintf("%.2f", result.MeanCuts),
		fmt.Sprintf("%d", result.MaxCuts),
		fmt.Sprintf("%d", result.MeanDuration.Microseconds()),
		fmt.Sprintf("%d", result.MaxDuration.Microseconds()),
		fmt.Sprintf("%d", result.Failures),
		fmt.Sprintf("%d", result.Unbounded),
	}
}
