package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"

	"github.com/limaJavier/necklace/internal/config"
	"github.com/limaJavier/necklace/internal/logger"
	"github.com/limaJavier/necklace/pkg/check"
	"github.com/limaJavier/necklace/pkg/model"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitInvalidSplit = 15
	exitExhausted    = 20
)

type solution struct {
	Cuts   model.CutSet `json:"cuts"`
	Split  string       `json:"split"`
	Valid  bool         `json:"valid"`
	Within bool         `json:"withinBound"`
}

type output struct {
	Seed      uint64              `json:"seed,omitempty"`
	Instance  model.Instance      `json:"instance"`
	Solutions map[string]solution `json:"solutions"`
}

type flagged struct {
	Run    int          `json:"run"`
	Seed   uint64       `json:"seed"`
	Solver string       `json:"solver"`
	Types  int          `json:"types"`
	Cuts   model.CutSet `json:"cuts"`
	Error  string       `json:"error,omitempty"`
}

type batchOutput struct {
	Seed      uint64    `json:"seed"`
	Runs      int       `json:"runs"`
	Results   int       `json:"results"`
	Failures  []flagged `json:"failures"`
	Unbounded []flagged `json:"unbounded"`
}

func main() {
	// Parse arguments
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Validate arguments
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	// Initialize engines
	solvers := cfg.Solvers(log)

	var exitCode int
	if cfg.Runs > 0 {
		exitCode = runBatch(cfg, solvers, log)
	} else {
		exitCode = runSingle(cfg, solvers, log)
	}
	log.Sync()
	os.Exit(exitCode)
}

func runBatch(cfg config.Config, solvers map[string]model.Solver, log *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := check.Run(ctx, check.Config{
		Runs:    cfg.Runs,
		Types:   cfg.Types,
		MaxGems: cfg.MaxGems,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}, solvers, log)
	if err != nil {
		log.Error("batch interrupted", zap.Error(err))
		return 1
	}

	toFlagged := func(result check.Result, _ int) flagged {
		entry := flagged{
			Run:    result.Run,
			Seed:   result.Seed,
			Solver: result.Solver,
			Types:  result.Types,
			Cuts:   result.Cuts,
		}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		return entry
	}

	failures := report.Failures()
	writeOutput(cfg.Out, batchOutput{
		Seed:      cfg.Seed,
		Runs:      cfg.Runs,
		Results:   len(report.Results),
		Failures:  lo.Map(failures, toFlagged),
		Unbounded: lo.Map(report.Unbounded(), toFlagged),
	}, log)

	if len(failures) > 0 {
		return exitInvalidSplit
	}
	return 0
}

func runSingle(cfg config.Config, solvers map[string]model.Solver, log *zap.Logger) int {
	// Extract input
	var (
		instance model.Instance
		err      error
		seed     uint64
	)
	if cfg.File != "" {
		instance, err = model.InstanceFromJson(cfg.File)
	} else {
		seed = cfg.Seed
		instance, err = model.Generate(cfg.Types, cfg.MaxGems, model.NewRand(seed))
	}
	if err != nil {
		log.Fatal("cannot build instance", zap.Error(err))
	}

	if instance.Types > 10 {
		log.Warn("gem types above 9 take several digits, the split is printed with separators", zap.Int("types", instance.Types))
	}

	if cfg.Dimacs != "" {
		satInstance, _ := model.EncodeSplit(instance, instance.Types)
		if err := os.WriteFile(cfg.Dimacs, []byte(satInstance.ToDIMACS()), 0666); err != nil {
			log.Fatal("an error occurred while writing the DIMACS file", zap.Error(err))
		}
		log.Info("DIMACS encoding written",
			zap.String("file", cfg.Dimacs),
			zap.Uint64("variables", satInstance.Variables),
			zap.Int("clauses", len(satInstance.Clauses)),
		)
	}

	result := output{
		Seed:      seed,
		Instance:  instance,
		Solutions: make(map[string]solution),
	}

	exitCode := 0
	names := lo.Keys(solvers)
	slices.Sort(names)
	for _, name := range names {
		cuts, err := solvers[name].Solve(instance)
		if errors.Is(err, model.ErrSearchExhausted) {
			log.Error("no split found", zap.String("solver", name), zap.Error(err))
			exitCode = max(exitCode, exitExhausted)
			continue
		} else if err != nil {
			log.Fatal("an error occurred while splitting the necklace", zap.String("solver", name), zap.Error(err))
		}

		// Verify split correctness
		valid := model.IsValidSplit(instance.Sequence, cuts)
		if !valid {
			log.Error("invalid split", zap.String("solver", name), zap.Ints("cuts", cuts))
			exitCode = max(exitCode, exitInvalidSplit)
		}

		result.Solutions[name] = solution{
			Cuts:   cuts,
			Split:  model.Render(instance.Sequence, cuts),
			Valid:  valid,
			Within: len(cuts) <= instance.Types,
		}
		log.Info("necklace split", zap.String("solver", name), zap.Int("cuts", len(cuts)), zap.String("split", result.Solutions[name].Split))
	}

	writeOutput(cfg.Out, result, log)
	return exitCode
}

// writeOutput marshals value into json and writes it into file, or into the Standard Output if file is empty
func writeOutput(file string, value any, log *zap.Logger) {
	bytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatal("an error occurred while building output json", zap.Error(err))
	}

	if file == "" {
		fmt.Println(string(bytes))
	} else if err := os.WriteFile(file, bytes, 0666); err != nil {
		log.Fatal("an error occurred while writing to the output file", zap.Error(err))
	}
}
