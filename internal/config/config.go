package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// GiniBackend names the in-process SAT backend, always available
	GiniBackend = "gini"
	envPrefix   = "NECKLACE"
)

// ExternalSolver describes a DIMACS-CNF solver executable
type ExternalSolver struct {
	Path      string   `mapstructure:"path" validate:"required"`
	Args      []string `mapstructure:"args"`
	FileInput bool     `mapstructure:"fileInput"` // Hand the instance over as a file instead of the standard input
}

type Config struct {
	Solver          string                    `mapstructure:"solver" validate:"oneof=bruteforce greedy sat all"`
	Backend         string                    `mapstructure:"backend" validate:"required"`
	File            string                    `mapstructure:"file"`
	Out             string                    `mapstructure:"out"`
	Dimacs          string                    `mapstructure:"dimacs"`
	Types           int                       `mapstructure:"types" validate:"gte=2"`
	MaxGems         int                       `mapstructure:"maxgems" validate:"gte=2,even"`
	Seed            uint64                    `mapstructure:"seed"` // 0 draws a random seed
	Runs            int                       `mapstructure:"runs" validate:"gte=0"`
	Workers         int                       `mapstructure:"workers" validate:"gte=1"`
	Budget          uint64                    `mapstructure:"budget"` // Brute force evaluations per instance, 0 means unbounded
	LogLevel        string                    `mapstructure:"loglevel" validate:"oneof=debug info warn error"`
	Development     bool                      `mapstructure:"development"`
	ExternalSolvers map[string]ExternalSolver `mapstructure:"externalSolvers" validate:"dive"`
}

// Flags returns the command-line flags understood by Load, holding the defaults of every setting
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("necklace", pflag.ContinueOnError)
	flags.String("config", "", "Path to a configuration file (yaml, json or toml); flags and NECKLACE_* environment variables take precedence over it")
	flags.String("solver", "all", `Solver to use. Allowed values are: "bruteforce", "greedy", "sat" and "all", where "all" is the default`)
	flags.String("backend", GiniBackend, `SAT backend used by the "sat" solver: "gini" (default) or the name of an external solver declared in the configuration file`)
	flags.String("file", "", "Path to the input file; if empty, an instance is generated")
	flags.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flags.String("dimacs", "", "Path to the file where the DIMACS encoding of the instance (with at most one cut per gem type) will be written")
	flags.Int("types", 10, "Number of gem types of generated instances")
	flags.Int("maxgems", 4, "Maximum number of gems per type of generated instances, a positive even number")
	flags.Uint64("seed", 0, "Seed of the generated instances; 0 draws a random one")
	flags.Int("runs", 0, "Number of generated instances to check in batch; 0 solves a single instance")
	flags.Int("workers", 4, "Instances solved concurrently in batch mode")
	flags.Uint64("budget", 0, "Maximum candidate evaluations of the brute force solver per instance; 0 means unbounded")
	flags.String("loglevel", "info", `Log level: "debug", "info", "warn" or "error"`)
	flags.Bool("development", false, "Human-friendly console logs")
	return flags
}

// BenchmarkFlags returns the subset of Flags that applies to benchmarking, where instance shapes are fixed
func BenchmarkFlags() *pflag.FlagSet {
	all := Flags()
	flags := pflag.NewFlagSet("necklace-benchmark", pflag.ContinueOnError)
	for _, name := range []string{"config", "solver", "backend", "out", "seed", "runs", "workers", "budget", "loglevel", "development"} {
		flags.AddFlag(all.Lookup(name))
	}
	flags.Lookup("runs").Usage = "Number of generated instances per benchmarked shape; 0 uses the default"
	return flags
}

// Load merges the configuration file, the environment and the already parsed flags, then validates the result
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Settings without a flag in the given set keep their usual defaults
	Flags().VisitAll(func(flag *pflag.Flag) {
		v.SetDefault(flag.Name, flag.DefValue)
	})
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("cannot bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration: %w", err)
	}
	// Map keys are case-insensitive in viper, so names must be as well
	config.Solver = strings.ToLower(config.Solver)
	config.Backend = strings.ToLower(config.Backend)
	return config, config.Validate()
}

func (config Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("even", func(field validator.FieldLevel) bool {
		return field.Field().Int()%2 == 0
	}); err != nil {
		return err
	}

	if err := validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, fmt.Sprintf("%v must satisfy %v=%v, got %v", fieldError.Namespace(), fieldError.Tag(), fieldError.Param(), fieldError.Value()))
			}
			return fmt.Errorf("validation error: %v", strings.Join(messages, "; "))
		}
		return err
	}

	if _, ok := config.ExternalSolvers[config.Backend]; config.Backend != GiniBackend && !ok {
		return fmt.Errorf("validation error: backend %q is neither %q nor a configured external solver", config.Backend, GiniBackend)
	}
	return nil
}
