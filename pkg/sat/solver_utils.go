package sat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var errMissingModel = errors.New("solver output holds no model")

// parseSolution extracts the model from the "v" lines of a SAT-competition style output. The trailing 0 terminator is dropped
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.FlatMap(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(line string, _ int) []string {
			return strings.Fields(line[1:])
		},
	)
	if len(fields) == 0 {
		return nil, errMissingModel
	}

	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %w", err)
		} else if value == 0 {
			break
		}
		solution = append(solution, value)
	}
	return solution, nil
}
