package sat

import (
	"fmt"
	"slices"
	"strings"
)

// SATSolution lists one signed literal per variable; a positive literal means the variable is true
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Value reports the truth value assigned to the given signed literal. Literals whose variable is absent from the solution are false
func (solution SATSolution) Value(literal int64) bool {
	variable := literal
	if variable < 0 {
		variable = -variable
	}
	for _, assigned := range solution {
		if assigned == variable {
			return literal > 0
		} else if assigned == -variable {
			return literal < 0
		}
	}
	return false
}

// Assignment indexes the solution by variable, which makes repeated lookups constant time
func (solution SATSolution) Assignment() map[int64]bool {
	assignment := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			assignment[literal] = true
		} else if literal < 0 {
			assignment[-literal] = false
		}
	}
	return assignment
}

// Satisfies reports whether the solution is consistent (no variable assigned twice) and satisfies every clause of s
func (solution SATSolution) Satisfies(s SAT) bool {
	assigned := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if assigned[literal] || assigned[-literal] {
			return false
		}
		assigned[literal] = true
	}

	for _, clause := range s.Clauses {
		if !slices.ContainsFunc(clause, func(literal int64) bool { return assigned[literal] }) {
			return false
		}
	}
	return true
}
