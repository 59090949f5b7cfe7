package sat

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-air/gini/logic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGini(t *testing.T) {
	solver := NewGiniSolver()

	t.Run("Random instances", func(t *testing.T) {
		seed := rand.Uint64()
		rng := rand.New(rand.NewPCG(seed, seed))
		t.Logf("Seed: %v", seed)

		unsatisfiableCount := 0
		for range 20 {
			//** Arrange
			variables := uint64(rng.IntN(30) + 1)
			clauses := rng.IntN(60) + 1
			instance := randomInstance(rng, variables, clauses)

			//** Act
			solution, err := solver.Solve(instance)

			//** Assert
			require.NoError(t, err)
			if solution == nil {
				unsatisfiableCount++
				continue
			}
			assert.True(t, solution.Satisfies(instance))
		}
		t.Logf("Unsatisfiable instances: %v", unsatisfiableCount)
	})

	t.Run("Unsatisfiable instance", func(t *testing.T) {
		instance := SAT{Variables: 1, Clauses: [][]int64{{1}, {-1}}}

		solution, err := solver.Solve(instance)

		assert.NoError(t, err)
		assert.Nil(t, solution)
	})

	t.Run("Circuit instance", func(t *testing.T) {
		//** Arrange
		circuit := logic.NewC()
		a, b := circuit.Lit(), circuit.Lit()
		instance := FromCircuit(circuit, circuit.And(a, b.Not()))

		//** Act
		solution, err := solver.Solve(instance)

		//** Assert
		require.NoError(t, err)
		require.NotNil(t, solution)
		assert.True(t, solution.Satisfies(instance))
		assert.True(t, solution.Value(int64(a.Dimacs())))
		assert.False(t, solution.Value(int64(b.Dimacs())))
	})
}

func TestToDIMACS(t *testing.T) {
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}}}

	assert.Equal(t, "p cnf 3 2\n1 -2 0\n3 0\n", instance.ToDIMACS())
}

func TestParseSolution(t *testing.T) {
	t.Run("Multi-line model", func(t *testing.T) {
		solution, err := parseSolution("c comment\ns SATISFIABLE\nv 1 -2 3\nv -4 0\n")

		require.NoError(t, err)
		assert.Equal(t, SATSolution{1, -2, 3, -4}, solution)
	})

	t.Run("Missing model", func(t *testing.T) {
		_, err := parseSolution("s UNKNOWN\n")

		assert.ErrorIs(t, err, errMissingModel)
	})

	t.Run("Invalid literal", func(t *testing.T) {
		_, err := parseSolution("v 1 x 0\n")

		assert.Error(t, err)
	})
}

func TestSolutionValue(t *testing.T) {
	solution := SATSolution{1, -2, 3}

	assert.True(t, solution.Value(1))
	assert.True(t, solution.Value(-2))
	assert.False(t, solution.Value(2))
	assert.False(t, solution.Value(4))
	assert.Equal(t, map[int64]bool{1: true, 2: false, 3: true}, solution.Assignment())
}

func TestExternalSolver(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake solvers are shell scripts")
	}
	instance := SAT{Variables: 2, Clauses: [][]int64{{1}, {-2}}}

	t.Run("Satisfiable", func(t *testing.T) {
		path := writeFakeSolver(t, "printf 's SATISFIABLE\\nv 1 -2 0\\n'\nexit 10\n")

		for _, solver := range []SATSolver{NewExternalSolver("fake", path), NewExternalFileSolver("fake", path)} {
			solution, err := solver.Solve(instance)

			require.NoError(t, err)
			assert.True(t, solution.Satisfies(instance))
		}
	})

	t.Run("Unsatisfiable", func(t *testing.T) {
		path := writeFakeSolver(t, "echo 's UNSATISFIABLE'\nexit 20\n")

		solution, err := NewExternalSolver("fake", path).Solve(instance)

		assert.NoError(t, err)
		assert.Nil(t, solution)
	})

	t.Run("Crash", func(t *testing.T) {
		path := writeFakeSolver(t, "echo 'boom' >&2\nexit 1\n")

		_, err := NewExternalSolver("fake", path).Solve(instance)

		assert.ErrorContains(t, err, "boom")
	})

	t.Run("Missing executable", func(t *testing.T) {
		_, err := NewExternalSolver("fake", filepath.Join(t.TempDir(), "missing")).Solve(instance)

		assert.Error(t, err)
	})
}

func writeFakeSolver(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solver.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\ncat > /dev/null\n"+body), 0755))
	return path
}

// randomInstance draws every literal of every clause with probability one half, falling back to a single random literal for empty clauses
func randomInstance(rng *rand.Rand, variables uint64, clauses int) SAT {
	instance := SAT{
		Variables: variables,
		Clauses:   make([][]int64, clauses),
	}

	sign := func() int64 {
		if rng.IntN(2) == 0 {
			return -1
		}
		return 1
	}

	for i := range instance.Clauses {
		for variable := range int64(variables) {
			if rng.IntN(2) == 0 {
				instance.Clauses[i] = append(instance.Clauses[i], sign()*(variable+1))
			}
		}
		if len(instance.Clauses[i]) == 0 {
			instance.Clauses[i] = []int64{sign() * (rng.Int64N(int64(variables)) + 1)}
		}
	}
	return instance
}

func TestSatisfies(t *testing.T) {
	instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}}}

	assert.True(t, SATSolution{1, 2, 3}.Satisfies(instance))
	assert.True(t, SATSolution{-1, -2, 3}.Satisfies(instance))
	assert.False(t, SATSolution{-1, 2, 3}.Satisfies(instance))
	assert.False(t, SATSolution{1, 2, -3}.Satisfies(instance))
	assert.False(t, SATSolution{1, -1, 3}.Satisfies(instance), "contradicting literals")
}

func TestRandomInstanceReplay(t *testing.T) {
	first := randomInstance(rand.New(rand.NewPCG(7, 7)), 12, 30)
	second := randomInstance(rand.New(rand.NewPCG(7, 7)), 12, 30)

	assert.Equal(t, first, second)
	assert.Len(t, first.Clauses, 30)
	for _, clause := range first.Clauses {
		assert.NotEmpty(t, clause)
	}
}
