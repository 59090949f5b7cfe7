package main

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/necklace/internal/config"
	"github.com/limaJavier/necklace/pkg/check"
	"github.com/limaJavier/necklace/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	//** Arrange
	test := TestMetadata{Types: 2, MaxGems: 4}
	report := check.Report{Results: []check.Result{
		{Solver: "greedy", Types: 2, Gems: 6, Cuts: model.CutSet{1, 3, 4}, Valid: true, Duration: 2 * time.Microsecond},
		{Solver: "bruteforce", Types: 2, Gems: 6, Cuts: model.CutSet{0, 3}, Valid: true, Duration: 10 * time.Microsecond},
		{Solver: "greedy", Types: 2, Gems: 4, Cuts: model.CutSet{1}, Valid: true, Duration: 4 * time.Microsecond},
		{Solver: "bruteforce", Types: 2, Gems: 4, Err: errors.New("exhausted"), Duration: 30 * time.Microsecond},
	}}

	//** Act
	results := summarize(test, report)

	//** Assert
	require.Len(t, results, 2)
	bruteForce, greedy := results[0], results[1]

	assert.Equal(t, "bruteforce", bruteForce.Solver)
	assert.Equal(t, 1, bruteForce.Failures)
	assert.Equal(t, 2.0, bruteForce.MeanCuts)
	assert.Equal(t, 20*time.Microsecond, bruteForce.MeanDuration)
	assert.Equal(t, 30*time.Microsecond, bruteForce.MaxDuration)

	assert.Equal(t, "greedy", greedy.Solver)
	assert.Equal(t, 0, greedy.Failures)
	assert.Equal(t, 1, greedy.Unbounded)
	assert.Equal(t, 3, greedy.MaxCuts)
	assert.Equal(t, 5.0, greedy.MeanGems)
}

func TestToCsv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	results := []BenchmarkResult{{Solver: "sat", Test: TestMetadata{Types: 3, MaxGems: 2}, Runs: 20, MeanCuts: 1.5, MaxCuts: 3}}

	require.NoError(t, toCsv(path, results))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"sat", "3", "2", "20", "0.0", "1.50", "3", "0", "0", "0", "0"}, records[1])
}

func TestGetTests(t *testing.T) {
	tests := getTests()

	assert.Len(t, tests, 8)
	for _, test := range tests {
		assert.GreaterOrEqual(t, test.Types, 2)
		assert.Zero(t, test.MaxGems%2)
	}
}

func TestRunsFor(t *testing.T) {
	assert.Equal(t, runsPerTest, runsFor(config.Config{}))
	assert.Equal(t, 3, runsFor(config.Config{Runs: 3}))
}
