// Package testutil provides shared test infrastructure for the simulator.
// It holds the golden dataset types and assertion helpers used by the
// packages that build and run whole networks.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one network, run for a number of turns with a seed.
// Network is a description in the line-oriented text format.
type GoldenTestCase struct {
	Name    string        `json:"name"`
	Network string        `json:"network"`
	Seed    int64         `json:"seed"`
	Turns   int64         `json:"turns"`
	Metrics GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected counters after the run.
type GoldenMetrics struct {
	// Exact match counters
	Delivered       int `json:"delivered"`
	Completed       int `json:"completed"`
	Routed          int `json:"routed"`
	Stored          int `json:"stored"`
	StalledSends    int `json:"stalled_sends"`
	BusyWorkerTurns int `json:"busy_worker_turns"`

	// Derived from BusyWorkerTurns / turns
	AverageBusyWorkers float64 `json:"average_busy_workers"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
