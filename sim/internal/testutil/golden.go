// Package testutil provides shared test infrastructure for fmt-sim.
// It holds the golden dataset types and assertion helpers used by the
// sim/allocation, sim/analysis and cmd test packages.
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
	Posterior []GoldenPosteriorCase `json:"posterior"`
	Fisher    []GoldenFisherCase    `json:"fisher"`
	Histories []GoldenHistoryCase   `json:"histories"`
}

// GoldenPosteriorCase is a Bayesian state with its marginal likelihood, per-donor
// response probabilities and the donor the allocator must choose.
type GoldenPosteriorCase struct {
	Name          string    `json:"name"`
	State         [][2]int  `json:"state"` // (successes, failures) per donor
	Q             float64   `json:"q"`
	Probabilities []float64 `json:"probabilities"`
	Choice        int       `json:"choice"`
}

// GoldenFisherCase is a one-sided Fisher exact test p-value.
type GoldenFisherCase struct {
	TreatmentSuccesses int     `json:"treatment_successes"`
	PlaceboSuccesses   int     `json:"placebo_successes"`
	ArmSize            int     `json:"arm_size"`
	PValue             float64 `json:"p_value"`
}

// GoldenHistoryCase is a trial whose history is fully determined by its rates.
type GoldenHistoryCase struct {
	Policy          string  `json:"policy"`
	Donors          string  `json:"donors"`
	NDonors         int     `json:"n_donors"`
	Patients        int     `json:"patients"`
	PlaceboRate     float64 `json:"placebo_rate"`
	EfficaciousRate float64 `json:"efficacious_rate"`
	History         string  `json:"history"`
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
