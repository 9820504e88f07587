package trace

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// TraceSummary aggregates statistics from an AllocationTrace.
type TraceSummary struct {
	TotalAllocations    int
	Trials              int
	SuccessCount        int
	EfficaciousCount    int     // allocations to efficacious donors
	EfficaciousFraction float64 // EfficaciousCount / TotalAllocations
	MeanTrialSuccess    float64 // mean over trials of the per-trial success rate
	StdDevTrialSuccess  float64
	MeanRegret          float64
	MaxRegret           float64
	DonorDistribution   map[int]int // donor index → allocations
}

// Summarize computes aggregate statistics from an AllocationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(at *AllocationTrace) *TraceSummary {
	summary := &TraceSummary{
		DonorDistribution: make(map[int]int),
	}
	if at == nil || len(at.Allocations) == 0 {
		return summary
	}

	type tally struct{ successes, total int }
	perTrial := make(map[int]*tally)
	totalRegret := 0.0
	for _, r := range at.Allocations {
		summary.TotalAllocations++
		summary.DonorDistribution[r.Donor]++
		if r.Success {
			summary.SuccessCount++
		}
		if r.Efficacious {
			summary.EfficaciousCount++
		}
		regret := r.Regret()
		totalRegret += regret
		if regret > summary.MaxRegret {
			summary.MaxRegret = regret
		}
		t, ok := perTrial[r.Trial]
		if !ok {
			t = &tally{}
			perTrial[r.Trial] = t
		}
		t.total++
		if r.Success {
			t.successes++
		}
	}

	summary.Trials = len(perTrial)
	summary.EfficaciousFraction = float64(summary.EfficaciousCount) / float64(summary.TotalAllocations)
	summary.MeanRegret = totalRegret / float64(summary.TotalAllocations)

	trials := make([]int, 0, len(perTrial))
	for id := range perTrial {
		trials = append(trials, id)
	}
	sort.Ints(trials)
	rates := make([]float64, len(trials))
	for i, id := range trials {
		rates[i] = float64(perTrial[id].successes) / float64(perTrial[id].total)
	}
	// Both only fail on empty input, which is excluded above.
	summary.MeanTrialSuccess, _ = stats.Mean(rates)
	summary.StdDevTrialSuccess, _ = stats.StandardDeviation(rates)

	return summary
}
