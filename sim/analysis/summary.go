package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/fmt-sim/fmt-sim/sim"
)

// HistorySummary describes the per-trial response rates of a set of histories.
type HistorySummary struct {
	Trials    int
	Patients  int // across all trials
	Successes int // across all trials
	MeanRate  float64
	StdDev    float64
	Min       float64
	Q25       float64
	Median    float64
	Q75       float64
	Max       float64
}

// Summarize computes descriptive statistics of the success rate per history.
// Histories without patients are counted but excluded from the rate statistics.
func Summarize(lines []string) (HistorySummary, error) {
	var summary HistorySummary
	rates := make([]float64, 0, len(lines))
	for i, line := range lines {
		s, n, err := ParseHistoryLine(line)
		if err != nil {
			return HistorySummary{}, fmt.Errorf("trial %d: %w", i, err)
		}
		summary.Trials++
		summary.Patients += n
		summary.Successes += s
		if n > 0 {
			rates = append(rates, float64(s)/float64(n))
		}
	}
	if len(rates) == 0 {
		return HistorySummary{}, fmt.Errorf("%w: no histories with patients", sim.ErrEmptyInput)
	}

	data := stats.Float64Data(rates)
	var err error
	if summary.MeanRate, err = data.Mean(); err != nil {
		return HistorySummary{}, err
	}
	if summary.StdDev, err = data.StandardDeviation(); err != nil {
		return HistorySummary{}, err
	}
	if summary.Min, err = data.Min(); err != nil {
		return HistorySummary{}, err
	}
	if summary.Max, err = data.Max(); err != nil {
		return HistorySummary{}, err
	}
	// Quartiles splits the data in halves, so a single rate is its own quartile.
	if len(data) == 1 {
		summary.Q25, summary.Median, summary.Q75 = data[0], data[0], data[0]
		return summary, nil
	}
	q, err := data.Quartiles()
	if err != nil {
		return HistorySummary{}, err
	}
	summary.Q25, summary.Median, summary.Q75 = q.Q1, q.Q2, q.Q3
	return summary, nil
}
