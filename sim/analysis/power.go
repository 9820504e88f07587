package analysis

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/fmt-sim/fmt-sim/sim"
)

// DefaultSignificance is the p-value below which a trial counts as significant.
const DefaultSignificance = 0.05

// PowerResult is the estimated power of a trial design: the proportion of trials
// with a significant treatment effect and its exact confidence interval.
type PowerResult struct {
	Lower       float64
	Estimate    float64
	Upper       float64
	Significant int // trials with p < significance level
	Trials      int
}

// String renders the power report line: lower, estimate and upper, tab-separated.
func (r PowerResult) String() string {
	return fmt.Sprintf("%g\t%g\t%g", r.Lower, r.Estimate, r.Upper)
}

// WriteReport writes the power report line with a trailing newline.
func (r PowerResult) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.String())
	return err
}

// AnalyzerConfig parameterizes an Analyzer. Zero fields take defaults.
type AnalyzerConfig struct {
	Confidence   float64 // interval confidence level (default 0.95)
	Significance float64 // per-trial significance threshold (default 0.05)
}

// Analyzer computes power over paired histories. It owns the Fisher test cache and
// may be reused across calls.
type Analyzer struct {
	confidence   float64
	significance float64
	fisher       *FisherExact
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.Confidence == 0 {
		cfg.Confidence = DefaultConfidence
	}
	if cfg.Significance == 0 {
		cfg.Significance = DefaultSignificance
	}
	return &Analyzer{
		confidence:   cfg.Confidence,
		significance: cfg.Significance,
		fisher:       NewFisherExact(),
	}
}

// Fisher exposes the analyzer's memoized Fisher test.
func (a *Analyzer) Fisher() *FisherExact {
	return a.fisher
}

// Power pairs treatment and placebo histories by position, runs a one-sided
// Fisher exact test per pair and returns the Clopper-Pearson interval of the
// proportion of significant pairs.
func (a *Analyzer) Power(treatment, placebo []string) (PowerResult, error) {
	if len(treatment) != len(placebo) {
		return PowerResult{}, fmt.Errorf("%w: %d treatment histories but %d placebo histories",
			sim.ErrArmSizeMismatch, len(treatment), len(placebo))
	}
	if len(treatment) == 0 {
		return PowerResult{}, fmt.Errorf("%w: no trial pairs", sim.ErrEmptyInput)
	}

	significant := 0
	for i := range treatment {
		ts, tn, err := ParseHistoryLine(treatment[i])
		if err != nil {
			return PowerResult{}, fmt.Errorf("treatment trial %d: %w", i, err)
		}
		ps, pn, err := ParseHistoryLine(placebo[i])
		if err != nil {
			return PowerResult{}, fmt.Errorf("placebo trial %d: %w", i, err)
		}
		if tn != pn {
			return PowerResult{}, fmt.Errorf("%w: trial %d has %d treatment and %d placebo patients",
				sim.ErrArmSizeMismatch, i, tn, pn)
		}
		p, err := a.fisher.PValue(ts, ps, tn)
		if err != nil {
			return PowerResult{}, fmt.Errorf("trial %d: %w", i, err)
		}
		if p < a.significance {
			significant++
		}
	}

	trials := len(treatment)
	lower, upper, err := ClopperPearson(significant, trials, a.confidence)
	if err != nil {
		return PowerResult{}, err
	}
	logrus.Debugf("power: %d of %d trials significant; %d fisher tables cached", significant, trials, a.fisher.CacheSize())
	return PowerResult{
		Lower:       lower,
		Estimate:    float64(significant) / float64(trials),
		Upper:       upper,
		Significant: significant,
		Trials:      trials,
	}, nil
}
