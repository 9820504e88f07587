package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidence is the confidence level of reported power intervals.
const DefaultConfidence = 0.95

// ClopperPearson returns the exact binomial confidence interval for successes out
// of total trials. The lower bound is 0 when successes is 0 and the upper bound is
// 1 when successes equals total; otherwise the bounds are beta quantiles.
func ClopperPearson(successes, total int, confidence float64) (lower, upper float64, err error) {
	if total <= 0 || successes < 0 || successes > total {
		return 0, 0, fmt.Errorf("clopper-pearson needs 0 <= successes <= total and total > 0, got %d of %d", successes, total)
	}
	if !(confidence > 0 && confidence < 1) {
		return 0, 0, fmt.Errorf("confidence must be in (0, 1), got %f", confidence)
	}
	alpha := 1 - confidence
	x, n := float64(successes), float64(total)

	lower = 0
	if successes > 0 {
		lower = distuv.Beta{Alpha: x, Beta: n - x + 1}.Quantile(alpha / 2)
	}
	upper = 1
	if successes < total {
		upper = distuv.Beta{Alpha: x + 1, Beta: n - x}.Quantile(1 - alpha/2)
	}
	return lower, upper, nil
}
