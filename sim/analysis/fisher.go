package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/fmt-sim/fmt-sim/sim/memo"
)

type fisherKey struct {
	treatmentSuccesses, placeboSuccesses, armSize int
}

// FisherExact computes one-sided Fisher exact test p-values for two equally sized
// arms, memoized on the (treatment successes, placebo successes, arm size) triple.
// Safe for concurrent use.
type FisherExact struct {
	cache *memo.Cache[fisherKey, float64]
}

// NewFisherExact creates a FisherExact with an empty cache.
func NewFisherExact() *FisherExact {
	return &FisherExact{cache: memo.New[fisherKey, float64](nil, 0)}
}

// PValue tests the 2x2 table
//
//	treatment: successes  armSize-successes
//	placebo:   successes  armSize-successes
//
// against the alternative that the treatment response rate is greater: the
// hypergeometric probability of at least treatmentSuccesses successes in the
// treatment row given the table margins.
func (f *FisherExact) PValue(treatmentSuccesses, placeboSuccesses, armSize int) (float64, error) {
	if armSize < 0 ||
		treatmentSuccesses < 0 || treatmentSuccesses > armSize ||
		placeboSuccesses < 0 || placeboSuccesses > armSize {
		return 0, fmt.Errorf("invalid fisher table: treatment %d, placebo %d successes of %d per arm",
			treatmentSuccesses, placeboSuccesses, armSize)
	}
	key := fisherKey{treatmentSuccesses, placeboSuccesses, armSize}
	return f.cache.GetOrCompute(key, func() (float64, error) {
		return fisherGreater(treatmentSuccesses, placeboSuccesses, armSize), nil
	})
}

// CacheSize returns the number of memoized tables.
func (f *FisherExact) CacheSize() int {
	return f.cache.Len()
}

func fisherGreater(ts, ps, arm int) float64 {
	n := float64(2 * arm)
	k := ts + ps
	logDenom := combin.LogGeneralizedBinomial(n, float64(k))
	upper := min(arm, k)
	p := 0.0
	for a := ts; a <= upper; a++ {
		logNum := combin.LogGeneralizedBinomial(float64(arm), float64(a)) +
			combin.LogGeneralizedBinomial(float64(arm), float64(k-a))
		p += math.Exp(logNum - logDenom)
	}
	return min(p, 1)
}
