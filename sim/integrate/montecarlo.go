package integrate

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// MonteCarlo estimates the integral by uniform sampling. Error is the standard
// error of the mean. Useful as an independent cross-check of GaussLegendre and for
// non-polynomial integrands; too noisy to drive allocation decisions.
type MonteCarlo struct {
	Samples int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMonteCarlo returns a MonteCarlo backend drawing from rng.
func NewMonteCarlo(samples int, rng *rand.Rand) *MonteCarlo {
	return &MonteCarlo{Samples: samples, rng: rng}
}

// Integrate implements CubeIntegrator. degree is ignored.
func (m *MonteCarlo) Integrate(f Integrand, _ int) (Result, error) {
	if m.Samples < 2 {
		return Result{}, fmt.Errorf("monte carlo needs at least 2 samples, got %d", m.Samples)
	}
	if m.rng == nil {
		return Result{}, fmt.Errorf("monte carlo integrator has no random source")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Welford running mean and variance.
	mean, m2 := 0.0, 0.0
	for i := 1; i <= m.Samples; i++ {
		v := f(m.rng.Float64(), m.rng.Float64())(m.rng.Float64())
		delta := v - mean
		mean += delta / float64(i)
		m2 += delta * (v - mean)
	}
	variance := m2 / float64(m.Samples-1)
	return Result{
		Value:       mean,
		Error:       math.Sqrt(variance / float64(m.Samples)),
		Evaluations: m.Samples,
	}, nil
}
