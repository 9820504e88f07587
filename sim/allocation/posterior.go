package allocation

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fmt-sim/fmt-sim/sim"
	"github.com/fmt-sim/fmt-sim/sim/integrate"
	"github.com/fmt-sim/fmt-sim/sim/memo"
)

// Tally is one donor's observed responses.
type Tally struct {
	Successes int
	Failures  int
}

// State is the Bayesian allocation state: one Tally per donor.
type State []Tally

// Observations returns the total number of responses across donors.
func (s State) Observations() int {
	n := 0
	for _, t := range s {
		n += t.Successes + t.Failures
	}
	return n
}

// With returns a copy of s with one more response recorded for donor i.
func (s State) With(i int, response sim.Response) State {
	out := slices.Clone(s)
	if response == sim.Success {
		out[i].Successes++
	} else {
		out[i].Failures++
	}
	return out
}

// WithSuccess is With(i, sim.Success).
func (s State) WithSuccess(i int) State { return s.With(i, sim.Success) }

// WithFailure is With(i, sim.Failure).
func (s State) WithFailure(i int) State { return s.With(i, sim.Failure) }

const (
	// DefaultRelTol is the largest accepted integration error relative to the value.
	DefaultRelTol = 1e-8
	// DefaultCacheThreshold admits states with fewer total observations into the cache.
	DefaultCacheThreshold = 12
)

// PosteriorConfig parameterizes a Posterior. Zero fields take defaults.
type PosteriorConfig struct {
	Integrator     integrate.CubeIntegrator
	RelTol         float64
	CacheThreshold int
}

// stateKey identifies a state up to donor order.
type stateKey struct {
	observations int
	tallies      string
}

// Posterior is the fixed three-parameter donor-quality model.
//
// Latent parameters, each uniform on [0,1]: γ (response probability from an
// efficacious donor), β (response probability from an inefficacious donor) and φ
// (probability a donor is efficacious). With ε = γ + β − γβ, a state's marginal
// likelihood is
//
//	q(state) = ∫∫∫ Π_i [φ ε^s_i (1−ε)^f_i + (1−φ) β^s_i (1−β)^f_i] dγ dβ dφ
//
// StateQ results are memoized for states with fewer than CacheThreshold
// observations. A Posterior may be shared by allocators running in parallel.
type Posterior struct {
	integrator integrate.CubeIntegrator
	relTol     float64
	threshold  int
	cache      *memo.Cache[stateKey, integrate.Result]
}

// NewPosterior creates a Posterior.
func NewPosterior(cfg PosteriorConfig) *Posterior {
	if cfg.Integrator == nil {
		cfg.Integrator = integrate.NewGaussLegendre()
	}
	if cfg.RelTol <= 0 {
		cfg.RelTol = DefaultRelTol
	}
	if cfg.CacheThreshold < 0 {
		cfg.CacheThreshold = 0
	} else if cfg.CacheThreshold == 0 {
		cfg.CacheThreshold = DefaultCacheThreshold
	}
	threshold := cfg.CacheThreshold
	return &Posterior{
		integrator: cfg.Integrator,
		relTol:     cfg.RelTol,
		threshold:  threshold,
		cache: memo.New[stateKey, integrate.Result](func(k stateKey) bool {
			return k.observations < threshold
		}, 0),
	}
}

// CacheStats reports memo cache activity.
func (p *Posterior) CacheStats() memo.Stats {
	return p.cache.Stats()
}

// StateQ returns the marginal likelihood of state and the integrator's error
// estimate. q is invariant under donor permutation, so the cache key is the
// sorted tally multiset.
func (p *Posterior) StateQ(state State) (value, errEstimate float64, err error) {
	// Integrating the sorted state makes permuted states bit-identical, so exact
	// ties between equivalent donors survive to argmax.
	sorted, key := canonicalize(state)
	res, err := p.cache.GetOrCompute(key, func() (integrate.Result, error) {
		return p.integrate(sorted)
	})
	if err != nil {
		return 0, 0, err
	}
	return res.Value, res.Error, nil
}

func (p *Posterior) integrate(state State) (integrate.Result, error) {
	n := len(state)
	observations := state.Observations()
	// Per-axis degree: φ appears once per donor, γ and β at most once per observation.
	degree := max(n, observations)

	integrand := func(gamma, beta float64) func(float64) float64 {
		eps := gamma + beta - gamma*beta
		eff := make([]float64, n)
		ineff := make([]float64, n)
		for i, t := range state {
			s, f := float64(t.Successes), float64(t.Failures)
			eff[i] = math.Pow(eps, s) * math.Pow(1-eps, f)
			ineff[i] = math.Pow(beta, s) * math.Pow(1-beta, f)
		}
		return func(phi float64) float64 {
			product := 1.0
			for i := range eff {
				product *= phi*eff[i] + (1-phi)*ineff[i]
			}
			return product
		}
	}

	res, err := p.integrator.Integrate(integrand, degree)
	if err != nil {
		return res, fmt.Errorf("%w: %w", sim.ErrNumericIntegration, err)
	}
	if res.Error > p.relTol*math.Abs(res.Value) {
		return res, fmt.Errorf("%w: state %v: error estimate %g exceeds %g relative to value %g",
			sim.ErrNumericIntegration, state, res.Error, p.relTol, res.Value)
	}
	return res, nil
}

// Probabilities returns, for each donor i, q(state with one more success for i)
// divided by q(state): the posterior probability that donor i's next patient
// responds.
func (p *Posterior) Probabilities(state State) ([]float64, error) {
	q0, _, err := p.StateQ(state)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(state))
	for i := range state {
		qs, _, err := p.StateQ(state.WithSuccess(i))
		if err != nil {
			return nil, err
		}
		probs[i] = qs / q0
	}
	return probs, nil
}

func canonicalize(state State) (State, stateKey) {
	sorted := slices.Clone(state)
	slices.SortFunc(sorted, func(a, b Tally) int {
		if a.Successes != b.Successes {
			return a.Successes - b.Successes
		}
		return a.Failures - b.Failures
	})
	var b strings.Builder
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(t.Successes))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(t.Failures))
	}
	return sorted, stateKey{observations: state.Observations(), tallies: b.String()}
}
