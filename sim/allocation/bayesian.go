package allocation

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/fmt-sim/fmt-sim/sim"
)

// Bayesian is the myopic Bayesian allocator: each patient goes to the donor with
// the highest posterior probability of success, ignoring the information value of
// exploring other donors.
type Bayesian struct {
	posterior *Posterior
	state     State
	last      []float64
}

// NewBayesian creates a Bayesian allocator over donors donors with no observations.
func NewBayesian(donors int, posterior *Posterior) (*Bayesian, error) {
	if donors <= 0 {
		return nil, fmt.Errorf("bayesian allocator needs at least one donor, got %d", donors)
	}
	if posterior == nil {
		return nil, fmt.Errorf("bayesian allocator needs a posterior model")
	}
	return &Bayesian{posterior: posterior, state: make(State, donors)}, nil
}

// State returns a copy of the per-donor tallies.
func (b *Bayesian) State() State {
	return slices.Clone(b.state)
}

// Choose implements sim.Allocator. Ties go to the lowest donor index.
func (b *Bayesian) Choose(_ *rand.Rand) (int, error) {
	probs, err := b.posterior.Probabilities(b.state)
	if err != nil {
		return 0, err
	}
	b.last = probs
	return argmax(probs), nil
}

// Update implements sim.Allocator.
func (b *Bayesian) Update(response sim.Response, donor int) error {
	if !response.Valid() {
		return fmt.Errorf("%w: %d", sim.ErrInvalidResponse, int(response))
	}
	if donor < 0 || donor >= len(b.state) {
		return fmt.Errorf("bayesian update: donor %d outside pool of %d", donor, len(b.state))
	}
	b.state = b.state.With(donor, response)
	return nil
}

// Weights implements sim.WeightReporter: posterior probabilities from the last Choose.
func (b *Bayesian) Weights() []float64 {
	return b.last
}

// Choice returns the donor a fresh allocator in state would choose.
func Choice(posterior *Posterior, state State) (int, error) {
	probs, err := posterior.Probabilities(state)
	if err != nil {
		return 0, err
	}
	return argmax(probs), nil
}

// argmax returns the index of the first maximum; 0 for an empty slice.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
