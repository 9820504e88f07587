package allocation

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/fmt-sim/fmt-sim/sim"
)

// UrnConfig parameterizes a Polya urn.
type UrnConfig struct {
	InitialBalls int  // balls per donor at the start of a trial
	Reward       int  // balls added to a donor after its patient succeeds
	Penalty      int  // balls added to every other donor after a failure
	NoReplace    bool // remove the drawn ball from the urn at choice time
}

// Validate rejects negative ball counts.
func (c UrnConfig) Validate() error {
	if c.InitialBalls < 0 || c.Reward < 0 || c.Penalty < 0 {
		return fmt.Errorf("urn ball counts must be non-negative, got initial=%d reward=%d penalty=%d",
			c.InitialBalls, c.Reward, c.Penalty)
	}
	return nil
}

// Urn is a Polya urn allocator: donors are drawn with probability proportional
// to their ball count. Successes reward the chosen donor; failures reward
// every competitor instead.
type Urn struct {
	cfg    UrnConfig
	counts []int
	last   []float64
}

// NewUrn creates an urn holding cfg.InitialBalls balls for each of donors donors.
func NewUrn(donors int, cfg UrnConfig) (*Urn, error) {
	if donors <= 0 {
		return nil, fmt.Errorf("urn needs at least one donor, got %d", donors)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	counts := make([]int, donors)
	for i := range counts {
		counts[i] = cfg.InitialBalls
	}
	return &Urn{cfg: cfg, counts: counts}, nil
}

// Counts returns a copy of the current ball counts.
func (u *Urn) Counts() []int {
	out := make([]int, len(u.counts))
	copy(out, u.counts)
	return out
}

// Total returns the number of balls in the urn.
func (u *Urn) Total() int {
	total := 0
	for _, c := range u.counts {
		total += c
	}
	return total
}

// Choose implements sim.Allocator. An empty urn falls back to a uniform draw.
func (u *Urn) Choose(rng *rand.Rand) (int, error) {
	u.last = make([]float64, len(u.counts))
	for i, c := range u.counts {
		u.last[i] = float64(c)
	}

	total := u.Total()
	var donor int
	if total == 0 {
		logrus.Debugf("urn is empty; drawing donor uniformly from %d", len(u.counts))
		donor = rng.Intn(len(u.counts))
	} else {
		ball := rng.Intn(total)
		for i, c := range u.counts {
			if ball < c {
				donor = i
				break
			}
			ball -= c
		}
	}

	if u.cfg.NoReplace && u.counts[donor] > 0 {
		u.counts[donor]--
	}
	return donor, nil
}

// Update implements sim.Allocator.
func (u *Urn) Update(response sim.Response, donor int) error {
	if donor < 0 || donor >= len(u.counts) {
		return fmt.Errorf("urn update: donor %d outside pool of %d", donor, len(u.counts))
	}
	switch response {
	case sim.Success:
		u.counts[donor] += u.cfg.Reward
	case sim.Failure:
		for i := range u.counts {
			if i != donor {
				u.counts[i] += u.cfg.Penalty
			}
		}
	default:
		return fmt.Errorf("%w: %d", sim.ErrInvalidResponse, int(response))
	}
	return nil
}

// Weights implements sim.WeightReporter: ball counts seen by the last Choose.
func (u *Urn) Weights() []float64 {
	return u.last
}
