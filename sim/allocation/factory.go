// Package allocation implements the donor allocation policies behind sim.Allocator:
// block, uniform random, Polya urn and myopic Bayesian.
package allocation

import (
	"fmt"
	"sort"

	"github.com/fmt-sim/fmt-sim/sim"
)

// Policy names accepted by NewFactory.
const (
	PolicyBlock    = "block"
	PolicyRandom   = "random"
	PolicyUrn      = "urn"
	PolicyBayesian = "bayesian"
)

var validPolicies = map[string]bool{
	PolicyBlock:    true,
	PolicyRandom:   true,
	PolicyUrn:      true,
	PolicyBayesian: true,
}

// IsValidPolicy reports whether name is a known allocation policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// ValidPolicyNames returns the known policy names, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config selects and parameterizes a policy.
type Config struct {
	Policy    string
	Urn       UrnConfig  // used by PolicyUrn
	Posterior *Posterior // used by PolicyBayesian; nil builds a default Posterior
}

// NewFactory returns a sim.AllocatorFactory building fresh per-trial allocators.
// Bayesian allocators built by one factory share a single Posterior and its cache.
func NewFactory(cfg Config) (sim.AllocatorFactory, error) {
	switch cfg.Policy {
	case PolicyBlock:
		return func(donors int) (sim.Allocator, error) { return asAllocator[*Block](NewBlock(donors)) }, nil
	case PolicyRandom:
		return func(donors int) (sim.Allocator, error) { return asAllocator[*Random](NewRandom(donors)) }, nil
	case PolicyUrn:
		if err := cfg.Urn.Validate(); err != nil {
			return nil, err
		}
		urn := cfg.Urn
		return func(donors int) (sim.Allocator, error) { return asAllocator[*Urn](NewUrn(donors, urn)) }, nil
	case PolicyBayesian:
		posterior := cfg.Posterior
		if posterior == nil {
			posterior = NewPosterior(PosteriorConfig{})
		}
		return func(donors int) (sim.Allocator, error) { return asAllocator[*Bayesian](NewBayesian(donors, posterior)) }, nil
	default:
		return nil, fmt.Errorf("unknown allocation policy %q; valid: %v", cfg.Policy, ValidPolicyNames())
	}
}

// asAllocator converts a typed constructor result without producing a non-nil
// interface holding a nil pointer.
func asAllocator[A sim.Allocator](a A, err error) (sim.Allocator, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
