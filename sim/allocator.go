package sim

import "math/rand"

// Allocator assigns each incoming patient to a donor and learns from the response.
// Implementations live in sim/allocation. An Allocator holds the state of a single
// trial and is not safe for concurrent use.
type Allocator interface {
	// Choose returns the donor index for the next patient.
	Choose(rng *rand.Rand) (int, error)
	// Update records the response observed for the donor returned by Choose.
	Update(response Response, donor int) error
}

// WeightReporter is implemented by allocators that can explain their last choice,
// e.g. urn ball counts or posterior success probabilities. Used for tracing only.
type WeightReporter interface {
	Weights() []float64
}

// AllocatorFactory builds a fresh Allocator for a trial with the given donor count.
type AllocatorFactory func(donors int) (Allocator, error)
