package allocation

import (
	"fmt"
	"math/rand"

	"github.com/fmt-sim/fmt-sim/sim"
)

// Block assigns patients to donors cyclically: patient k goes to donor k mod n.
type Block struct {
	donors  int
	counter int
}

// NewBlock creates a Block allocator over donors donors.
func NewBlock(donors int) (*Block, error) {
	if donors <= 0 {
		return nil, fmt.Errorf("block allocator needs at least one donor, got %d", donors)
	}
	return &Block{donors: donors}, nil
}

// Choose implements sim.Allocator.
func (b *Block) Choose(_ *rand.Rand) (int, error) {
	donor := b.counter % b.donors
	b.counter++
	return donor, nil
}

// Update implements sim.Allocator. Block assignment ignores responses.
func (b *Block) Update(response sim.Response, _ int) error {
	if !response.Valid() {
		return fmt.Errorf("%w: %d", sim.ErrInvalidResponse, int(response))
	}
	return nil
}

// Random assigns each patient to a uniformly random donor.
type Random struct {
	donors int
}

// NewRandom creates a Random allocator over donors donors.
func NewRandom(donors int) (*Random, error) {
	if donors <= 0 {
		return nil, fmt.Errorf("random allocator needs at least one donor, got %d", donors)
	}
	return &Random{donors: donors}, nil
}

// Choose implements sim.Allocator.
func (r *Random) Choose(rng *rand.Rand) (int, error) {
	return rng.Intn(r.donors), nil
}

// Update implements sim.Allocator. Random assignment ignores responses.
func (r *Random) Update(response sim.Response, _ int) error {
	if !response.Valid() {
		return fmt.Errorf("%w: %d", sim.ErrInvalidResponse, int(response))
	}
	return nil
}
