package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmt-sim/fmt-sim/sim"
)

func TestBayesian_UpdateKeepsObservationTotal(t *testing.T) {
	// GIVEN a fresh allocator over three donors
	b, err := NewBayesian(3, NewPosterior(PosteriorConfig{}))
	require.NoError(t, err)
	assert.Equal(t, State{{0, 0}, {0, 0}, {0, 0}}, b.State())

	// WHEN five responses are recorded
	responses := []sim.Response{sim.Success, sim.Failure, sim.Success, sim.Success, sim.Failure}
	for i, r := range responses {
		donor, err := b.Choose(nil)
		require.NoError(t, err)
		require.NoError(t, b.Update(r, donor))
		// THEN the tallies always sum to the number of patients so far
		assert.Equal(t, i+1, b.State().Observations())
	}
}

func TestBayesian_FirstChoiceIsLowestIndex(t *testing.T) {
	b, err := NewBayesian(4, NewPosterior(PosteriorConfig{}))
	require.NoError(t, err)

	donor, err := b.Choose(nil)

	require.NoError(t, err)
	assert.Equal(t, 0, donor)
	require.Len(t, b.Weights(), 4)
	for _, w := range b.Weights() {
		assert.InDelta(t, 0.625, w, 1e-12)
	}
}

func TestBayesian_SticksWithSuccessfulDonor(t *testing.T) {
	// GIVEN donor 0 has one success and the others are untried
	b, err := NewBayesian(3, NewPosterior(PosteriorConfig{}))
	require.NoError(t, err)
	require.NoError(t, b.Update(sim.Success, 0))

	// WHEN the next donor is chosen
	donor, err := b.Choose(nil)

	// THEN donor 0 is preferred (0.7556 vs 0.7259)
	require.NoError(t, err)
	assert.Equal(t, 0, donor)
	assert.InDelta(t, 0.7555555555555555, b.Weights()[0], 1e-12)
	assert.InDelta(t, 0.7259259259259258, b.Weights()[1], 1e-12)
}

func TestBayesian_Update_Errors(t *testing.T) {
	b, err := NewBayesian(2, NewPosterior(PosteriorConfig{}))
	require.NoError(t, err)

	assert.ErrorIs(t, b.Update(sim.Response(-1), 0), sim.ErrInvalidResponse)
	assert.Error(t, b.Update(sim.Success, 2))
	assert.Equal(t, 0, b.State().Observations())
}

func TestNewBayesian_InvalidArguments(t *testing.T) {
	_, err := NewBayesian(0, NewPosterior(PosteriorConfig{}))
	assert.Error(t, err)
	_, err = NewBayesian(3, nil)
	assert.Error(t, err)
}
