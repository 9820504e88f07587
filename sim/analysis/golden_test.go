package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fmt-sim/fmt-sim/sim/internal/testutil"
)

func TestFisherExact_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	f := NewFisherExact()

	for _, tc := range dataset.Fisher {
		name := fmt.Sprintf("%d/%d of %d", tc.TreatmentSuccesses, tc.PlaceboSuccesses, tc.ArmSize)
		t.Run(name, func(t *testing.T) {
			p, err := f.PValue(tc.TreatmentSuccesses, tc.PlaceboSuccesses, tc.ArmSize)
			require.NoError(t, err)
			testutil.AssertFloat64Equal(t, "p_value", tc.PValue, p, 1e-9)
		})
	}
	require.Equal(t, len(dataset.Fisher), f.CacheSize())
}
