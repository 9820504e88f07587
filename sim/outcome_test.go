package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOutcome(t *testing.T) {
	tests := []struct {
		donor    int
		response Response
		want     string
	}{
		{0, Failure, "Af"},
		{1, Success, "Bs"},
		{14, Success, "Os"},
		{PlaceboDonor, Failure, "Pf"},
	}
	for _, tt := range tests {
		got, err := EncodeOutcome(tt.donor, tt.response)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestEncodeOutcome_Errors(t *testing.T) {
	_, err := EncodeOutcome(0, Response(3))
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = EncodeOutcome(-1, Success)
	assert.Error(t, err)

	_, err = EncodeOutcome(PlaceboDonor+1, Success)
	assert.Error(t, err)
}

func TestDonorSymbol_Inverse(t *testing.T) {
	for i := 0; i <= PlaceboDonor; i++ {
		sym, err := DonorSymbol(i)
		require.NoError(t, err)
		back, ok := DonorIndex(sym)
		require.True(t, ok)
		assert.Equal(t, i, back)
	}
	_, ok := DonorIndex('Z')
	assert.False(t, ok)
}

func TestParseHistory(t *testing.T) {
	h, err := ParseHistory("AsBfCs\n")
	require.NoError(t, err)
	assert.Equal(t, History{{0, Success}, {1, Failure}, {2, Success}}, h)
	assert.Equal(t, 2, h.Successes())

	line, err := h.Encode()
	require.NoError(t, err)
	assert.Equal(t, "AsBfCs", line)
}

func TestParseHistory_Placebo(t *testing.T) {
	h, err := ParseHistory("PsPf")
	require.NoError(t, err)
	assert.Equal(t, History{{PlaceboDonor, Success}, {PlaceboDonor, Failure}}, h)
}

func TestParseHistory_Empty(t *testing.T) {
	h, err := ParseHistory("")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestParseHistory_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"wrong response marker", "AsBsCx"},
		{"wrong donor id", "AsBs@s"},
		{"lowercase donor", "asBs"},
		{"odd length", "AsB"},
		{"swapped order", "sA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHistory(tt.line)
			assert.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}
