package sim

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDonorLine_RoundTrip(t *testing.T) {
	for _, line := range []string{"0", "1", "000", "010", "111", "0110100111", "101010101010101"} {
		q, err := ParseDonorLine(line + "\n")
		require.NoError(t, err)
		assert.Equal(t, line, q.String())
	}
}

func TestParseDonorLine_Values(t *testing.T) {
	q, err := ParseDonorLine("010")
	require.NoError(t, err)
	assert.Equal(t, DonorQualities{Inefficacious, Efficacious, Inefficacious}, q)
	assert.Equal(t, 1, q.EfficaciousCount())
}

func TestParseDonorLine_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"letters", "foo"},
		{"digits out of range", "555"},
		{"mixed", "01a"},
		{"embedded space", "0 1"},
		{"empty", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDonorLine(tt.line)
			assert.ErrorIs(t, err, ErrDonorQuality)
			assert.ErrorIs(t, err, ErrParse, "donor quality errors are parse errors")
		})
	}
}

func TestReadDonorList_SkipsBlankLines(t *testing.T) {
	lists, err := ReadDonorList(strings.NewReader("000\n010\n\n111\n"))
	require.NoError(t, err)
	assert.Equal(t, []DonorQualities{{0, 0, 0}, {0, 1, 0}, {1, 1, 1}}, lists)
}

func TestReadDonorList_PropagatesLineError(t *testing.T) {
	_, err := ReadDonorList(strings.NewReader("000\n0x0\n"))
	assert.ErrorIs(t, err, ErrDonorQuality)
	assert.Contains(t, err.Error(), "0x0")
}

func TestGenerateDonorLists(t *testing.T) {
	tests := []struct {
		name string
		ped  float64
		want string
	}{
		{"all bad", 0.0, "0000000000"},
		{"all good", 1.0, "1111111111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists, err := GenerateDonorLists(10, 50, tt.ped, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			require.Len(t, lists, 50)
			for _, q := range lists {
				assert.Equal(t, tt.want, q.String())
			}
		})
	}
}

func TestGenerateDonorLists_MixedPrevalence(t *testing.T) {
	lists, err := GenerateDonorLists(10, 200, 0.5, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	total := 0
	for _, q := range lists {
		require.Len(t, q, 10)
		total += q.EfficaciousCount()
	}
	assert.InDelta(t, 0.5, float64(total)/2000, 0.05)
}

func TestGenerateDonorLists_InvalidArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := GenerateDonorLists(0, 5, 0.5, rng)
	assert.Error(t, err)
	_, err = GenerateDonorLists(3, 5, 1.5, rng)
	assert.Error(t, err)
}

func TestWriteDonorList_ReadBack(t *testing.T) {
	lists, err := GenerateDonorLists(6, 20, 0.3, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDonorList(&buf, lists))
	back, err := ReadDonorList(&buf)

	require.NoError(t, err)
	assert.Equal(t, lists, back)
}
