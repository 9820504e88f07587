package memo

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrCompute_ComputesOnce(t *testing.T) {
	c := New[int, string](nil, 0)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute(1, compute)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, Stats{Hits: 2, Misses: 1, Entries: 1}, c.Stats())
}

func TestCache_AdmissionPolicy_SkipsLargeKeys(t *testing.T) {
	// GIVEN a cache that only admits keys below 10
	c := New[int, int](func(k int) bool { return k < 10 }, 0)

	// WHEN values are stored for a small and a large key
	assert.True(t, c.Put(3, 30))
	assert.False(t, c.Put(12, 120))

	// THEN only the small key is retained
	_, ok := c.Get(12)
	assert.False(t, ok)
	v, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 30, v)
	assert.Equal(t, 1, c.Stats().Skipped)
}

func TestCache_Capacity_RefusesNewKeysWhenFull(t *testing.T) {
	c := New[int, int](nil, 2)
	assert.True(t, c.Put(1, 1))
	assert.True(t, c.Put(2, 2))
	assert.False(t, c.Put(3, 3))
	assert.True(t, c.Put(1, 10), "existing keys may be overwritten at capacity")
	assert.Equal(t, 2, c.Len())
}

func TestCache_GetOrCompute_ErrorsAreNotCached(t *testing.T) {
	c := New[string, float64](nil, 0)
	boom := errors.New("boom")

	_, err := c.GetOrCompute("k", func() (float64, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrCompute("k", func() (float64, error) { return 1.5, nil })
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int](nil, 0)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				v, err := c.GetOrCompute(k, func() (int, error) { return k * k, nil })
				if err != nil || v != k*k {
					t.Errorf("key %d: got %d, %v", k, v, err)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, c.Len())
}
