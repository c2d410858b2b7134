package perf

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoizer_Get(t *testing.T) {
	t.Run("CachesResults", func(t *testing.T) {
		var computes int32
		m, err := NewMemoizer(func(k string) (string, error) {
			atomic.AddInt32(&computes, 1)
			return k + "!", nil
		}, 10)
		require.NoError(t, err)

		v, err := m.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "a!", v)

		v, err = m.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "a!", v)
		assert.Equal(t, int32(1), atomic.LoadInt32(&computes))

		stats := m.Stats()
		assert.Equal(t, int64(1), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.Equal(t, 1, stats.Entries)
	})

	t.Run("FIFOEviction", func(t *testing.T) {
		m, err := NewMemoizer(func(k string) (string, error) { return k, nil }, 2)
		require.NoError(t, err)

		_, _ = m.Get("a")
		_, _ = m.Get("b")

		// Reading "a" must not protect it: eviction is FIFO, not LRU.
		_, _ = m.Get("a")

		_, _ = m.Get("c")

		_, ok := m.Peek("a")
		assert.False(t, ok, "oldest-inserted entry is evicted first")
		_, ok = m.Peek("b")
		assert.True(t, ok)
		_, ok = m.Peek("c")
		assert.True(t, ok)
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		var computes int32
		m, err := NewMemoizer(func(k string) (int, error) {
			atomic.AddInt32(&computes, 1)
			return 0, errors.New("boom")
		}, 4)
		require.NoError(t, err)

		_, err = m.Get("x")
		assert.Error(t, err)
		_, err = m.Get("x")
		assert.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&computes))

		stats := m.Stats()
		assert.Equal(t, 0, stats.Entries)
	})

	t.Run("Clear", func(t *testing.T) {
		m, err := NewMemoizer(func(k int) (int, error) { return k * 2, nil }, 4)
		require.NoError(t, err)

		_, _ = m.Get(1)
		_, _ = m.Get(2)
		m.Clear()

		assert.Equal(t, 0, m.Stats().Entries)
		_, ok := m.Peek(1)
		assert.False(t, ok)
	})

	t.Run("ConcurrentSameKeyComputesOnce", func(t *testing.T) {
		var computes int32
		block := make(chan struct{})
		m, err := NewMemoizer(func(k string) (string, error) {
			atomic.AddInt32(&computes, 1)
			<-block
			return k, nil
		}, 4)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = m.Get("shared")
			}()
		}
		close(block)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&computes), "singleflight collapses concurrent computes")
	})

	t.Run("InvalidSize", func(t *testing.T) {
		_, err := NewMemoizer(func(k int) (int, error) { return k, nil }, 0)
		assert.ErrorIs(t, err, ErrInvalidCacheSize)
	})
}

func TestMemoizer_DistinctKeysNeverShareAFlight(t *testing.T) {
	// Both keys render identically under fmt %v ("{x y }"), so a flight
	// keyed on the rendering would hand one key the other's result. Each
	// compute blocks until both have started, proving two flights run.
	type pair struct{ A, B string }
	k1 := pair{A: "x y", B: ""}
	k2 := pair{A: "x", B: "y "}

	var entered sync.WaitGroup
	entered.Add(2)

	m, err := NewMemoizer(func(k pair) (string, error) {
		entered.Done()
		entered.Wait()
		return k.A + "|" + k.B, nil
	}, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)
	for i, k := range []pair{k1, k2} {
		wg.Add(1)
		go func(i int, k pair) {
			defer wg.Done()
			results[i], errs[i] = m.Get(k)
		}(i, k)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "x y|", results[0])
	assert.Equal(t, "x|y ", results[1])
}
