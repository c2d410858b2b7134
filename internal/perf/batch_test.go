package perf

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher_Run(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		b, err := NewBatcher[int](10)
		require.NoError(t, err)

		var processed, batches int32
		worker := func(_ context.Context, batch []int, _ int) error {
			atomic.AddInt32(&batches, 1)
			atomic.AddInt32(&processed, int32(len(batch)))
			return nil
		}

		require.NoError(t, b.Run(context.Background(), items, worker))
		assert.Equal(t, int32(25), processed)
		assert.Equal(t, int32(3), batches)
	})

	t.Run("FirstErrorAborts", func(t *testing.T) {
		b, err := NewBatcher[int](10)
		require.NoError(t, err)

		var batches int32
		worker := func(_ context.Context, _ []int, batchIndex int) error {
			atomic.AddInt32(&batches, 1)
			if batchIndex == 1 {
				return errors.New("fail")
			}
			return nil
		}

		err = b.Run(context.Background(), items, worker)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, int32(2), batches, "remaining batches are not run")
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		b, err := NewBatcher[int](5)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		worker := func(_ context.Context, _ []int, batchIndex int) error {
			if batchIndex == 0 {
				cancel()
			}
			return nil
		}

		err = b.Run(ctx, items, worker)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Progress", func(t *testing.T) {
		b, err := NewBatcher[int](10)
		require.NoError(t, err)

		var last BatchProgress
		b.WithProgress(func(p BatchProgress) { last = p })

		worker := func(_ context.Context, _ []int, _ int) error { return nil }
		require.NoError(t, b.Run(context.Background(), items, worker))

		assert.Equal(t, 25, last.ProcessedItems)
		assert.Equal(t, 3, last.DoneBatches)
		assert.InDelta(t, 100.0, last.PercentComplete(), 0.001)
	})

	t.Run("EmptyItemsIsNoop", func(t *testing.T) {
		b := NewBatcherWithDefaults[int]()
		called := false
		err := b.Run(context.Background(), nil, func(_ context.Context, _ []int, _ int) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("NilWorker", func(t *testing.T) {
		b := NewBatcherWithDefaults[int]()
		err := b.Run(context.Background(), items, nil)
		assert.ErrorIs(t, err, ErrNilWorker)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewBatcher[int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewBatcher[int](MaxBatchSize + 1)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestRunBatches(t *testing.T) {
	items := []string{"a", "b", "c"}
	var got []string
	err := RunBatches(context.Background(), items, func(_ context.Context, batch []string, _ int) error {
		got = append(got, batch...)
		return nil
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
