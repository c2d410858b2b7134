package perf

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Batch processing configuration bounds.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 100

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 10000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 10000")
	ErrNilWorker        = errors.New("batch worker cannot be nil")
)

// BatchWorker processes a single batch of items. It receives the batch slice
// and the 0-based batch index.
type BatchWorker[T any] func(ctx context.Context, batch []T, batchIndex int) error

// BatchProgress tracks how far a batch run has advanced.
type BatchProgress struct {
	TotalItems     int
	ProcessedItems int
	TotalBatches   int
	DoneBatches    int
}

// PercentComplete returns completion as a percentage in [0, 100].
func (p BatchProgress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / float64(p.TotalItems) * 100
}

// ProgressFunc is an optional callback invoked after each batch completes.
type ProgressFunc func(progress BatchProgress)

// Batcher splits large slices into fixed-size batches and runs them
// sequentially, yielding the scheduler between batches so a long run never
// monopolizes the thread that drives the grid.
type Batcher[T any] struct {
	batchSize  int
	onProgress ProgressFunc

	mu sync.Mutex
}

// NewBatcher creates a batcher with the given batch size.
func NewBatcher[T any](batchSize int) (*Batcher[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Batcher[T]{batchSize: batchSize}, nil
}

// NewBatcherWithDefaults creates a batcher with the default batch size.
func NewBatcherWithDefaults[T any]() *Batcher[T] {
	return &Batcher[T]{batchSize: DefaultBatchSize}
}

// WithProgress sets a progress callback and returns the batcher.
func (b *Batcher[T]) WithProgress(fn ProgressFunc) *Batcher[T] {
	b.onProgress = fn
	return b
}

// BatchSize returns the configured batch size.
func (b *Batcher[T]) BatchSize() int {
	return b.batchSize
}

// Run processes items batch by batch. The first worker error aborts the
// remaining batches; context cancellation is honored between batches.
// An empty items slice is a no-op.
func (b *Batcher[T]) Run(ctx context.Context, items []T, worker BatchWorker[T]) error {
	if worker == nil {
		return ErrNilWorker
	}
	if len(items) == 0 {
		return nil
	}

	totalBatches := (len(items) + b.batchSize - 1) / b.batchSize
	progress := BatchProgress{TotalItems: len(items), TotalBatches: totalBatches}

	for batchIndex := range totalBatches {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := batchIndex * b.batchSize
		end := min(start+b.batchSize, len(items))
		batch := items[start:end]

		if err := worker(ctx, batch, batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}

		b.mu.Lock()
		progress.ProcessedItems += len(batch)
		progress.DoneBatches++
		snapshot := progress
		b.mu.Unlock()

		if b.onProgress != nil {
			b.onProgress(snapshot)
		}

		// Yield between batches so other work interleaves with a long run.
		if batchIndex < totalBatches-1 {
			runtime.Gosched()
		}
	}

	return nil
}

// RunBatches is a convenience wrapper around a default-size Batcher.
func RunBatches[T any](ctx context.Context, items []T, worker BatchWorker[T], batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	b, err := NewBatcher[T](batchSize)
	if err != nil {
		return err
	}
	return b.Run(ctx, items, worker)
}
