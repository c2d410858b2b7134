package perf

import (
	"container/heap"
	"sort"
)

// Chunked sort tuning.
const (
	// ChunkedSortThreshold is the slice length above which SortChunked
	// switches from a direct stable sort to chunked sort + k-way merge.
	ChunkedSortThreshold = 10000

	// SortChunkSize is the fixed chunk length for the chunked path.
	SortChunkSize = 2000
)

// LessFunc reports whether a sorts before b.
type LessFunc[T any] func(a, b T) bool

// SortChunked stably sorts items in place using less.
//
// Below ChunkedSortThreshold it performs a direct stable sort. Above it, the
// slice is split into fixed-size chunks, each chunk is stably sorted, and the
// chunks are k-way merged with a heap. Ties between chunks resolve to the
// earlier chunk, so overall stability is preserved.
func SortChunked[T any](items []T, less LessFunc[T]) {
	if len(items) < 2 || less == nil {
		return
	}

	if len(items) <= ChunkedSortThreshold {
		sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
		return
	}

	chunks := make([][]T, 0, (len(items)+SortChunkSize-1)/SortChunkSize)
	for start := 0; start < len(items); start += SortChunkSize {
		end := min(start+SortChunkSize, len(items))
		chunk := make([]T, end-start)
		copy(chunk, items[start:end])
		sort.SliceStable(chunk, func(i, j int) bool { return less(chunk[i], chunk[j]) })
		chunks = append(chunks, chunk)
	}

	merged := mergeChunks(chunks, less)
	copy(items, merged)
}

// mergeHead is one heap entry: the current head of a sorted chunk.
type mergeHead[T any] struct {
	value T
	chunk int
	pos   int
}

// mergeHeap orders heads by less, breaking ties on chunk index so that
// earlier chunks win and the merge stays stable.
type mergeHeap[T any] struct {
	heads []mergeHead[T]
	less  LessFunc[T]
}

func (h *mergeHeap[T]) Len() int { return len(h.heads) }

func (h *mergeHeap[T]) Less(i, j int) bool {
	a, b := h.heads[i], h.heads[j]
	if h.less(a.value, b.value) {
		return true
	}
	if h.less(b.value, a.value) {
		return false
	}
	return a.chunk < b.chunk
}

func (h *mergeHeap[T]) Swap(i, j int) { h.heads[i], h.heads[j] = h.heads[j], h.heads[i] }

func (h *mergeHeap[T]) Push(x any) { h.heads = append(h.heads, x.(mergeHead[T])) }

func (h *mergeHeap[T]) Pop() any {
	old := h.heads
	n := len(old)
	item := old[n-1]
	h.heads = old[:n-1]
	return item
}

// mergeChunks k-way merges pre-sorted chunks into one sorted slice.
func mergeChunks[T any](chunks [][]T, less LessFunc[T]) []T {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	h := &mergeHeap[T]{less: less, heads: make([]mergeHead[T], 0, len(chunks))}
	for i, c := range chunks {
		if len(c) > 0 {
			h.heads = append(h.heads, mergeHead[T]{value: c[0], chunk: i, pos: 0})
		}
	}
	heap.Init(h)

	out := make([]T, 0, total)
	for h.Len() > 0 {
		head := heap.Pop(h).(mergeHead[T])
		out = append(out, head.value)

		next := head.pos + 1
		if next < len(chunks[head.chunk]) {
			heap.Push(h, mergeHead[T]{value: chunks[head.chunk][next], chunk: head.chunk, pos: next})
		}
	}

	return out
}
