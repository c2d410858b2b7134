// Package perf provides the performance primitives shared by the grid engine:
// trailing-edge debouncing, leading-edge throttling, a bounded FIFO memoizer,
// cooperative batch processing, and a chunked merge sort for large datasets.
package perf
