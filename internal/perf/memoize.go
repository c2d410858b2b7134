package perf

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxCacheSize is the default memoizer capacity.
const DefaultMaxCacheSize = 100

// ErrInvalidCacheSize is returned when a memoizer is created with a
// non-positive capacity.
var ErrInvalidCacheSize = errors.New("cache size must be positive")

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Memoizer caches the results of an expensive computation keyed by K.
//
// Eviction is FIFO: when the cache is full the oldest-inserted key is
// evicted, regardless of how recently it was read. This is intentional and
// must not be changed to LRU; the access pattern of grid view recomputation
// makes insertion order the right eviction order, and the hit/miss counters
// exist so the choice can be revisited with data.
//
// Concurrent Get calls for the same key are deduplicated through
// singleflight so the compute function runs once per missing key. Flights
// are identified by a per-key token rather than the key's string rendering,
// so distinct keys never share a flight.
type Memoizer[K comparable, V any] struct {
	compute func(K) (V, error)
	maxSize int

	mu      sync.Mutex
	entries map[K]V
	order   []K
	hits    int64
	misses  int64

	group      singleflight.Group
	flights    map[K]uint64
	nextFlight uint64
}

// NewMemoizer creates a bounded memoizer around compute.
func NewMemoizer[K comparable, V any](compute func(K) (V, error), maxSize int) (*Memoizer[K, V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCacheSize, maxSize)
	}
	return &Memoizer[K, V]{
		compute: compute,
		maxSize: maxSize,
		entries: make(map[K]V, maxSize),
		order:   make([]K, 0, maxSize),
		flights: make(map[K]uint64),
	}, nil
}

// Get returns the cached value for key, computing and caching it on a miss.
func (m *Memoizer[K, V]) Get(key K) (V, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return v, nil
	}
	m.misses++
	flight, ok := m.flights[key]
	if !ok {
		m.nextFlight++
		flight = m.nextFlight
		m.flights[key] = flight
	}
	m.mu.Unlock()

	// Collapse concurrent computes for the same key into one.
	v, err, _ := m.group.Do(strconv.FormatUint(flight, 10), func() (any, error) {
		m.mu.Lock()
		if cached, ok := m.entries[key]; ok {
			m.mu.Unlock()
			return cached, nil
		}
		m.mu.Unlock()

		computed, computeErr := m.compute(key)
		if computeErr != nil {
			return computed, computeErr
		}

		m.mu.Lock()
		m.insertLocked(key, computed)
		m.mu.Unlock()
		return computed, nil
	})

	m.mu.Lock()
	if m.flights[key] == flight {
		delete(m.flights, key)
	}
	m.mu.Unlock()

	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Peek returns the cached value without computing on a miss and without
// touching the counters.
func (m *Memoizer[K, V]) Peek(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// Clear drops every cached entry. Counters are preserved.
func (m *Memoizer[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[K]V, m.maxSize)
	m.order = m.order[:0]
}

// Stats returns a snapshot of the hit/miss counters and entry count.
func (m *Memoizer[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}

// insertLocked stores key, evicting the oldest-inserted entry on overflow.
// Must be called with mu held.
func (m *Memoizer[K, V]) insertLocked(key K, value V) {
	if _, exists := m.entries[key]; exists {
		m.entries[key] = value
		return
	}

	if len(m.entries) >= m.maxSize {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	m.entries[key] = value
	m.order = append(m.order, key)
}
