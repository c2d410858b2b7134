package perf

import (
	"sync"
	"time"
)

// Throttled wraps a function so that it executes at most once per interval.
// The first call in a window executes immediately (leading edge); calls
// inside the window are dropped, not queued. Safe for concurrent use.
type Throttled struct {
	fn       func()
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Throttle creates a leading-edge throttled wrapper around fn.
// A non-positive interval executes fn on every call.
func Throttle(fn func(), interval time.Duration) *Throttled {
	return &Throttled{fn: fn, interval: interval, now: time.Now}
}

// Call executes fn if at least interval has elapsed since the last
// execution; otherwise the call is dropped. Returns true when fn ran.
func (t *Throttled) Call() bool {
	t.mu.Lock()
	now := t.now()
	if t.interval > 0 && !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()

	t.fn()
	return true
}

// Reset clears the throttle window so the next Call executes immediately.
func (t *Throttled) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
