package perf

import (
	"sync"
	"time"
)

// Debounced wraps a function so that only the last call in a burst executes.
// Each Call cancels any pending invocation and reschedules it delay later
// (trailing edge). Safe for concurrent use.
type Debounced struct {
	fn    func()
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// Debounce creates a trailing-edge debounced wrapper around fn.
// A non-positive delay executes fn synchronously on every call.
func Debounce(fn func(), delay time.Duration) *Debounced {
	return &Debounced{fn: fn, delay: delay}
}

// Call schedules fn to run delay after the most recent Call.
func (d *Debounced) Call() {
	if d.delay <= 0 {
		d.fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending invocation. The wrapper remains usable.
func (d *Debounced) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs a pending invocation immediately, if any, and cancels the timer.
func (d *Debounced) Flush() {
	d.mu.Lock()
	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if pending {
		d.fn()
	}
}
