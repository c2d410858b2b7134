// Package announce serializes accessibility announcements into named live
// regions. Producers from anywhere in the grid (sort, filter, selection,
// data refresh) enqueue messages; each region's drain loop plays them back
// one at a time so overlapping announcements never interleave.
package announce

import (
	"sync"
	"time"
)

// Politeness is the live-region urgency level.
type Politeness string

// Politeness levels. Polite waits for a pause in speech; assertive
// interrupts.
const (
	Polite    Politeness = "polite"
	Assertive Politeness = "assertive"
)

// Defaults for the drain loop.
const (
	// DefaultRegion is used when Options.Region is empty.
	DefaultRegion = "grid-status"

	// DefaultMinGap is the minimum hold between consecutive messages so
	// assistive tech has time to speak each one.
	DefaultMinGap = 1000 * time.Millisecond

	// DefaultClearTick is the pause between clearing a region and setting
	// the new text. The clear-then-set dance makes repeated identical
	// messages register as genuine changes.
	DefaultClearTick = time.Millisecond

	// DefaultMaxPending caps each region's queue. Beyond the cap the
	// oldest pending message is dropped to bound memory under pathological
	// producer rates.
	DefaultMaxPending = 64
)

// Message is one queued announcement.
type Message struct {
	Text       string
	Politeness Politeness
	EnqueuedAt time.Time
}

// Options tunes a single Announce call.
type Options struct {
	// Region selects the live region; empty means DefaultRegion.
	Region string

	// Politeness defaults to Polite.
	Politeness Politeness

	// Delay postpones enqueueing, e.g. to let a UI settle first.
	Delay time.Duration
}

// RegionListener observes region text changes. It receives the empty string
// for the clear step and then the message text; renderers mirror this into
// their hidden live element.
type RegionListener func(region, text string, politeness Politeness)

// BusyListener observes aria-busy flips.
type BusyListener func(busy bool)

// Announcer owns a set of named live regions, each with a FIFO queue and a
// drain goroutine. No message is dropped below the pending cap, and no two
// messages are ever emitted concurrently within a region.
type Announcer struct {
	mu      sync.Mutex
	regions map[string]*region
	closed  bool
	done    chan struct{}

	onText RegionListener
	onBusy BusyListener

	minGap     time.Duration
	clearTick  time.Duration
	maxPending int

	busy bool
	wg   sync.WaitGroup
}

// region is one live region's queue and drain state.
type region struct {
	name    string
	queue   []Message
	cond    *sync.Cond
	current string
}

// Config tunes an Announcer.
type Config struct {
	MinGap     time.Duration
	ClearTick  time.Duration
	MaxPending int
}

// New creates an announcer delivering region updates to onText.
func New(onText RegionListener, cfg Config) *Announcer {
	if cfg.MinGap <= 0 {
		cfg.MinGap = DefaultMinGap
	}
	if cfg.ClearTick <= 0 {
		cfg.ClearTick = DefaultClearTick
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = DefaultMaxPending
	}

	return &Announcer{
		regions:    make(map[string]*region),
		done:       make(chan struct{}),
		onText:     onText,
		minGap:     cfg.MinGap,
		clearTick:  cfg.ClearTick,
		maxPending: cfg.MaxPending,
	}
}

// SetBusyListener registers the aria-busy observer.
func (a *Announcer) SetBusyListener(fn BusyListener) {
	a.mu.Lock()
	a.onBusy = fn
	a.mu.Unlock()
}

// Announce enqueues text for playback. Empty text is ignored. Concurrent
// producers are all serialized through the region queue; beyond the pending
// cap the oldest waiting message is discarded first.
func (a *Announcer) Announce(text string, opts Options) {
	if text == "" {
		return
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Politeness == "" {
		opts.Politeness = Polite
	}

	if opts.Delay > 0 {
		time.AfterFunc(opts.Delay, func() {
			a.enqueue(opts.Region, Message{Text: text, Politeness: opts.Politeness, EnqueuedAt: time.Now()})
		})
		return
	}

	a.enqueue(opts.Region, Message{Text: text, Politeness: opts.Politeness, EnqueuedAt: time.Now()})
}

// SetBusy flips the aria-busy flag. It is independent of the text queue.
func (a *Announcer) SetBusy(busy bool) {
	a.mu.Lock()
	if a.closed || a.busy == busy {
		a.mu.Unlock()
		return
	}
	a.busy = busy
	fn := a.onBusy
	a.mu.Unlock()

	if fn != nil {
		fn(busy)
	}
}

// Busy returns the current aria-busy state.
func (a *Announcer) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Current returns the text a region is presently showing, "" between
// messages.
func (a *Announcer) Current(regionName string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.regions[regionName]; ok {
		return r.current
	}
	return ""
}

// Pending returns the number of queued messages for a region (current
// playback excluded).
func (a *Announcer) Pending(regionName string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.regions[regionName]; ok {
		return len(r.queue)
	}
	return 0
}

// Close stops every drain goroutine. Messages still queued are discarded.
// Safe to call more than once.
func (a *Announcer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.done)
	for _, r := range a.regions {
		r.cond.Broadcast()
	}
	a.mu.Unlock()

	a.wg.Wait()
}

// enqueue appends a message and wakes the region's drain loop, creating the
// region on first use.
func (a *Announcer) enqueue(regionName string, msg Message) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}

	r, ok := a.regions[regionName]
	if !ok {
		r = &region{name: regionName}
		r.cond = sync.NewCond(&a.mu)
		a.regions[regionName] = r
		a.wg.Add(1)
		go a.drain(r)
	}

	if len(r.queue) >= a.maxPending {
		r.queue = r.queue[1:]
	}
	r.queue = append(r.queue, msg)
	r.cond.Signal()
	a.mu.Unlock()
}

// drain plays back one region's queue: clear the text, wait a tick so the
// change registers, set the new text, then hold for the minimum gap before
// the next message.
func (a *Announcer) drain(r *region) {
	defer a.wg.Done()

	for {
		a.mu.Lock()
		for len(r.queue) == 0 && !a.closed {
			r.cond.Wait()
		}
		if a.closed {
			a.mu.Unlock()
			return
		}
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.current = ""
		onText := a.onText
		a.mu.Unlock()

		if onText != nil {
			onText(r.name, "", msg.Politeness)
		}
		if !a.sleep(a.clearTick) {
			return
		}

		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return
		}
		r.current = msg.Text
		a.mu.Unlock()

		if onText != nil {
			onText(r.name, msg.Text, msg.Politeness)
		}
		if !a.sleep(a.minGap) {
			return
		}
	}
}

// sleep waits d or until Close, reporting false when closing.
func (a *Announcer) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-a.done:
		return false
	case <-timer.C:
		return true
	}
}
