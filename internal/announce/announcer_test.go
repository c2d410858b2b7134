package announce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects region updates in arrival order.
type recorder struct {
	mu      sync.Mutex
	updates []string
}

func (r *recorder) listen(region, text string, _ Politeness) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, region+":"+text)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.updates))
	copy(out, r.updates)
	return out
}

// fastConfig keeps drain timing short so tests run quickly.
func fastConfig() Config {
	return Config{MinGap: 10 * time.Millisecond, ClearTick: time.Millisecond}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAnnouncer_SerializesMessages(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, fastConfig())
	defer a.Close()

	a.Announce("first", Options{})
	a.Announce("second", Options{})
	a.Announce("third", Options{})

	waitFor(t, func() bool { return len(rec.snapshot()) >= 6 })

	// Each message is a clear followed by a set, strictly in FIFO order.
	got := rec.snapshot()[:6]
	want := []string{
		"grid-status:", "grid-status:first",
		"grid-status:", "grid-status:second",
		"grid-status:", "grid-status:third",
	}
	assert.Equal(t, want, got)
}

func TestAnnouncer_ClearThenSetForRepeatedText(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, fastConfig())
	defer a.Close()

	a.Announce("same", Options{})
	a.Announce("same", Options{})

	waitFor(t, func() bool { return len(rec.snapshot()) >= 4 })

	got := rec.snapshot()[:4]
	// The clear between repeats is what makes assistive tech re-announce
	// identical text.
	assert.Equal(t, []string{"grid-status:", "grid-status:same", "grid-status:", "grid-status:same"}, got)
}

func TestAnnouncer_ConcurrentProducersAllDelivered(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, Config{MinGap: time.Millisecond, ClearTick: time.Millisecond})
	defer a.Close()

	var wg sync.WaitGroup
	const producers = 10
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Announce("msg", Options{})
		}()
	}
	wg.Wait()

	// 2 updates (clear + set) per message, none dropped.
	waitFor(t, func() bool { return len(rec.snapshot()) == 2*producers })
}

func TestAnnouncer_SeparateRegionsAreIndependent(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, fastConfig())
	defer a.Close()

	a.Announce("sort changed", Options{Region: "sort"})
	a.Announce("row selected", Options{Region: "selection"})

	waitFor(t, func() bool {
		got := rec.snapshot()
		var sortSeen, selSeen bool
		for _, u := range got {
			if u == "sort:sort changed" {
				sortSeen = true
			}
			if u == "selection:row selected" {
				selSeen = true
			}
		}
		return sortSeen && selSeen
	})
}

func TestAnnouncer_QueueCapDropsOldest(t *testing.T) {
	rec := &recorder{}
	// A long gap keeps the drain loop busy on the first message while the
	// queue fills.
	a := New(rec.listen, Config{MinGap: time.Hour, ClearTick: time.Millisecond, MaxPending: 2})
	defer a.Close()

	a.Announce("one", Options{})
	// Wait until "one" is in playback so the rest stack up in the queue.
	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 })

	a.Announce("two", Options{})
	a.Announce("three", Options{})
	a.Announce("four", Options{})

	assert.Equal(t, 2, a.Pending(DefaultRegion), "queue is capped")
}

func TestAnnouncer_EmptyTextIgnored(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, fastConfig())
	defer a.Close()

	a.Announce("", Options{})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestAnnouncer_DelayedAnnouncement(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, fastConfig())
	defer a.Close()

	a.Announce("later", Options{Delay: 20 * time.Millisecond})
	assert.Empty(t, rec.snapshot(), "not yet enqueued")

	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 })
}

func TestAnnouncer_Busy(t *testing.T) {
	a := New(nil, fastConfig())
	defer a.Close()

	var flips []bool
	a.SetBusyListener(func(b bool) { flips = append(flips, b) })

	assert.False(t, a.Busy())
	a.SetBusy(true)
	a.SetBusy(true) // duplicate flip is swallowed
	a.SetBusy(false)

	assert.True(t, len(flips) == 2)
	assert.Equal(t, []bool{true, false}, flips)
	assert.False(t, a.Busy())
}

func TestAnnouncer_CloseStopsDrain(t *testing.T) {
	rec := &recorder{}
	a := New(rec.listen, Config{MinGap: time.Hour, ClearTick: time.Millisecond})

	a.Announce("first", Options{})
	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 })

	a.Announce("stuck", Options{})
	a.Close()

	// Close must return promptly even with a queued message and must be
	// idempotent.
	a.Close()

	require.LessOrEqual(t, len(rec.snapshot()), 4)
	a.Announce("after close", Options{})
	time.Sleep(10 * time.Millisecond)
	assert.LessOrEqual(t, len(rec.snapshot()), 4, "no deliveries after Close")
}
