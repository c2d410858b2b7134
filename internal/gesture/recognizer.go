// Package gesture classifies raw pointer event streams into high-level
// touch gestures: tap, long-press, pan, swipe, and pinch. The recognizer is
// a per-pointer-set state machine; it never errors — input it cannot
// classify simply produces no events.
package gesture

import (
	"math"
	"sync"
	"time"
)

// PointerType is the raw event kind.
type PointerType string

// Raw pointer event kinds.
const (
	PointerDown   PointerType = "down"
	PointerMove   PointerType = "move"
	PointerUp     PointerType = "up"
	PointerCancel PointerType = "cancel"
)

// PointerEvent is one raw input sample. Time must be monotonic per stream;
// synthetic streams (tests, replays) may fabricate it.
type PointerEvent struct {
	ID   int
	Type PointerType
	X    float64
	Y    float64
	Time time.Time
}

// EventType is a recognized gesture event name.
type EventType string

// Recognized gesture events.
const (
	EventTap        EventType = "tap"
	EventLongPress  EventType = "longpress"
	EventPan        EventType = "pan"
	EventPanMove    EventType = "panmove"
	EventPanEnd     EventType = "panend"
	EventSwipe      EventType = "swipe"
	EventSwipeUp    EventType = "swipeup"
	EventSwipeDown  EventType = "swipedown"
	EventSwipeLeft  EventType = "swipeleft"
	EventSwipeRight EventType = "swiperight"
	EventPinch      EventType = "pinch"
	EventPinchIn    EventType = "pinchin"
	EventPinchOut   EventType = "pinchout"
	EventGestureEnd EventType = "gestureend"
)

// Direction is the dominant axis of movement.
type Direction string

// Movement directions.
const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirNone  Direction = ""
)

// Point is a screen coordinate.
type Point struct {
	X float64
	Y float64
}

// Event is one recognized gesture occurrence.
type Event struct {
	Type      EventType
	Start     Point
	Current   Point
	DeltaX    float64
	DeltaY    float64
	Distance  float64
	Direction Direction
	Velocity  float64
	Scale     float64
}

// EmitFunc receives recognized events.
type EmitFunc func(Event)

// Config enables gesture families and tunes their thresholds. Distances are
// in the caller's coordinate units (pixels or cells), velocity in units/ms.
type Config struct {
	EnableTap       bool
	EnableLongPress bool
	EnablePan       bool
	EnableSwipe     bool
	EnablePinch     bool

	PanThreshold   float64
	SwipeThreshold float64
	SwipeVelocity  float64
	PinchThreshold float64
	LongPressDelay time.Duration
}

// DefaultConfig enables every gesture family with the standard thresholds.
func DefaultConfig() Config {
	return Config{
		EnableTap:       true,
		EnableLongPress: true,
		EnablePan:       true,
		EnableSwipe:     true,
		EnablePinch:     true,
		PanThreshold:    10,
		SwipeThreshold:  50,
		SwipeVelocity:   0.3,
		PinchThreshold:  0.1,
		LongPressDelay:  500 * time.Millisecond,
	}
}

// candidate is the single-pointer classification state. candNone marks a
// disqualified gesture: once a second pointer has landed, no later lift may
// count as a tap.
type candidate int

const (
	candNone candidate = iota
	candTap
	candLongPress
	candPan
)

// pointerState is per-pointer bookkeeping. Entries are created on
// pointer-down and removed on pointer-up/cancel — the map never holds an
// entry past its gesture.
type pointerState struct {
	start     Point
	current   Point
	last      Point
	startTime time.Time
	lastTime  time.Time
}

// Recognizer turns pointer event streams into gesture events. Safe for a
// single producer; internal state is mutex-guarded because the long-press
// timer fires on another goroutine.
type Recognizer struct {
	cfg  Config
	emit EmitFunc

	mu             sync.Mutex
	pointers       map[int]*pointerState
	cand           candidate
	primaryID      int
	longPressTimer *time.Timer
	pinchInitial   float64
	swipeSent      bool
}

// NewRecognizer creates a recognizer delivering events to emit.
func NewRecognizer(cfg Config, emit EmitFunc) *Recognizer {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Recognizer{
		cfg:      cfg,
		emit:     emit,
		pointers: make(map[int]*pointerState),
	}
}

// ActivePointers returns the number of tracked pointers.
func (r *Recognizer) ActivePointers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pointers)
}

// Handle consumes one raw pointer event. Unknown event types and unknown
// pointer IDs are ignored.
func (r *Recognizer) Handle(ev PointerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case PointerDown:
		r.handleDown(ev)
	case PointerMove:
		r.handleMove(ev)
	case PointerUp:
		r.handleUp(ev)
	case PointerCancel:
		r.removePointer(ev.ID)
	}
}

// handleDown starts tracking a pointer. The first pointer arms the
// long-press timer; a second pointer cancels it (the gesture can no longer
// be a tap or long-press).
func (r *Recognizer) handleDown(ev PointerEvent) {
	r.pointers[ev.ID] = &pointerState{
		start:     Point{X: ev.X, Y: ev.Y},
		current:   Point{X: ev.X, Y: ev.Y},
		last:      Point{X: ev.X, Y: ev.Y},
		startTime: ev.Time,
		lastTime:  ev.Time,
	}

	switch len(r.pointers) {
	case 1:
		r.primaryID = ev.ID
		r.cand = candTap
		r.swipeSent = false
		r.armLongPress(ev.ID)
	case 2:
		r.cancelLongPress()
		r.cand = candNone
		r.pinchInitial = 0
	default:
		r.cancelLongPress()
		r.cand = candNone
	}
}

// handleMove updates bookkeeping and runs pan/swipe (one pointer) or pinch
// (two pointers) classification.
func (r *Recognizer) handleMove(ev PointerEvent) {
	p, ok := r.pointers[ev.ID]
	if !ok {
		return
	}

	p.last = p.current
	prevTime := p.lastTime
	p.current = Point{X: ev.X, Y: ev.Y}
	p.lastTime = ev.Time

	switch len(r.pointers) {
	case 1:
		r.classifySingle(p, prevTime)
	case 2:
		r.classifyPinch()
	}
}

// classifySingle handles pan reclassification and pan/swipe emission for a
// one-pointer gesture.
func (r *Recognizer) classifySingle(p *pointerState, prevTime time.Time) {
	deltaX := p.current.X - p.start.X
	deltaY := p.current.Y - p.start.Y
	dist := math.Hypot(deltaX, deltaY)

	if r.cand == candTap && r.cfg.EnablePan && dist > r.cfg.PanThreshold {
		// Movement disqualifies tap and long-press.
		r.cand = candPan
		r.cancelLongPress()
		r.emit(r.panEvent(EventPan, p, prevTime))
	} else if r.cand == candPan && r.cfg.EnablePan {
		r.emit(r.panEvent(EventPanMove, p, prevTime))
	}

	// Swipe detection is independent of (and non-exclusive with) pan.
	if r.cfg.EnableSwipe && !r.swipeSent && dist > r.cfg.SwipeThreshold {
		velocity := instantVelocity(p, prevTime)
		if velocity > r.cfg.SwipeVelocity {
			r.swipeSent = true
			swipe := r.panEvent(EventSwipe, p, prevTime)
			r.emit(swipe)

			directed := swipe
			directed.Type = swipeEventFor(swipe.Direction)
			r.emit(directed)
		}
	}
}

// classifyPinch computes the inter-pointer distance ratio and emits pinch
// events once it diverges past the threshold. The baseline distance is
// captured on the first two-pointer move.
func (r *Recognizer) classifyPinch() {
	if !r.cfg.EnablePinch {
		return
	}

	pts := make([]*pointerState, 0, 2)
	for _, p := range r.pointers {
		pts = append(pts, p)
	}
	if len(pts) != 2 {
		return
	}

	dist := math.Hypot(pts[0].current.X-pts[1].current.X, pts[0].current.Y-pts[1].current.Y)
	if r.pinchInitial == 0 {
		// First two-pointer move captures the baseline distance.
		r.pinchInitial = dist
		return
	}
	if dist == 0 {
		return
	}

	scale := dist / r.pinchInitial
	if math.Abs(scale-1) <= r.cfg.PinchThreshold {
		return
	}

	ev := Event{
		Type:     EventPinch,
		Start:    pts[0].start,
		Current:  pts[0].current,
		Distance: dist,
		Scale:    scale,
	}
	r.emit(ev)

	directed := ev
	if scale < 1 {
		directed.Type = EventPinchIn
	} else {
		directed.Type = EventPinchOut
	}
	r.emit(directed)
}

// handleUp finishes a pointer's gesture: tap if nothing disqualified it,
// panend if it was panning, then bookkeeping removal and gestureend when the
// set empties.
func (r *Recognizer) handleUp(ev PointerEvent) {
	p, ok := r.pointers[ev.ID]
	if !ok {
		return
	}

	if ev.ID == r.primaryID {
		r.cancelLongPress()

		deltaX := p.current.X - p.start.X
		deltaY := p.current.Y - p.start.Y
		dist := math.Hypot(deltaX, deltaY)
		elapsed := ev.Time.Sub(p.startTime)

		switch {
		case r.cand == candTap && r.cfg.EnableTap &&
			elapsed < r.cfg.LongPressDelay && dist < r.cfg.PanThreshold:
			r.emit(Event{
				Type:    EventTap,
				Start:   p.start,
				Current: p.current,
			})
		case r.cand == candPan && r.cfg.EnablePan:
			r.emit(r.panEvent(EventPanEnd, p, p.lastTime))
		}
	}

	r.removePointer(ev.ID)
}

// removePointer deletes bookkeeping and emits gestureend when the active
// set becomes empty.
func (r *Recognizer) removePointer(id int) {
	if _, ok := r.pointers[id]; !ok {
		return
	}
	delete(r.pointers, id)

	if id == r.primaryID {
		r.cancelLongPress()
	}

	if len(r.pointers) == 0 {
		r.cand = candTap
		r.pinchInitial = 0
		r.emit(Event{Type: EventGestureEnd})
	}
}

// armLongPress schedules the long-press emission for the primary pointer.
func (r *Recognizer) armLongPress(id int) {
	if !r.cfg.EnableLongPress {
		return
	}
	r.cancelLongPress()
	r.longPressTimer = time.AfterFunc(r.cfg.LongPressDelay, func() {
		r.firePress(id)
	})
}

// firePress runs when the long-press timer fires. It re-checks that the
// gesture is still a one-pointer tap candidate; any reclassification or
// pointer change in the meantime voids the long-press.
func (r *Recognizer) firePress(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pointers[id]
	if !ok || len(r.pointers) != 1 || r.cand != candTap {
		return
	}

	r.cand = candLongPress
	r.emit(Event{
		Type:    EventLongPress,
		Start:   p.start,
		Current: p.current,
	})
}

// cancelLongPress stops a pending long-press timer.
func (r *Recognizer) cancelLongPress() {
	if r.longPressTimer != nil {
		r.longPressTimer.Stop()
		r.longPressTimer = nil
	}
}

// panEvent builds a movement event with deltas, dominant direction, and
// instantaneous velocity.
func (r *Recognizer) panEvent(typ EventType, p *pointerState, prevTime time.Time) Event {
	deltaX := p.current.X - p.start.X
	deltaY := p.current.Y - p.start.Y

	return Event{
		Type:      typ,
		Start:     p.start,
		Current:   p.current,
		DeltaX:    deltaX,
		DeltaY:    deltaY,
		Distance:  math.Hypot(deltaX, deltaY),
		Direction: dominantDirection(deltaX, deltaY),
		Velocity:  instantVelocity(p, prevTime),
	}
}

// instantVelocity is the speed over the last move sample, in units/ms.
func instantVelocity(p *pointerState, prevTime time.Time) float64 {
	millis := float64(p.lastTime.Sub(prevTime)) / float64(time.Millisecond)
	if millis <= 0 {
		return 0
	}
	step := math.Hypot(p.current.X-p.last.X, p.current.Y-p.last.Y)
	return step / millis
}

// dominantDirection picks the axis with the larger magnitude.
func dominantDirection(deltaX, deltaY float64) Direction {
	if deltaX == 0 && deltaY == 0 {
		return DirNone
	}
	if math.Abs(deltaX) >= math.Abs(deltaY) {
		if deltaX > 0 {
			return DirRight
		}
		return DirLeft
	}
	if deltaY > 0 {
		return DirDown
	}
	return DirUp
}

// swipeEventFor maps a direction to its swipe event name.
func swipeEventFor(dir Direction) EventType {
	switch dir {
	case DirUp:
		return EventSwipeUp
	case DirDown:
		return EventSwipeDown
	case DirLeft:
		return EventSwipeLeft
	default:
		return EventSwipeRight
	}
}
