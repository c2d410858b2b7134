// Package viewport converts scroll position and container geometry into the
// window of row indexes a renderer should materialize. It knows nothing about
// rows themselves; it deals purely in indexes and pixel offsets.
package viewport

// DefaultOverscan is the number of extra rows rendered beyond the visible
// window on each side to mask scroll-induced pop-in.
const DefaultOverscan = 5

// Range is the materialization window: rows [Start, End) should be rendered,
// placed OffsetY pixels from the top of a TotalSize-pixel scroll area.
type Range struct {
	Start     int
	End       int
	OffsetY   int
	TotalSize int
}

// IsEmpty reports whether the range contains no rows.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Count returns the number of rows in the range.
func (r Range) Count() int {
	return r.End - r.Start
}

// Windower computes visible ranges for a fixed item height.
type Windower struct {
	itemHeight int
	overscan   int
	estimator  *HeightEstimator
}

// NewWindower creates a windower with the given item height and overscan.
// An item height below 1 is clamped to 1; a negative overscan to 0.
func NewWindower(itemHeight, overscan int) *Windower {
	if itemHeight < 1 {
		itemHeight = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return &Windower{itemHeight: itemHeight, overscan: overscan}
}

// WithEstimator switches the windower to dynamic-height mode: the estimator's
// running average replaces the fixed item height once measurements exist.
func (w *Windower) WithEstimator(e *HeightEstimator) *Windower {
	w.estimator = e
	return w
}

// ItemHeight returns the effective item height, preferring the estimator's
// running average when dynamic-height mode is active.
func (w *Windower) ItemHeight() int {
	if w.estimator != nil {
		if h := w.estimator.Estimate(); h > 0 {
			return h
		}
	}
	return w.itemHeight
}

// Overscan returns the configured overscan row count.
func (w *Windower) Overscan() int {
	return w.overscan
}

// Compute derives the visible range for the given scroll position, container
// height, and total item count. All out-of-range inputs are clamped; zero
// items yields an empty range.
func (w *Windower) Compute(scrollTop, containerHeight, totalItems int) Range {
	itemHeight := w.ItemHeight()
	totalSize := totalItems * itemHeight

	if totalItems <= 0 {
		return Range{TotalSize: 0}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if containerHeight < 0 {
		containerHeight = 0
	}

	start := scrollTop/itemHeight - w.overscan
	if start < 0 {
		start = 0
	}

	visible := (containerHeight + itemHeight - 1) / itemHeight
	end := start + visible + 2*w.overscan
	if end > totalItems {
		end = totalItems
	}
	if start > end {
		start = end
	}

	return Range{
		Start:     start,
		End:       end,
		OffsetY:   start * itemHeight,
		TotalSize: totalSize,
	}
}

// HeightEstimator keeps a running average of measured item heights for
// dynamic-height mode.
type HeightEstimator struct {
	sum   int
	count int
}

// NewHeightEstimator creates an empty estimator.
func NewHeightEstimator() *HeightEstimator {
	return &HeightEstimator{}
}

// Record adds a measured item height. Non-positive measurements are ignored.
func (e *HeightEstimator) Record(height int) {
	if height <= 0 {
		return
	}
	e.sum += height
	e.count++
}

// Estimate returns the rounded running average, or 0 when nothing has been
// measured yet.
func (e *HeightEstimator) Estimate() int {
	if e.count == 0 {
		return 0
	}
	return (e.sum + e.count/2) / e.count
}

// Count returns the number of recorded measurements.
func (e *HeightEstimator) Count() int {
	return e.count
}

// Reset discards all measurements.
func (e *HeightEstimator) Reset() {
	e.sum = 0
	e.count = 0
}
