package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindower_Compute(t *testing.T) {
	t.Run("MidScroll", func(t *testing.T) {
		// 10,000 rows at 40px in a 400px container, overscan 5, scrolled to
		// 2000px: rows 45..65 are materialized.
		w := NewWindower(40, 5)
		r := w.Compute(2000, 400, 10000)

		assert.Equal(t, 45, r.Start)
		assert.Equal(t, 65, r.End)
		assert.Equal(t, 45*40, r.OffsetY)
		assert.Equal(t, 10000*40, r.TotalSize)
	})

	t.Run("TopOfList", func(t *testing.T) {
		w := NewWindower(40, 5)
		r := w.Compute(0, 400, 10000)

		assert.Equal(t, 0, r.Start)
		assert.Equal(t, 20, r.End) // 10 visible + 2*5 overscan
		assert.Equal(t, 0, r.OffsetY)
	})

	t.Run("EndOfList", func(t *testing.T) {
		w := NewWindower(40, 5)
		r := w.Compute(10000*40, 400, 10000)

		assert.LessOrEqual(t, r.Start, r.End)
		assert.Equal(t, 10000, r.End)
	})

	t.Run("ZeroItems", func(t *testing.T) {
		w := NewWindower(40, 5)
		r := w.Compute(2000, 400, 0)

		assert.True(t, r.IsEmpty())
		assert.Equal(t, 0, r.TotalSize)
	})

	t.Run("InvalidItemHeightClampedToOne", func(t *testing.T) {
		w := NewWindower(0, 0)
		assert.Equal(t, 1, w.ItemHeight())

		r := w.Compute(3, 4, 100)
		assert.Equal(t, 3, r.Start)
		assert.Equal(t, 7, r.End)
	})

	t.Run("NegativeScrollClamped", func(t *testing.T) {
		w := NewWindower(10, 2)
		r := w.Compute(-50, 100, 1000)
		assert.Equal(t, 0, r.Start)
	})

	t.Run("InvariantHoldsAcrossScrollRange", func(t *testing.T) {
		w := NewWindower(40, 5)
		const total = 500
		totalHeight := total * 40

		for scrollTop := 0; scrollTop <= totalHeight; scrollTop += 37 {
			r := w.Compute(scrollTop, 400, total)
			require.GreaterOrEqual(t, r.Start, 0)
			require.LessOrEqual(t, r.Start, r.End)
			require.LessOrEqual(t, r.End, total)

			// The rendered pixel span must cover the visible window (minus
			// the overscan margin that extends beyond the data edges).
			if !r.IsEmpty() {
				top := r.Start * 40
				bottom := r.End * 40
				require.LessOrEqual(t, top, scrollTop)
				if bottom < totalHeight {
					require.GreaterOrEqual(t, bottom, min(scrollTop+400, totalHeight))
				}
			}
		}
	})

	t.Run("ContainerSmallerThanItem", func(t *testing.T) {
		w := NewWindower(40, 0)
		r := w.Compute(0, 10, 100)
		assert.Equal(t, 0, r.Start)
		assert.Equal(t, 1, r.End)
	})
}

func TestHeightEstimator(t *testing.T) {
	t.Run("RunningAverage", func(t *testing.T) {
		e := NewHeightEstimator()
		assert.Equal(t, 0, e.Estimate())

		e.Record(40)
		e.Record(44)
		e.Record(36)
		assert.Equal(t, 40, e.Estimate())
		assert.Equal(t, 3, e.Count())
	})

	t.Run("IgnoresNonPositive", func(t *testing.T) {
		e := NewHeightEstimator()
		e.Record(0)
		e.Record(-5)
		assert.Equal(t, 0, e.Count())
	})

	t.Run("DynamicModeOverridesFixedHeight", func(t *testing.T) {
		e := NewHeightEstimator()
		w := NewWindower(40, 5).WithEstimator(e)

		// Before any measurements the fixed height applies.
		assert.Equal(t, 40, w.ItemHeight())

		e.Record(20)
		e.Record(20)
		assert.Equal(t, 20, w.ItemHeight())

		r := w.Compute(2000, 400, 10000)
		assert.Equal(t, 2000/20-5, r.Start)
	})

	t.Run("Reset", func(t *testing.T) {
		e := NewHeightEstimator()
		e.Record(10)
		e.Reset()
		assert.Equal(t, 0, e.Estimate())
	})
}
