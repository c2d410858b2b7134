// Package grid implements the interaction state behind a data grid: column
// descriptors, filtering, multi-column sorting, selection, and pagination.
//
// The store is deliberately framework-free. State lives in one explicit
// object, every mutation goes through a method that serializes on the store
// mutex, and renderers observe changes through a subscription callback. The
// filtered/sorted/paginated view is a derived value, memoized per revision.
package grid

import (
	"fmt"
	"strconv"
	"time"
)

// ValueType classifies a column's values for filtering and sorting.
type ValueType string

// Recognized value types.
const (
	TypeString ValueType = "string"
	TypeNumber ValueType = "number"
	TypeDate   ValueType = "date"
	TypeBool   ValueType = "bool"
)

// FilterDescriptor describes the filter UI a column offers.
type FilterDescriptor struct {
	Type    ValueType
	Options []string
}

// Column describes one grid column over rows of type T.
type Column[T any] struct {
	// Key uniquely identifies the column; filters and sorts reference it.
	Key string

	// Title is the header label.
	Title string

	// Type classifies the column's values; it selects the default
	// comparator and filter coercion. Empty means string.
	Type ValueType

	Sortable   bool
	Filterable bool

	// Filter, when set, describes the filter control for the column.
	Filter *FilterDescriptor

	// Width is a rendering hint in cells/pixels; 0 means auto.
	Width int

	// Accessor extracts the column's value from a row. A nil accessor
	// yields an empty display value, never an error.
	Accessor func(T) any

	// Compare, when set, overrides the default comparator for sorting.
	Compare func(a, b T) int
}

// Value returns the raw cell value for row, or nil when the column has no
// accessor.
func (c Column[T]) Value(row T) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

// DisplayValue returns the cell value rendered as a string. Missing
// accessors and nil values yield "".
func (c Column[T]) DisplayValue(row T) string {
	return displayString(c.Value(row))
}

// displayString renders an arbitrary cell value for display and matching.
func displayString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
