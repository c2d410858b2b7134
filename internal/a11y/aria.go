package a11y

import "fmt"

// SortDirection mirrors the aria-sort attribute values.
type SortDirection string

// aria-sort values.
const (
	SortNone       SortDirection = "none"
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// Snapshot is the plain-data grid state the attribute derivation reads. It
// carries no behavior so the derivation stays a pure function.
type Snapshot struct {
	RowCount int
	ColCount int

	// ColumnKeys maps column index to column key, used for header ids.
	ColumnKeys []string

	// SortByColumn maps column index to its aria-sort direction. Absent
	// columns report "none".
	SortByColumn map[int]SortDirection

	// SelectedRows marks selected row indexes.
	SelectedRows map[int]bool
}

// Attrs is an ARIA attribute bag for one element, ready for a renderer to
// splat onto whatever it paints.
type Attrs map[string]string

// GridAttrs derives the attributes for the grid container.
func GridAttrs(snap Snapshot) Attrs {
	return Attrs{
		"role":                 "grid",
		"aria-rowcount":        fmt.Sprintf("%d", snap.RowCount),
		"aria-colcount":        fmt.Sprintf("%d", snap.ColCount),
		"aria-multiselectable": "true",
	}
}

// HeaderAttrs derives the attributes for a column header cell.
func HeaderAttrs(snap Snapshot, col int) Attrs {
	sortDir := SortNone
	if dir, ok := snap.SortByColumn[col]; ok {
		sortDir = dir
	}
	return Attrs{
		"role":          "columnheader",
		"aria-colindex": fmt.Sprintf("%d", col+1),
		"aria-sort":     string(sortDir),
	}
}

// RowAttrs derives the attributes for a data row.
func RowAttrs(snap Snapshot, row int) Attrs {
	attrs := Attrs{
		"role": "row",
		// aria-rowindex is 1-based and offset by one for the header row.
		"aria-rowindex": fmt.Sprintf("%d", row+2),
	}
	if snap.SelectedRows[row] {
		attrs["aria-selected"] = "true"
	} else {
		attrs["aria-selected"] = "false"
	}
	return attrs
}

// CellAttrs derives the attributes for one data cell, including the roving
// tabindex: 0 for exactly the focused cell, -1 for every other cell.
//
// The derivation is a pure function of (snapshot, focus, coordinate) — it
// performs no side effects, so it can be tested in isolation and re-run
// freely by renderers.
func CellAttrs(snap Snapshot, focus Cell, row, col int) Attrs {
	tabindex := "-1"
	if !focus.IsNone() && focus.Row == row && focus.Col == col {
		tabindex = "0"
	}

	return Attrs{
		"role":          "gridcell",
		"aria-rowindex": fmt.Sprintf("%d", row+2),
		"aria-colindex": fmt.Sprintf("%d", col+1),
		"tabindex":      tabindex,
	}
}

// defaultLabel renders a coordinate announcement like "row 3, column 2".
func defaultLabel(cell Cell) string {
	if cell.IsNone() {
		return ""
	}
	return fmt.Sprintf("row %d, column %d", cell.Row+1, cell.Col+1)
}
