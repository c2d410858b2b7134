package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/telste/gridview/internal/a11y"
	"github.com/telste/gridview/internal/grid"
)

// headerRows is the number of screen rows above the data rows.
const headerRows = 1

const minColumnWidth = 6

// View renders the grid: header, windowed body, search bar, and status bar.
func (m *GridModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

// columnWidth is the screen width allotted to each column.
func (m *GridModel) columnWidth() int {
	if len(m.cols) == 0 {
		return m.width
	}
	w := m.width / len(m.cols)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// renderHeader draws column titles with sort indicators.
func (m *GridModel) renderHeader() string {
	width := m.columnWidth()
	sorts := m.store.Sorts()

	cells := make([]string, 0, len(m.cols))
	for _, col := range m.cols {
		title := col.Title + sortIndicator(col.Key, sorts)
		cells = append(cells, pad(title, width))
	}
	return headerStyle.Render(strings.Join(cells, ""))
}

// sortIndicator marks a sorted column with its direction and, when part of a
// multi-column sort, its priority.
func sortIndicator(key string, sorts []grid.SortSpec) string {
	for i, s := range sorts {
		if s.Key != key {
			continue
		}
		arrow := "↑"
		if s.Order == grid.OrderDesc {
			arrow = "↓"
		}
		if len(sorts) > 1 {
			return fmt.Sprintf(" %s%d", arrow, i+1)
		}
		return " " + arrow
	}
	return ""
}

// renderBody draws the windowed slice of the current page. Rows outside the
// window are never materialized.
func (m *GridModel) renderBody() string {
	var b strings.Builder

	body := m.bodyHeight()
	width := m.columnWidth()
	focus := m.keys.Focus()

	drawn := 0
	for row := m.window.Start; row < m.window.End && drawn < body; row++ {
		if row < m.scrollTop {
			// Overscan rows above the viewport exist for the windower's
			// accounting but have no place on a terminal screen.
			continue
		}
		b.WriteString(m.renderRow(row, width, focus))
		b.WriteString("\n")
		drawn++
	}

	for ; drawn < body; drawn++ {
		if drawn == 0 && len(m.view.Rows) == 0 {
			b.WriteString(mutedStyle.Render("  no rows match"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow draws one data row, highlighting selection and the focused cell.
func (m *GridModel) renderRow(row, width int, focus a11y.Cell) string {
	rec := m.view.Rows[row]
	selected := m.store.IsSelected(rec.Key)

	marker := "  "
	if selected {
		marker = selectedRowStyle.Render("✓ ")
	}

	cells := make([]string, 0, len(m.cols))
	for i, col := range m.cols {
		cell := pad(col.DisplayValue(rec), width)
		switch {
		case focus.Row == row && focus.Col == i:
			cell = focusedCellStyle.Render(cell)
		case selected:
			cell = selectedRowStyle.Render(cell)
		}
		cells = append(cells, cell)
	}

	return marker + strings.Join(cells, "")
}

// renderSearchBar shows the search input while editing, otherwise a summary
// of the active query state.
func (m *GridModel) renderSearchBar() string {
	if m.searching {
		return m.searchInput.View()
	}

	parts := []string{}
	if q := m.searchInput.Value(); q != "" {
		parts = append(parts, fmt.Sprintf("search: %q", q))
	}
	if n := len(m.store.Filters()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	if len(parts) == 0 {
		return mutedStyle.Render("/ search · s sort · space select · n/p page · q quit")
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

// renderStatusBar shows row range, page position, selection count, and the
// live region mirror.
func (m *GridModel) renderStatusBar() string {
	v := m.view

	status := fmt.Sprintf("rows %d-%d of %d · page %d/%d",
		v.StartIndex, v.EndIndex, v.FilteredRows, v.Page, v.TotalPages)
	if v.FilteredRows != v.TotalRows {
		status += fmt.Sprintf(" (filtered from %d)", v.TotalRows)
	}
	if n := m.store.SelectionCount(); n > 0 {
		status += fmt.Sprintf(" · %d selected", n)
	}

	line := statusBarStyle.Render(status)

	text, busy := m.live.snapshot()
	if busy {
		line += busyStyle.Render(" · loading")
	} else if text != "" {
		line += liveRegionStyle.Render(" · " + text)
	}

	return line
}

// pad truncates or right-pads s to width cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		return truncate(s, width)
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

// truncate cuts s to width cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 {
		return strings.Repeat(".", width)
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
