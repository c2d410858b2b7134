package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telste/gridview/internal/config"
	"github.com/telste/gridview/internal/dataset"
	"github.com/telste/gridview/internal/grid"
)

func testDataset(rows int) *dataset.Dataset {
	records := make([]dataset.Record, 0, rows)
	for i := 0; i < rows; i++ {
		records = append(records, dataset.Record{
			Key: fmt.Sprintf("row-%03d", i),
			Values: map[string]any{
				"name":  fmt.Sprintf("item-%03d", i),
				"price": float64(i) * 1.5,
			},
		})
	}
	return &dataset.Dataset{
		Records: records,
		Fields: []dataset.FieldInfo{
			{Name: "name", Type: dataset.FieldString},
			{Name: "price", Type: dataset.FieldNumber},
		},
		SourcePath: "test.csv",
	}
}

func testColumns() []grid.Column[dataset.Record] {
	return []grid.Column[dataset.Record]{
		{
			Key: "name", Title: "Name", Type: grid.TypeString,
			Sortable: true, Filterable: true,
			Accessor: func(r dataset.Record) any { return r.Values["name"] },
		},
		{
			Key: "price", Title: "Price", Type: grid.TypeNumber,
			Sortable: true, Filterable: true,
			Accessor: func(r dataset.Record) any { return r.Values["price"] },
		},
	}
}

func newTestModel(t *testing.T, rows int) *GridModel {
	t.Helper()

	cfg := config.Default()
	cfg.Pagination.PageSize = 10
	cfg.Performance.DebounceMs = 0 // synchronous search in tests

	m := NewGridModel(context.Background(), testDataset(rows), testColumns(), cfg)
	t.Cleanup(func() {
		if !m.quitting {
			m.quit()
		}
	})

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return m
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestGridModel_InitialState(t *testing.T) {
	m := newTestModel(t, 25)

	assert.Len(t, m.view.Rows, 10)
	assert.Equal(t, 25, m.view.TotalRows)
	assert.Equal(t, 1, m.view.Page)
	assert.Equal(t, 3, m.view.TotalPages)
	assert.True(t, m.keys.Focus().IsNone())
}

func TestGridModel_KeyboardNavigation(t *testing.T) {
	t.Run("arrow keys establish and move focus", func(t *testing.T) {
		m := newTestModel(t, 25)

		// The first interaction lands on the origin, then the move applies.
		m.Update(keyMsg(tea.KeyDown))
		assert.Equal(t, 1, m.keys.Focus().Row)

		m.Update(keyMsg(tea.KeyDown))
		assert.Equal(t, 2, m.keys.Focus().Row)

		m.Update(keyMsg(tea.KeyRight))
		assert.Equal(t, 1, m.keys.Focus().Col)

		m.Update(keyMsg(tea.KeyUp))
		assert.Equal(t, 1, m.keys.Focus().Row)
	})

	t.Run("focus clamps at grid edges", func(t *testing.T) {
		m := newTestModel(t, 5)

		m.Update(keyMsg(tea.KeyDown))
		m.Update(keyMsg(tea.KeyUp))
		m.Update(keyMsg(tea.KeyUp))
		assert.Equal(t, 0, m.keys.Focus().Row)

		m.Update(keyMsg(tea.KeyEnd))
		assert.Equal(t, 1, m.keys.Focus().Col)
		m.Update(keyMsg(tea.KeyRight))
		assert.Equal(t, 1, m.keys.Focus().Col)
	})

	t.Run("space toggles selection on the focused row", func(t *testing.T) {
		m := newTestModel(t, 5)

		m.Update(keyMsg(tea.KeySpace))
		assert.Equal(t, 1, m.store.SelectionCount())
		assert.True(t, m.store.IsSelected("row-000"))

		m.Update(keyMsg(tea.KeySpace))
		assert.Equal(t, 0, m.store.SelectionCount())
	})

	t.Run("escape clears the selection", func(t *testing.T) {
		m := newTestModel(t, 5)

		m.Update(keyMsg(tea.KeySpace))
		m.Update(keyMsg(tea.KeyDown))
		m.Update(keyMsg(tea.KeySpace))
		require.Equal(t, 2, m.store.SelectionCount())

		m.Update(keyMsg(tea.KeyEsc))
		assert.Equal(t, 0, m.store.SelectionCount())
	})
}

func TestGridModel_Paging(t *testing.T) {
	m := newTestModel(t, 25)

	m.Update(runeMsg("n"))
	assert.Equal(t, 2, m.view.Page)

	m.Update(runeMsg("n"))
	m.Update(runeMsg("n")) // clamped at the last page
	assert.Equal(t, 3, m.view.Page)
	assert.Len(t, m.view.Rows, 5)

	m.Update(runeMsg("p"))
	assert.Equal(t, 2, m.view.Page)
}

func TestGridModel_SortToggle(t *testing.T) {
	m := newTestModel(t, 5)

	// Focus the price column and toggle its sort twice.
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyRight))
	m.Update(runeMsg("s"))

	sorts := m.store.Sorts()
	require.Len(t, sorts, 1)
	assert.Equal(t, "price", sorts[0].Key)
	assert.Equal(t, grid.OrderAsc, sorts[0].Order)

	m.Update(runeMsg("s"))
	sorts = m.store.Sorts()
	require.Len(t, sorts, 1)
	assert.Equal(t, grid.OrderDesc, sorts[0].Order)
	assert.Equal(t, "item-004", m.view.Rows[0].Values["name"])
}

func TestGridModel_Search(t *testing.T) {
	m := newTestModel(t, 25)

	m.Update(runeMsg("/"))
	require.True(t, m.searching)

	m.Update(runeMsg("item-003"))
	m.Update(keyMsg(tea.KeyEnter))

	assert.False(t, m.searching)
	require.Len(t, m.view.Rows, 1)
	assert.Equal(t, "item-003", m.view.Rows[0].Values["name"])
	assert.Equal(t, 1, m.view.FilteredRows)
	assert.Equal(t, 25, m.view.TotalRows)
}

func TestGridModel_Scroll(t *testing.T) {
	m := newTestModel(t, 25)
	m.store.SetPageSize(25)
	m.refresh()

	m.applyScroll(5)
	assert.Equal(t, 5, m.scrollTop)

	// Scrolling past the end clamps to the last full screen.
	m.applyScroll(1000)
	assert.Equal(t, 25-m.bodyHeight(), m.scrollTop)

	m.applyScroll(-1000)
	assert.Equal(t, 0, m.scrollTop)
}

func TestGridModel_EnsureVisibleFollowsFocus(t *testing.T) {
	m := newTestModel(t, 25)
	m.store.SetPageSize(25)
	m.refresh()

	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyPgDown))
	focus := m.keys.Focus()
	assert.GreaterOrEqual(t, focus.Row, m.scrollTop)
	assert.Less(t, focus.Row, m.scrollTop+m.bodyHeight())

	m.Update(tea.KeyMsg{Type: tea.KeyHome, Alt: true})
	assert.Equal(t, 0, m.keys.Focus().Row)
	assert.Equal(t, 0, m.scrollTop)
}

func TestGridModel_View(t *testing.T) {
	t.Run("renders header, rows, and status", func(t *testing.T) {
		m := newTestModel(t, 5)
		out := m.View()

		assert.Contains(t, out, "Name")
		assert.Contains(t, out, "Price")
		assert.Contains(t, out, "item-000")
		assert.Contains(t, out, "rows 1-5 of 5")
		assert.Contains(t, out, "page 1/1")
	})

	t.Run("shows sort indicator", func(t *testing.T) {
		m := newTestModel(t, 5)
		m.Update(keyMsg(tea.KeyDown))
		m.Update(runeMsg("s"))

		assert.Contains(t, m.View(), "Name ↑")
	})

	t.Run("marks selected rows", func(t *testing.T) {
		m := newTestModel(t, 5)
		m.Update(keyMsg(tea.KeyDown))
		m.Update(keyMsg(tea.KeySpace))

		assert.Contains(t, m.View(), "✓")
	})

	t.Run("empty result message", func(t *testing.T) {
		m := newTestModel(t, 5)
		m.store.SetSearch("no-such-row")
		m.refresh()

		assert.Contains(t, m.View(), "no rows match")
	})
}

func TestGridModel_MouseWheel(t *testing.T) {
	m := newTestModel(t, 25)
	m.store.SetPageSize(25)
	m.refresh()

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 3, m.scrollTop)

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 0, m.scrollTop)
}

func TestGridModel_Quit(t *testing.T) {
	m := newTestModel(t, 5)

	_, cmd := m.Update(runeMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.quitting)
}

func TestSortIndicator(t *testing.T) {
	sorts := []grid.SortSpec{
		{Key: "a", Order: grid.OrderAsc},
		{Key: "b", Order: grid.OrderDesc},
	}

	assert.Equal(t, " ↑1", sortIndicator("a", sorts))
	assert.Equal(t, " ↓2", sortIndicator("b", sorts))
	assert.Equal(t, "", sortIndicator("c", sorts))

	single := []grid.SortSpec{{Key: "a", Order: grid.OrderAsc}}
	assert.Equal(t, " ↑", sortIndicator("a", single))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "abc…", pad("abcdef", 4))
	assert.Equal(t, "", pad("abc", 0))
}
