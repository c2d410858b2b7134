// Package tui renders the interactive grid on top of the engine packages:
// the state store supplies the filtered/sorted/paginated view, the windower
// picks the rows actually drawn, the accessibility controller owns cell
// focus, and the announcer feeds the status bar's live region.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/telste/gridview/internal/a11y"
	"github.com/telste/gridview/internal/announce"
	"github.com/telste/gridview/internal/config"
	"github.com/telste/gridview/internal/dataset"
	"github.com/telste/gridview/internal/gesture"
	"github.com/telste/gridview/internal/grid"
	"github.com/telste/gridview/internal/logging"
	"github.com/telste/gridview/internal/perf"
	"github.com/telste/gridview/internal/viewport"
)

// Default dimensions before the first WindowSizeMsg arrives.
const (
	gridDefaultWidth  = 80
	gridDefaultHeight = 24

	// chromeRows is the vertical space taken by header, search bar, and
	// status bar around the row viewport.
	chromeRows = 4

	// refreshInterval drives the periodic re-render that surfaces
	// asynchronous updates (debounced search, live region text).
	refreshInterval = 200 * time.Millisecond
)

// tickMsg triggers a periodic refresh.
type tickMsg time.Time

// liveMirror holds the live-region state the status bar renders. The
// announcer's drain goroutine writes it; View reads it under the mutex.
type liveMirror struct {
	mu   sync.Mutex
	text string
	busy bool
}

func (l *liveMirror) set(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
}

func (l *liveMirror) setBusy(busy bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = busy
}

func (l *liveMirror) snapshot() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text, l.busy
}

// GridModel is the Bubble Tea model for the interactive grid.
type GridModel struct {
	ctx context.Context

	store    *grid.Store[dataset.Record]
	cols     []grid.Column[dataset.Record]
	windower *viewport.Windower
	keys     *a11y.Controller

	announcer  *announce.Announcer
	live       *liveMirror
	recognizer *gesture.Recognizer

	searchInput    textinput.Model
	searching      bool
	searchDebounce *perf.Debounced
	scrollThrottle *perf.Throttled

	cfg *config.Config

	// scrollTop is the viewport offset within the current page, in rows.
	scrollTop int
	window    viewport.Range

	view grid.View[dataset.Record]

	width  int
	height int

	quitting bool
}

// NewGridModel builds the grid TUI over a loaded dataset.
func NewGridModel(
	ctx context.Context,
	ds *dataset.Dataset,
	cols []grid.Column[dataset.Record],
	cfg *config.Config,
) *GridModel {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "tui")

	selMode := grid.SelectionMulti
	if cfg.Selection.Type == "radio" {
		selMode = grid.SelectionSingle
	}

	store := grid.New(cols, func(r dataset.Record) string { return r.Key }, grid.Options{
		MultiSort:     true,
		SelectionMode: selMode,
		PageSize:      cfg.Pagination.PageSize,
		ViewCacheSize: cfg.Performance.MaxCacheSize,
		Logger:        log,
	})
	store.ReplaceRows(ds.Records, 1)

	live := &liveMirror{}
	announcer := announce.New(func(_, text string, _ announce.Politeness) {
		live.set(text)
	}, announce.Config{})
	announcer.SetBusyListener(live.setBusy)

	// A terminal row is one cell tall, so the windower's item height is
	// fixed at 1 here; virtual_scroll.item_height serves pixel-based
	// windower consumers.
	overscan := cfg.VirtualScroll.Overscan
	if !cfg.VirtualScroll.Enabled {
		overscan = 0
	}

	input := textinput.New()
	input.Placeholder = "search all columns"
	input.Prompt = "/ "
	input.CharLimit = 120

	m := &GridModel{
		ctx:       ctx,
		store:     store,
		cols:      cols,
		windower:  viewport.NewWindower(1, overscan),
		announcer: announcer,
		live:      live,
		cfg:       cfg,
		width:     gridDefaultWidth,
		height:    gridDefaultHeight,
	}
	m.searchInput = input

	m.keys = a11y.NewController(0, len(cols), a11y.Callbacks{
		ScrollTo:     m.ensureVisible,
		ToggleSelect: m.toggleRowAt,
		ClearSelect:  m.clearSelection,
		Announce:     m.announceFocus,
		CellLabel:    m.cellLabel,
	}, cfg.Accessibility.AnnounceChanges)

	m.recognizer = gesture.NewRecognizer(gestureConfig(cfg), m.handleGesture)

	m.searchDebounce = perf.Debounce(m.applySearch, time.Duration(cfg.Performance.DebounceMs)*time.Millisecond)
	m.scrollThrottle = perf.Throttle(func() {}, time.Duration(cfg.Performance.ThrottleMs)*time.Millisecond)

	m.refresh()
	return m
}

// gestureConfig maps the config's gesture section onto the recognizer.
func gestureConfig(cfg *config.Config) gesture.Config {
	return gesture.Config{
		EnableTap:       cfg.Gestures.EnableTap,
		EnableLongPress: cfg.Gestures.EnableLongPress,
		EnablePan:       cfg.Gestures.EnablePan,
		EnableSwipe:     cfg.Gestures.EnableSwipe,
		EnablePinch:     cfg.Gestures.EnablePinch,
		PanThreshold:    cfg.Gestures.PanThreshold,
		SwipeThreshold:  cfg.Gestures.SwipeThreshold,
		SwipeVelocity:   cfg.Gestures.SwipeVelocity,
		PinchThreshold:  cfg.Gestures.PinchThreshold,
		LongPressDelay:  time.Duration(cfg.Gestures.LongPressMs) * time.Millisecond,
	}
}

// Init starts the periodic refresh tick.
func (m *GridModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model state.
func (m *GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recomputeWindow()
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		m.handleMouseMsg(msg)
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes keyboard input: search mode feeds the text input,
// otherwise keys drive grid navigation.
//
//nolint:exhaustive // Only the navigation-relevant key types are handled.
func (m *GridModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()

	case tea.KeyRunes:
		return m.handleRuneKey(string(msg.Runes))

	case tea.KeyUp:
		m.handleNavKey(a11y.KeyArrowUp, false)
	case tea.KeyDown:
		m.handleNavKey(a11y.KeyArrowDown, false)
	case tea.KeyLeft:
		m.handleNavKey(a11y.KeyArrowLeft, false)
	case tea.KeyRight:
		m.handleNavKey(a11y.KeyArrowRight, false)
	case tea.KeyHome:
		m.handleNavKey(a11y.KeyHome, msg.Alt)
	case tea.KeyEnd:
		m.handleNavKey(a11y.KeyEnd, msg.Alt)
	case tea.KeyPgUp:
		m.handleNavKey(a11y.KeyPageUp, false)
	case tea.KeyPgDown:
		m.handleNavKey(a11y.KeyPageDown, false)
	case tea.KeySpace:
		m.handleNavKey(a11y.KeySpace, false)
	case tea.KeyEsc:
		m.handleNavKey(a11y.KeyEscape, false)
	}

	return m, nil
}

// handleRuneKey handles single-rune commands outside search mode.
func (m *GridModel) handleRuneKey(r string) (tea.Model, tea.Cmd) {
	switch r {
	case "q":
		return m.quit()
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "s":
		m.toggleSortAtFocus()
	case "n":
		m.setPage(m.view.Page + 1)
	case "p":
		m.setPage(m.view.Page - 1)
	case "c":
		m.store.ClearFilters()
		m.announceFilterResult()
		m.refresh()
	}
	return m, nil
}

// handleSearchKey feeds keystrokes to the search box and debounces the
// store update so filtering doesn't run on every character.
func (m *GridModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // Everything else goes to the text input.
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		m.searchDebounce.Flush()
		m.refresh()
		return m, nil
	case tea.KeyCtrlC:
		return m.quit()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchDebounce.Call()
	return m, cmd
}

// handleNavKey forwards a key to the accessibility controller and refreshes
// when it was consumed.
func (m *GridModel) handleNavKey(key string, ctrl bool) {
	if m.keys.HandleKey(a11y.KeyEvent{Key: key, Ctrl: ctrl}) {
		m.refresh()
	}
}

// handleMouseMsg converts terminal mouse input into scroll and pointer
// streams. Wheel events scroll directly; button events feed the gesture
// recognizer so drags pan, swipes flip pages, and a long press selects.
func (m *GridModel) handleMouseMsg(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.applyScroll(-3)
		return
	case tea.MouseButtonWheelDown:
		m.applyScroll(3)
		return
	default:
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion &&
		msg.Action != tea.MouseActionRelease {
		return
	}

	var ptype gesture.PointerType
	switch msg.Action {
	case tea.MouseActionPress:
		ptype = gesture.PointerDown
	case tea.MouseActionMotion:
		ptype = gesture.PointerMove
	case tea.MouseActionRelease:
		ptype = gesture.PointerUp
	default:
		return
	}

	m.recognizer.Handle(gesture.PointerEvent{
		ID:   0,
		Type: ptype,
		X:    float64(msg.X),
		Y:    float64(msg.Y),
		Time: time.Now(),
	})
}

// handleGesture reacts to recognized gestures.
func (m *GridModel) handleGesture(ev gesture.Event) {
	switch ev.Type {
	case gesture.EventTap:
		m.focusCellAt(int(ev.Current.X), int(ev.Current.Y))
	case gesture.EventLongPress:
		if row, ok := m.rowAtScreenY(int(ev.Current.Y)); ok {
			m.toggleRowAt(row)
		}
	case gesture.EventPanMove:
		// Drag down moves content down, revealing earlier rows.
		m.applyScroll(-int(ev.DeltaY))
	case gesture.EventSwipeLeft:
		m.setPage(m.view.Page + 1)
	case gesture.EventSwipeRight:
		m.setPage(m.view.Page - 1)
	case gesture.EventPan, gesture.EventPanEnd, gesture.EventSwipe,
		gesture.EventSwipeUp, gesture.EventSwipeDown,
		gesture.EventPinch, gesture.EventPinchIn, gesture.EventPinchOut,
		gesture.EventGestureEnd:
		// Pinch has no terminal mapping; remaining events are phases of
		// gestures already handled above.
	}
}

// quit tears the engine down and exits.
func (m *GridModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.searchDebounce.Stop()
	m.announcer.Close()
	m.store.Close()
	return m, tea.Quit
}

// applySearch pushes the debounced search text into the store.
func (m *GridModel) applySearch() {
	query := m.searchInput.Value()
	m.store.SetSearch(query)
	m.announceFilterResult()
}

// applyScroll moves the viewport by delta rows, clamped to the page.
func (m *GridModel) applyScroll(delta int) {
	maxTop := len(m.view.Rows) - m.bodyHeight()
	if maxTop < 0 {
		maxTop = 0
	}

	top := m.scrollTop + delta
	if top < 0 {
		top = 0
	}
	if top > maxTop {
		top = maxTop
	}
	m.scrollTop = top

	// Window recomputation is throttled; the periodic tick renders any
	// trailing scroll position.
	if m.scrollThrottle.Call() {
		m.recomputeWindow()
	}
}

// setPage flips to page n, announcing the result.
func (m *GridModel) setPage(n int) {
	m.store.SetPage(n)
	m.scrollTop = 0
	m.refresh()
	if m.cfg.Accessibility.AnnounceChanges {
		m.announcer.Announce(
			fmt.Sprintf("page %d of %d", m.view.Page, m.view.TotalPages),
			announce.Options{})
	}
}

// toggleSortAtFocus cycles the sort on the focused column.
func (m *GridModel) toggleSortAtFocus() {
	focus := m.keys.Focus()
	if focus.IsNone() {
		focus = a11y.Cell{Row: 0, Col: 0}
	}
	if focus.Col < 0 || focus.Col >= len(m.cols) {
		return
	}

	col := m.cols[focus.Col]
	if !col.Sortable {
		return
	}
	m.store.ToggleSort(col.Key)
	m.refresh()

	if m.cfg.Accessibility.AnnounceSort {
		m.announcer.Announce(sortAnnouncement(col.Key, m.store.Sorts()), announce.Options{})
	}
}

// sortAnnouncement describes the sort state of one column for the live
// region.
func sortAnnouncement(key string, sorts []grid.SortSpec) string {
	for _, s := range sorts {
		if s.Key == key {
			if s.Order == grid.OrderDesc {
				return fmt.Sprintf("sorted by %s descending", key)
			}
			return fmt.Sprintf("sorted by %s ascending", key)
		}
	}
	return fmt.Sprintf("sort cleared on %s", key)
}

// announceFilterResult reports the post-filter row count.
func (m *GridModel) announceFilterResult() {
	if !m.cfg.Accessibility.AnnounceFilter {
		return
	}
	view := m.store.View()
	m.announcer.Announce(
		fmt.Sprintf("%d of %d rows match", view.FilteredRows, view.TotalRows),
		announce.Options{})
}

// toggleRowAt toggles selection for the given visible row index.
func (m *GridModel) toggleRowAt(row int) {
	if row < 0 || row >= len(m.view.Rows) {
		return
	}
	m.store.ToggleRow(m.view.Rows[row].Key)
	m.refresh()

	if m.cfg.Accessibility.AnnounceSelection {
		m.announcer.Announce(
			fmt.Sprintf("%d selected", m.store.SelectionCount()),
			announce.Options{})
	}
}

// clearSelection empties the selection set.
func (m *GridModel) clearSelection() {
	m.store.ClearSelection()
	m.refresh()

	if m.cfg.Accessibility.AnnounceSelection {
		m.announcer.Announce("selection cleared", announce.Options{})
	}
}

// announceFocus forwards focus announcements from the controller.
func (m *GridModel) announceFocus(text string, assertive bool) {
	politeness := announce.Polite
	if assertive {
		politeness = announce.Assertive
	}
	m.announcer.Announce(text, announce.Options{Politeness: politeness})
}

// cellLabel renders the focused cell's label for announcements.
func (m *GridModel) cellLabel(cell a11y.Cell) string {
	if cell.Row < 0 || cell.Row >= len(m.view.Rows) ||
		cell.Col < 0 || cell.Col >= len(m.cols) {
		return ""
	}
	col := m.cols[cell.Col]
	return fmt.Sprintf("row %d, %s: %s",
		m.view.StartIndex+cell.Row, col.Title, col.DisplayValue(m.view.Rows[cell.Row]))
}

// ensureVisible scrolls the viewport so the focused cell is on screen.
func (m *GridModel) ensureVisible(cell a11y.Cell) {
	if cell.IsNone() {
		return
	}

	body := m.bodyHeight()
	if cell.Row < m.scrollTop {
		m.scrollTop = cell.Row
	} else if cell.Row >= m.scrollTop+body {
		m.scrollTop = cell.Row - body + 1
	}
	m.recomputeWindow()
}

// focusCellAt maps a screen coordinate to a grid cell and focuses it.
func (m *GridModel) focusCellAt(x, y int) {
	row, ok := m.rowAtScreenY(y)
	if !ok {
		return
	}

	col := m.columnAtScreenX(x)
	m.keys.FocusCell(a11y.Cell{Row: row, Col: col})
	m.refresh()
}

// rowAtScreenY maps a screen row to a visible data row index.
func (m *GridModel) rowAtScreenY(y int) (int, bool) {
	// Row 0 is the header; body starts below it.
	bodyY := y - headerRows
	if bodyY < 0 {
		return 0, false
	}
	row := m.window.Start + bodyY
	if row >= len(m.view.Rows) {
		return 0, false
	}
	return row, true
}

// columnAtScreenX maps a screen column to a grid column index.
func (m *GridModel) columnAtScreenX(x int) int {
	width := m.columnWidth()
	if width <= 0 {
		return 0
	}
	col := x / width
	if col >= len(m.cols) {
		col = len(m.cols) - 1
	}
	if col < 0 {
		col = 0
	}
	return col
}

// bodyHeight is the number of terminal rows available for data rows.
func (m *GridModel) bodyHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return h
}

// refresh pulls the derived view and recomputes the window and controller
// dimensions.
func (m *GridModel) refresh() {
	m.view = m.store.View()
	m.keys.Resize(len(m.view.Rows), len(m.cols))
	m.recomputeWindow()
}

// recomputeWindow re-derives the visible row range from the scroll offset.
func (m *GridModel) recomputeWindow() {
	maxTop := len(m.view.Rows) - m.bodyHeight()
	if maxTop < 0 {
		maxTop = 0
	}
	if m.scrollTop > maxTop {
		m.scrollTop = maxTop
	}
	m.window = m.windower.Compute(m.scrollTop, m.bodyHeight(), len(m.view.Rows))
}
