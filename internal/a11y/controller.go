// Package a11y implements keyboard accessibility for a data grid: a
// roving-focus state machine over (row, column) coordinates and the pure
// derivation of ARIA attribute bags a renderer attaches to cells.
package a11y

// Key names the controller understands. They mirror DOM KeyboardEvent.key
// values so renderers can forward events with minimal translation.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeySpace      = " "
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
)

// pageJump is the number of rows PageUp/PageDown move the focus.
const pageJump = 10

// Cell is a grid coordinate. NoCell is the sentinel for "no focus".
type Cell struct {
	Row int
	Col int
}

// NoCell is the focus sentinel used when the grid is empty or nothing has
// been focused yet.
//
//nolint:gochecknoglobals // Sentinel value, never mutated.
var NoCell = Cell{Row: -1, Col: -1}

// IsNone reports whether the cell is the no-focus sentinel.
func (c Cell) IsNone() bool {
	return c.Row < 0 || c.Col < 0
}

// KeyEvent is a keyboard event as seen by the controller.
type KeyEvent struct {
	Key  string
	Ctrl bool
}

// AnnounceFunc is the injected announcement capability. The controller never
// holds a concrete announcer; it only needs the ability to say something.
type AnnounceFunc func(text string, assertive bool)

// Callbacks wires the controller to its collaborators. Any field may be nil.
type Callbacks struct {
	// ScrollTo asks the view to bring a cell into view after a move.
	ScrollTo func(cell Cell)

	// ToggleSelect toggles selection of a row (Space/Enter).
	ToggleSelect func(row int)

	// ClearSelect clears the entire selection (Escape).
	ClearSelect func()

	// Announce reports transitions to assistive tech when announcements
	// are enabled.
	Announce AnnounceFunc

	// CellLabel describes a cell for announcements, e.g. "alice, Name".
	// When nil, announcements fall back to bare coordinates.
	CellLabel func(cell Cell) string
}

// Controller is the roving-focus state machine. Exactly one cell at a time
// carries tabindex 0; all movement clamps at the grid edges rather than
// wrapping.
type Controller struct {
	rows    int
	cols    int
	focus   Cell
	cb      Callbacks
	enabled bool
}

// NewController creates a controller for a rows×cols grid.
// announceEnabled gates all Announce callbacks.
func NewController(rows, cols int, cb Callbacks, announceEnabled bool) *Controller {
	return &Controller{
		rows:    rows,
		cols:    cols,
		focus:   NoCell,
		cb:      cb,
		enabled: announceEnabled,
	}
}

// Resize updates the grid bounds, clamping the focus back inside. A grid
// with no rows or columns drops the focus to the sentinel.
func (c *Controller) Resize(rows, cols int) {
	c.rows = rows
	c.cols = cols

	if rows <= 0 || cols <= 0 {
		c.focus = NoCell
		return
	}
	if c.focus.IsNone() {
		return
	}
	c.focus = c.clamp(c.focus)
}

// Focus returns the focused cell, or NoCell.
func (c *Controller) Focus() Cell {
	return c.focus
}

// FocusCell moves focus to the given cell, clamped to the grid. A request on
// an empty grid is a no-op.
func (c *Controller) FocusCell(cell Cell) {
	if c.rows <= 0 || c.cols <= 0 {
		return
	}
	c.moveTo(c.clamp(cell))
}

// HandleKey applies one keyboard event and reports whether it was consumed.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if c.rows <= 0 || c.cols <= 0 {
		return false
	}

	// First keyboard interaction lands on the grid origin.
	if c.focus.IsNone() {
		c.focus = Cell{Row: 0, Col: 0}
	}

	switch {
	case ev.Key == KeyArrowUp:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row - 1, Col: c.focus.Col}))
	case ev.Key == KeyArrowDown:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row + 1, Col: c.focus.Col}))
	case ev.Key == KeyArrowLeft:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row, Col: c.focus.Col - 1}))
	case ev.Key == KeyArrowRight:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row, Col: c.focus.Col + 1}))
	case ev.Key == KeyHome && ev.Ctrl:
		c.moveTo(Cell{Row: 0, Col: 0})
	case ev.Key == KeyEnd && ev.Ctrl:
		c.moveTo(Cell{Row: c.rows - 1, Col: c.cols - 1})
	case ev.Key == KeyHome:
		c.moveTo(Cell{Row: c.focus.Row, Col: 0})
	case ev.Key == KeyEnd:
		c.moveTo(Cell{Row: c.focus.Row, Col: c.cols - 1})
	case ev.Key == KeyPageUp:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row - pageJump, Col: c.focus.Col}))
	case ev.Key == KeyPageDown:
		c.moveTo(c.clamp(Cell{Row: c.focus.Row + pageJump, Col: c.focus.Col}))
	case ev.Key == KeySpace || ev.Key == KeyEnter:
		if c.cb.ToggleSelect != nil {
			c.cb.ToggleSelect(c.focus.Row)
		}
		c.announce("selection toggled, "+c.label(c.focus), false)
	case ev.Key == KeyEscape:
		if c.cb.ClearSelect != nil {
			c.cb.ClearSelect()
		}
		c.announce("selection cleared", false)
	default:
		return false
	}

	return true
}

// moveTo commits a focus transition: update state, request scroll-into-view,
// and announce the landing cell.
func (c *Controller) moveTo(cell Cell) {
	c.focus = cell
	if c.cb.ScrollTo != nil {
		c.cb.ScrollTo(cell)
	}
	c.announce(c.label(cell), false)
}

// clamp pulls a cell inside the grid bounds.
func (c *Controller) clamp(cell Cell) Cell {
	if cell.Row < 0 {
		cell.Row = 0
	}
	if cell.Row >= c.rows {
		cell.Row = c.rows - 1
	}
	if cell.Col < 0 {
		cell.Col = 0
	}
	if cell.Col >= c.cols {
		cell.Col = c.cols - 1
	}
	return cell
}

// label describes a cell for announcements.
func (c *Controller) label(cell Cell) string {
	if c.cb.CellLabel != nil {
		if text := c.cb.CellLabel(cell); text != "" {
			return text
		}
	}
	return defaultLabel(cell)
}

// announce forwards text to the injected capability when enabled.
func (c *Controller) announce(text string, assertive bool) {
	if !c.enabled || c.cb.Announce == nil || text == "" {
		return
	}
	c.cb.Announce(text, assertive)
}
