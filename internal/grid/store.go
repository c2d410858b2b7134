package grid

import (
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"

	"github.com/telste/gridview/internal/perf"
)

// SelectionMode controls how many rows may be selected at once.
type SelectionMode string

// Selection modes. Single corresponds to a radio control, multi to
// checkboxes.
const (
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

// ChangeKind identifies what part of the store a notification refers to.
type ChangeKind string

// Change kinds delivered to subscribers.
const (
	ChangeData      ChangeKind = "data"
	ChangeFilter    ChangeKind = "filter"
	ChangeSort      ChangeKind = "sort"
	ChangeSelection ChangeKind = "selection"
	ChangePage      ChangeKind = "page"
)

// Listener receives change notifications after a mutation commits.
type Listener func(kind ChangeKind)

// Pagination and caching defaults.
const (
	DefaultPageSize = 50

	// DefaultViewCacheSize bounds the memoized derived views kept per
	// store when Options.ViewCacheSize is unset.
	DefaultViewCacheSize = 8
)

// Options configures a Store.
type Options struct {
	// MultiSort keeps prior sort columns when a new one is toggled. When
	// false (the default) toggling a new column replaces the sort list.
	MultiSort bool

	// SelectionMode defaults to SelectionMulti.
	SelectionMode SelectionMode

	// PageSize defaults to DefaultPageSize; values below 1 are clamped.
	PageSize int

	// ViewCacheSize bounds the memoized derived views kept per store.
	// Values below 1 fall back to DefaultViewCacheSize.
	ViewCacheSize int

	// Logger receives debug events (unknown operators, rejected
	// refreshes). A zero logger is silent.
	Logger zerolog.Logger
}

// View is the derived, render-ready slice of the dataset: rows filtered,
// sorted, and cut to the current page, plus the totals a renderer needs for
// range captions and pagination controls.
type View[T any] struct {
	// Rows is the current page of the filtered, sorted dataset.
	Rows []T

	// TotalRows is the unfiltered dataset size.
	TotalRows int

	// FilteredRows is the dataset size after search + filters.
	FilteredRows int

	Page       int
	PageSize   int
	TotalPages int

	// StartIndex and EndIndex are the 1-based positions of the page within
	// the filtered set; both are 0 when the page is empty.
	StartIndex int
	EndIndex   int
}

// Store holds all interaction state for one grid instance: active filters,
// the sort list, selection, and pagination. Every mutation serializes
// through the store mutex; renderers subscribe for change notifications and
// pull the derived View on demand.
type Store[T any] struct {
	mu sync.Mutex

	cols  []Column[T]
	keyFn func(T) string

	rows        []T
	dataRev     uint64
	fingerprint uint64

	// stateRev bumps on every mutation and keys the view memoizer.
	stateRev uint64

	search  string
	filters []FilterSpec
	sorts   []SortSpec

	multiSort bool
	selMode   SelectionMode
	selected  map[string]struct{}

	page     int
	pageSize int

	listeners map[int]Listener
	nextSub   int

	viewMemo *perf.Memoizer[uint64, *View[T]]
	collator *collate.Collator
	logger   zerolog.Logger

	closed bool
}

// New creates a store over the given columns. keyFn derives the stable row
// key used for selection; it must not be nil.
func New[T any](cols []Column[T], keyFn func(T) string, opts Options) *Store[T] {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SelectionMode == "" {
		opts.SelectionMode = SelectionMulti
	}
	if opts.ViewCacheSize < 1 {
		opts.ViewCacheSize = DefaultViewCacheSize
	}

	s := &Store[T]{
		cols:      cols,
		keyFn:     keyFn,
		multiSort: opts.MultiSort,
		selMode:   opts.SelectionMode,
		selected:  make(map[string]struct{}),
		page:      1,
		pageSize:  opts.PageSize,
		listeners: make(map[int]Listener),
		collator:  newCollator(),
		logger:    opts.Logger,
	}

	// The memo compute closure runs with s.mu held (View acquires it), so
	// it reads store fields directly without locking again.
	s.viewMemo, _ = perf.NewMemoizer(func(_ uint64) (*View[T], error) {
		return s.computeViewLocked(), nil
	}, opts.ViewCacheSize)

	return s
}

// Close releases the view cache and drops all subscribers. Further use of
// the store is a no-op.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.viewMemo.Clear()
	s.listeners = make(map[int]Listener)
}

// Subscribe registers a change listener and returns an unsubscribe func.
func (s *Store[T]) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Columns returns a copy of the column descriptors.
func (s *Store[T]) Columns() []Column[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Column[T], len(s.cols))
	copy(out, s.cols)
	return out
}

// RowKey returns the stable key for a row.
func (s *Store[T]) RowKey(row T) string {
	return s.keyFn(row)
}

// ReplaceRows swaps the dataset. rev is the caller's logical data revision;
// a refresh carrying a revision older than one already applied is rejected
// so a slow async reload cannot clobber newer data (last-writer-wins).
// Returns true when the rows were applied.
func (s *Store[T]) ReplaceRows(rows []T, rev uint64) bool {
	s.mu.Lock()

	if rev < s.dataRev {
		s.logger.Debug().
			Uint64("rev", rev).
			Uint64("current", s.dataRev).
			Msg("stale data refresh rejected")
		s.mu.Unlock()
		return false
	}

	s.rows = rows
	s.dataRev = rev

	// A changed dataset identity invalidates every memoized view, not just
	// the current revision's entry.
	if fp := s.fingerprintLocked(); fp != s.fingerprint {
		s.fingerprint = fp
		s.viewMemo.Clear()
	}

	s.clampPageLocked()
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeData)
	return true
}

// SetSearch sets the global search query: a case-insensitive substring match
// against every column's display value. Changing it resets to page 1.
func (s *Store[T]) SetSearch(query string) {
	s.mu.Lock()
	if s.search == query {
		s.mu.Unlock()
		return
	}
	s.search = query
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeFilter)
}

// SetFilter adds or replaces the filter for spec.Key and resets to page 1.
func (s *Store[T]) SetFilter(spec FilterSpec) {
	s.mu.Lock()
	replaced := false
	for i := range s.filters {
		if s.filters[i].Key == spec.Key {
			s.filters[i] = spec
			replaced = true
			break
		}
	}
	if !replaced {
		s.filters = append(s.filters, spec)
	}
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeFilter)
}

// RemoveFilter drops the filter for key, if any, and resets to page 1.
func (s *Store[T]) RemoveFilter(key string) {
	s.mu.Lock()
	kept := s.filters[:0]
	removed := false
	for _, f := range s.filters {
		if f.Key == key {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	s.filters = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeFilter)
}

// ClearFilters drops every active filter and the search query, and resets to
// page 1.
func (s *Store[T]) ClearFilters() {
	s.mu.Lock()
	if len(s.filters) == 0 && s.search == "" {
		s.mu.Unlock()
		return
	}
	s.filters = nil
	s.search = ""
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeFilter)
}

// Filters returns a copy of the active filter list.
func (s *Store[T]) Filters() []FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FilterSpec, len(s.filters))
	copy(out, s.filters)
	return out
}

// ToggleSort cycles the sort state of a column: unsorted → asc → desc →
// unsorted. In single-sort mode toggling a new column replaces the list; in
// multi-sort mode it appends, keeping earlier columns as tie-breakers.
// Non-sortable and unknown columns are no-ops. Any change resets to page 1.
func (s *Store[T]) ToggleSort(key string) {
	s.mu.Lock()

	col, ok := s.columnLocked(key)
	if !ok || !col.Sortable {
		s.mu.Unlock()
		return
	}

	idx := -1
	for i := range s.sorts {
		if s.sorts[i].Key == key {
			idx = i
			break
		}
	}

	switch {
	case idx < 0:
		spec := SortSpec{Key: key, Order: OrderAsc, Kind: comparatorKindFor(col)}
		if s.multiSort {
			s.sorts = append(s.sorts, spec)
		} else {
			s.sorts = []SortSpec{spec}
		}
	case s.sorts[idx].Order == OrderAsc:
		s.sorts[idx].Order = OrderDesc
	default:
		s.sorts = append(s.sorts[:idx], s.sorts[idx+1:]...)
	}

	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSort)
}

// SetSorts replaces the sort list wholesale (used by headless callers that
// parse sort expressions). Specs referencing unknown columns are dropped;
// specs without a kind get the column default. Resets to page 1.
func (s *Store[T]) SetSorts(specs []SortSpec) {
	s.mu.Lock()
	s.sorts = s.sorts[:0]
	for _, spec := range specs {
		col, ok := s.columnLocked(spec.Key)
		if !ok {
			continue
		}
		if spec.Kind == "" {
			spec.Kind = comparatorKindFor(col)
		}
		if spec.Order != OrderDesc {
			spec.Order = OrderAsc
		}
		s.sorts = append(s.sorts, spec)
	}
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSort)
}

// Sorts returns a copy of the active sort list in priority order.
func (s *Store[T]) Sorts() []SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SortSpec, len(s.sorts))
	copy(out, s.sorts)
	return out
}

// SetSelection replaces the selection. In single mode only the first key is
// kept.
func (s *Store[T]) SetSelection(keys []string) {
	s.mu.Lock()
	s.selected = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s.selected[k] = struct{}{}
		if s.selMode == SelectionSingle {
			break
		}
	}
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSelection)
}

// ToggleRow flips a row's selected state. In single mode selecting a row
// deselects any other.
func (s *Store[T]) ToggleRow(key string) {
	s.mu.Lock()
	if _, ok := s.selected[key]; ok {
		delete(s.selected, key)
	} else {
		if s.selMode == SelectionSingle {
			clear(s.selected)
		}
		s.selected[key] = struct{}{}
	}
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSelection)
}

// SelectAllVisible unions the current page's row keys into the selection,
// keeping selections made on other pages. In single mode it selects the
// first visible row only.
func (s *Store[T]) SelectAllVisible() {
	s.mu.Lock()
	view := s.viewLocked()
	for _, row := range view.Rows {
		if s.selMode == SelectionSingle {
			clear(s.selected)
			if len(view.Rows) > 0 {
				s.selected[s.keyFn(view.Rows[0])] = struct{}{}
			}
			break
		}
		s.selected[s.keyFn(row)] = struct{}{}
	}
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSelection)
}

// ClearSelection empties the selection.
func (s *Store[T]) ClearSelection() {
	s.mu.Lock()
	if len(s.selected) == 0 {
		s.mu.Unlock()
		return
	}
	clear(s.selected)
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangeSelection)
}

// IsSelected reports whether the row key is selected.
func (s *Store[T]) IsSelected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[key]
	return ok
}

// SelectedKeys returns the selected row keys (unordered copy).
func (s *Store[T]) SelectedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.selected))
	for k := range s.selected {
		out = append(out, k)
	}
	return out
}

// SelectionCount returns the number of selected rows.
func (s *Store[T]) SelectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// SelectionMode returns the configured selection mode.
func (s *Store[T]) SelectionMode() SelectionMode {
	return s.selMode
}

// SetPage moves to page n, clamped to [1, totalPages]. Out-of-range
// requests never error.
func (s *Store[T]) SetPage(n int) {
	s.mu.Lock()
	view := s.viewLocked()
	if n < 1 {
		n = 1
	}
	if n > view.TotalPages {
		n = view.TotalPages
	}
	if n == s.page {
		s.mu.Unlock()
		return
	}
	s.page = n
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangePage)
}

// SetPageSize changes the page size (minimum 1) and resets to page 1.
func (s *Store[T]) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	s.mu.Lock()
	if size == s.pageSize {
		s.mu.Unlock()
		return
	}
	s.pageSize = size
	s.page = 1
	s.bumpLocked()
	s.mu.Unlock()

	s.notify(ChangePage)
}

// View returns the filtered, sorted, current-page slice of the dataset plus
// totals. Results are memoized per store revision, so repeated reads between
// mutations are cheap.
func (s *Store[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.viewLocked()
}

// viewLocked returns the memoized view for the current revision. Must be
// called with s.mu held.
func (s *Store[T]) viewLocked() *View[T] {
	v, err := s.viewMemo.Get(s.stateRev)
	if err != nil || v == nil {
		// The compute closure never errors; recompute directly as a
		// fallback.
		return s.computeViewLocked()
	}
	return v
}

// computeViewLocked runs the filter → sort → paginate pipeline. Must be
// called with s.mu held.
func (s *Store[T]) computeViewLocked() *View[T] {
	filtered := s.filterLocked()
	s.sortLocked(filtered)

	total := len(filtered)
	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := s.page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * s.pageSize
	end := min(start+s.pageSize, total)
	if start > total {
		start = total
	}

	view := &View[T]{
		Rows:         filtered[start:end],
		TotalRows:    len(s.rows),
		FilteredRows: total,
		Page:         page,
		PageSize:     s.pageSize,
		TotalPages:   totalPages,
	}
	if end > start {
		view.StartIndex = start + 1
		view.EndIndex = end
	}
	return view
}

// filterLocked applies the global search and every active filter. A row
// passes only if the search matches some column AND all filter predicates
// hold.
func (s *Store[T]) filterLocked() []T {
	out := make([]T, 0, len(s.rows))

	search := normalizeSearch(s.search)

rows:
	for _, row := range s.rows {
		if search != "" && !s.searchMatchesLocked(row, search) {
			continue
		}
		for _, f := range s.filters {
			col, ok := s.columnLocked(f.Key)
			if !ok {
				continue rows
			}
			if !f.Matches(col.Value(row), s.logger) {
				continue rows
			}
		}
		out = append(out, row)
	}

	return out
}

// searchMatchesLocked reports whether any column's display value contains
// the (already lowercased) search query.
func (s *Store[T]) searchMatchesLocked(row T, search string) bool {
	for _, col := range s.cols {
		if containsFold(col.DisplayValue(row), search) {
			return true
		}
	}
	return false
}

// sortLocked stably sorts rows in place per the active sort list.
func (s *Store[T]) sortLocked(rows []T) {
	if len(s.sorts) == 0 {
		return
	}

	perf.SortChunked(rows, func(a, b T) bool {
		return s.compareRowsLocked(a, b) < 0
	})
}

// compareRowsLocked applies the sort list in priority order, negating for
// descending specs. Equal rows return 0 and keep their original relative
// order (the sort is stable).
func (s *Store[T]) compareRowsLocked(a, b T) int {
	for _, spec := range s.sorts {
		col, ok := s.columnLocked(spec.Key)
		if !ok {
			continue
		}

		var c int
		if spec.Kind == CompareCustom && col.Compare != nil {
			c = col.Compare(a, b)
		} else {
			c = compareValues(col.Value(a), col.Value(b), spec.Kind, s.collator)
		}

		if spec.Order == OrderDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// columnLocked finds a column by key.
func (s *Store[T]) columnLocked(key string) (Column[T], bool) {
	for _, col := range s.cols {
		if col.Key == key {
			return col, true
		}
	}
	var zero Column[T]
	return zero, false
}

// clampPageLocked pulls the page back into range after the dataset shrank.
func (s *Store[T]) clampPageLocked() {
	if s.page < 1 {
		s.page = 1
	}
}

// bumpLocked advances the state revision. Must be called with s.mu held.
func (s *Store[T]) bumpLocked() {
	s.stateRev++
}

// fingerprintLocked computes a cheap dataset identity: row count plus first
// and last row keys. It deliberately avoids deep comparison — it only needs
// to catch dataset replacement, not in-place edits.
func (s *Store[T]) fingerprintLocked() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.Itoa(len(s.rows))))
	if len(s.rows) > 0 {
		_, _ = h.Write([]byte(s.keyFn(s.rows[0])))
		_, _ = h.Write([]byte(s.keyFn(s.rows[len(s.rows)-1])))
	}
	return h.Sum64()
}

// normalizeSearch lowercases and trims a search query.
func normalizeSearch(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// containsFold reports whether s contains the already-lowercased substr.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// notify delivers a change notification to all subscribers. Called without
// the store mutex so listeners may read the store.
func (s *Store[T]) notify(kind ChangeKind) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(kind)
	}
}
