package datagrid

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options configure a Grid. They mirror the props of a table component.
type Options struct {
	Columns []Column
	Data    []Row

	// Selectable enables the selection tracker.
	Selectable bool
	// OnSelectionChange is called after every selection mutation with the
	// selected keys and the selected rows in input order.
	OnSelectionChange func(keys []RowKey, rows []Row)

	// Pagination nil applies defaults; Disabled turns pagination off.
	Pagination *PaginationConfig
	// PaginationDefaults nil means DefaultPaginationDefaults().
	PaginationDefaults *PaginationDefaults

	// RowKey derives row identity. The zero value reads the "id" field and
	// falls back to the row position.
	RowKey KeySource

	// Locale drives string collation. Empty means DefaultLocale.
	Locale string

	// Logger nil discards logs.
	Logger *zerolog.Logger
}

// Grid is the state of one data grid instance. It is not safe for
// concurrent use; every method completes synchronously, callbacks included.
type Grid struct {
	columns  []Column
	colIndex map[string]int
	entries  []entry
	rowKeys  []RowKey

	selectable bool
	onSelect   func(keys []RowKey, rows []Row)
	pagination *PaginationConfig
	defaults   PaginationDefaults
	keySource  KeySource
	cmp        *Comparer
	log        zerolog.Logger

	sort      SortState
	selection Selection
	pager     pagerState

	display      []entry
	displayValid bool
}

// New validates opts and returns a Grid in its initial state: unsorted,
// nothing selected, first page.
func New(opts Options) (*Grid, error) {
	colIndex, err := validateColumns(opts.Columns)
	if err != nil {
		return nil, err
	}
	cmp, err := NewComparer(opts.Locale)
	if err != nil {
		return nil, err
	}
	defaults := DefaultPaginationDefaults()
	if opts.PaginationDefaults != nil {
		defaults = opts.PaginationDefaults.normalized()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	g := &Grid{
		columns:    append([]Column(nil), opts.Columns...),
		colIndex:   colIndex,
		selectable: opts.Selectable,
		onSelect:   opts.OnSelectionChange,
		pagination: opts.Pagination,
		defaults:   defaults,
		keySource:  opts.RowKey,
		cmp:        cmp,
		log:        log,
	}
	g.setEntries(opts.Data)
	return g, nil
}

func (g *Grid) setEntries(rows []Row) {
	g.entries = make([]entry, len(rows))
	g.rowKeys = make([]RowKey, len(rows))
	degraded := 0
	for i, r := range rows {
		k, bad := g.keySource.Key(r, i)
		if bad {
			degraded++
		}
		g.entries[i] = entry{row: r, index: i, key: k}
		g.rowKeys[i] = k
	}
	if degraded > 0 {
		g.log.Debug().Int("rows", degraded).Msg("row key missing, using row position")
	}
	g.displayValid = false
}

// SetData replaces the rows. Sort state and selection are kept; selected
// keys no longer present stay selected until pruned or cleared.
func (g *Grid) SetData(rows []Row) {
	g.setEntries(rows)
}

// SetColumns replaces the column descriptors. A sort on a column that no
// longer exists is dropped.
func (g *Grid) SetColumns(cols []Column) error {
	colIndex, err := validateColumns(cols)
	if err != nil {
		return err
	}
	g.columns = append([]Column(nil), cols...)
	g.colIndex = colIndex
	if _, ok := colIndex[g.sort.Column]; !ok {
		g.sort = SortState{}
	}
	g.displayValid = false
	return nil
}

// SetPagination replaces the caller pagination config.
func (g *Grid) SetPagination(cfg *PaginationConfig) {
	g.pagination = cfg
}

// SetSelectable turns the selection tracker on or off. The selection itself
// is kept.
func (g *Grid) SetSelectable(on bool) {
	g.selectable = on
}

// Selectable reports whether selection is enabled.
func (g *Grid) Selectable() bool { return g.selectable }

// Columns returns a copy of the column descriptors.
func (g *Grid) Columns() []Column {
	return append([]Column(nil), g.columns...)
}

// Column returns the column with key.
func (g *Grid) Column(key string) (Column, bool) {
	i, ok := g.colIndex[key]
	if !ok {
		return Column{}, false
	}
	return g.columns[i], true
}

// Rows returns the input rows in input order.
func (g *Grid) Rows() []Row { return rowsOf(g.entries) }

// RowKeys returns the key of every input row in input order.
func (g *Grid) RowKeys() []RowKey {
	return append([]RowKey(nil), g.rowKeys...)
}

// Reset discards sort and selection state and returns uncontrolled
// pagination to its first page and default size. Clearing a non-empty
// selection fires OnSelectionChange.
func (g *Grid) Reset() {
	g.sort = SortState{}
	g.pager = pagerState{}
	g.displayValid = false
	g.log.Debug().Msg("grid reset")
	if g.selection.Len() > 0 {
		g.commitSelection(Selection{})
	}
}

// Sort ----------------------------------------------------------------------

// Sort returns the active sort state.
func (g *Grid) Sort() SortState { return g.sort }

// ClickHeader applies a header click on the column with key.
func (g *Grid) ClickHeader(key string) error {
	col, ok := g.Column(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, key)
	}
	next := NextSort(g.sort, col)
	if next == g.sort {
		return nil
	}
	g.sort = next
	g.displayValid = false
	g.log.Debug().Str("column", next.Column).Stringer("direction", next.Direction).Msg("sort changed")
	return nil
}

// SetSort sets the sort state directly. The zero SortState clears sorting.
func (g *Grid) SetSort(s SortState) error {
	if s.IsSorted() {
		col, ok := g.Column(s.Column)
		if !ok {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, s.Column)
		}
		if !col.Sortable {
			return fmt.Errorf("%w: %q", ErrInvalidSortColumn, s.Column)
		}
	} else {
		s = SortState{}
	}
	g.sort = s
	g.displayValid = false
	return nil
}

func (g *Grid) displayEntries() []entry {
	if !g.displayValid {
		g.display, _ = sortEntries(g.entries, g.columns, g.sort, g.cmp)
		g.displayValid = true
	}
	return g.display
}

// DisplayRows returns every row in display order, before pagination.
func (g *Grid) DisplayRows() []Row { return rowsOf(g.displayEntries()) }

// DisplayKeys returns the keys of DisplayRows.
func (g *Grid) DisplayKeys() []RowKey { return keys(g.displayEntries()) }

// Selection -----------------------------------------------------------------

// Selection returns the current selection.
func (g *Grid) Selection() Selection { return g.selection }

// SelectedRows returns the selected rows in input order.
func (g *Grid) SelectedRows() []Row {
	return SelectedRows(g.Rows(), g.rowKeys, g.selection)
}

// HeaderCheckState returns the header checkbox state over displayed rows.
func (g *Grid) HeaderCheckState() CheckState {
	return HeaderCheckState(g.DisplayKeys(), g.selection)
}

func (g *Grid) hasKey(key RowKey) bool {
	for _, k := range g.rowKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (g *Grid) checkRow(key RowKey) error {
	if !g.selectable {
		return ErrSelectionDisabled
	}
	if !g.hasKey(key) {
		return fmt.Errorf("%w: %q", ErrRowNotFound, key)
	}
	return nil
}

// ToggleRow flips the selection of the row with key.
func (g *Grid) ToggleRow(key RowKey) error {
	if err := g.checkRow(key); err != nil {
		return err
	}
	g.commitSelection(ToggleRow(g.selection, key))
	return nil
}

// SetRowChecked sets the selection of the row with key.
func (g *Grid) SetRowChecked(key RowKey, checked bool) error {
	if err := g.checkRow(key); err != nil {
		return err
	}
	g.commitSelection(SetRow(g.selection, key, checked))
	return nil
}

// ToggleAll selects every displayed row when checked, otherwise clears the
// selection.
func (g *Grid) ToggleAll(checked bool) error {
	if !g.selectable {
		return ErrSelectionDisabled
	}
	g.commitSelection(ToggleAll(checked, g.DisplayKeys()))
	return nil
}

// ClearSelection empties the selection.
func (g *Grid) ClearSelection() error {
	return g.ToggleAll(false)
}

// PruneSelection drops selected keys whose rows are gone from the input.
func (g *Grid) PruneSelection() error {
	if !g.selectable {
		return ErrSelectionDisabled
	}
	keep := make(map[RowKey]struct{}, len(g.rowKeys))
	for _, k := range g.rowKeys {
		keep[k] = struct{}{}
	}
	g.commitSelection(g.selection.retain(keep))
	return nil
}

func (g *Grid) commitSelection(next Selection) {
	g.selection = next
	g.log.Debug().Int("selected", next.Len()).Msg("selection changed")
	if g.onSelect != nil {
		g.onSelect(next.Keys(), g.SelectedRows())
	}
}

// Pagination ----------------------------------------------------------------

// Pagination returns the resolved pagination for the current rows.
func (g *Grid) Pagination() ResolvedPagination {
	return resolvePagination(g.pagination, g.defaults, len(g.entries), g.pager)
}

// GoToPage navigates to page.
func (g *Grid) GoToPage(page int) error {
	p := g.Pagination()
	if !p.Enabled {
		return ErrPaginationDisabled
	}
	if page < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	g.navigate(p, page, p.PageSize)
	return nil
}

// NextPage moves one page forward. It reports false when next is disabled.
func (g *Grid) NextPage() bool {
	p := g.Pagination()
	if !p.HasNext() {
		return false
	}
	g.navigate(p, p.Current+1, p.PageSize)
	return true
}

// PrevPage moves one page back. It reports false when prev is disabled.
func (g *Grid) PrevPage() bool {
	p := g.Pagination()
	if !p.HasPrev() {
		return false
	}
	g.navigate(p, p.Current-1, p.PageSize)
	return true
}

// SetPageSize changes the page size, keeping the current page while it
// still exists.
func (g *Grid) SetPageSize(size int) error {
	p := g.Pagination()
	if !p.Enabled {
		return ErrPaginationDisabled
	}
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	g.navigate(p, clampAfterResize(p.Current, p.Total, size), size)
	return nil
}

// Activate performs the navigation of item. Disabled items are a no-op.
func (g *Grid) Activate(item NavItem) error {
	if item.Disabled {
		return nil
	}
	return g.GoToPage(item.Page)
}

// navigate updates internal state for the fields the caller does not
// control and reports the target to the caller.
func (g *Grid) navigate(p ResolvedPagination, page, size int) {
	if !p.ControlledPage {
		g.pager.page = page
	}
	if !p.ControlledSize {
		g.pager.pageSize = size
	}
	g.log.Debug().Int("page", page).Int("page_size", size).Msg("page changed")
	if g.pagination != nil && g.pagination.OnChange != nil {
		g.pagination.OnChange(page, size)
	}
}
