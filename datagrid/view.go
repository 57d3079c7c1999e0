package datagrid

// HeaderCell is the derived state of one column header.
type HeaderCell struct {
	Key       string
	Title     string
	Sortable  bool
	Direction SortDirection
	Width     int
}

// DisplayRow is one rendered row of the current page.
type DisplayRow struct {
	Key RowKey
	// Index is the row position in the input.
	Index   int
	Row     Row
	Cells   []string
	Checked bool
}

// View is a read-only snapshot of everything a renderer needs.
type View struct {
	Selectable    bool
	Header        CheckState
	Columns       []HeaderCell
	Rows          []DisplayRow
	Pagination    ResolvedPagination
	Nav           []NavItem
	Summary       string
	SelectedCount int
	Sort          SortState
}

// PageRows returns the rows of the current page in display order.
func (g *Grid) PageRows() []DisplayRow {
	display := g.displayEntries()
	p := g.Pagination()
	lo, hi := p.bounds(len(display))
	page := display[lo:hi]

	out := make([]DisplayRow, len(page))
	for i, e := range page {
		cells := make([]string, len(g.columns))
		for c, col := range g.columns {
			cells[c] = col.Cell(e.row, i)
		}
		out[i] = DisplayRow{
			Key:     e.key,
			Index:   e.index,
			Row:     e.row,
			Cells:   cells,
			Checked: g.selectable && g.selection.Has(e.key),
		}
	}
	return out
}

// View derives the current snapshot. It has no side effects.
func (g *Grid) View() View {
	headers := make([]HeaderCell, len(g.columns))
	for i, c := range g.columns {
		h := HeaderCell{Key: c.Key, Title: c.Title, Sortable: c.Sortable, Width: c.Width}
		if g.sort.IsSorted() && g.sort.Column == c.Key {
			h.Direction = g.sort.Direction
		}
		headers[i] = h
	}
	p := g.Pagination()
	v := View{
		Selectable: g.selectable,
		Columns:    headers,
		Rows:       g.PageRows(),
		Pagination: p,
		Nav:        p.Items(),
		Summary:    p.Summary(),
		Sort:       g.sort,
	}
	if g.selectable {
		v.Header = g.HeaderCheckState()
		v.SelectedCount = g.selection.Len()
	}
	return v
}
