package datagrid

import (
	"fmt"
	"sort"
)

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "none"
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return fmt.Sprintf("unknown(%d)", sd)
	}
}

// ParseSortDirection parses the String form of a direction. The empty
// string is SortNone.
func ParseSortDirection(s string) (SortDirection, error) {
	switch s {
	case "", "none":
		return SortNone, nil
	case "asc":
		return SortAscending, nil
	case "desc":
		return SortDescending, nil
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", s)
}

// Indicator is the header glyph for the direction.
func (sd SortDirection) Indicator() string {
	switch sd {
	case SortAscending:
		return "▲"
	case SortDescending:
		return "▼"
	}
	return ""
}

// Flip returns the opposite direction. SortNone flips to SortAscending.
func (sd SortDirection) Flip() SortDirection {
	if sd == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// SortState is the active sort. The zero value means insertion order.
type SortState struct {
	// Column is the key of the sorted column.
	Column string
	// Direction is the sort direction.
	Direction SortDirection
}

// IsSorted returns true if this state represents an active sort.
func (s SortState) IsSorted() bool {
	return s.Column != "" && s.Direction != SortNone
}

// NextSort applies a header click on col to current. A sortable column that
// is not active becomes active ascending, the active column flips direction,
// and a non-sortable column leaves the state unchanged.
func NextSort(current SortState, col Column) SortState {
	if !col.Sortable {
		return current
	}
	if current.IsSorted() && current.Column == col.Key {
		return SortState{Column: col.Key, Direction: current.Direction.Flip()}
	}
	return SortState{Column: col.Key, Direction: SortAscending}
}

// DisplayOrder returns rows ordered by s. An unsorted state, or one naming a
// column not in columns, returns rows itself. Otherwise a new slice is
// returned; rows is never modified. Null values sort last in both directions
// and equal values keep their input order.
func DisplayOrder(rows []Row, columns []Column, s SortState, c *Comparer) []Row {
	entries := make([]entry, len(rows))
	for i, r := range rows {
		entries[i] = entry{row: r, index: i}
	}
	sorted, changed := sortEntries(entries, columns, s, c)
	if !changed {
		return rows
	}
	return rowsOf(sorted)
}

// sortEntries reports changed=false when s does not select a column, in
// which case entries is returned as is.
func sortEntries(entries []entry, columns []Column, s SortState, c *Comparer) ([]entry, bool) {
	if !s.IsSorted() {
		return entries, false
	}
	col, ok := findColumn(columns, s.Column)
	if !ok {
		return entries, false
	}

	type wrapped struct {
		e   entry
		key sortKey
	}
	w := make([]wrapped, len(entries))
	for i, e := range entries {
		w[i] = wrapped{e: e, key: keyOf(col.Value(e.row))}
	}

	desc := s.Direction == SortDescending
	sort.SliceStable(w, func(i, j int) bool {
		a, b := w[i].key, w[j].key
		if a.null() || b.null() {
			return !a.null() && b.null()
		}
		cmp := c.compareKeys(a, b)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	out := make([]entry, len(w))
	for i := range w {
		out[i] = w[i].e
	}
	return out, true
}

func findColumn(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
