package datagrid

import (
	"fmt"
	"time"
)

// Renderer turns a cell value into display text. index is the row position
// within the rendered page.
type Renderer func(value any, row Row, index int) string

// Column describes one grid column.
type Column struct {
	// Key is unique within a grid.
	Key   string
	Title string
	// DataIndex is the row field read for display and sorting. Empty means Key.
	DataIndex string
	Sortable  bool
	// Render overrides the default value formatting.
	Render Renderer
	// Width is a display hint in cells; 0 lets the renderer decide.
	Width int
}

// Field returns the row field this column reads.
func (c Column) Field() string {
	if c.DataIndex != "" {
		return c.DataIndex
	}
	return c.Key
}

// Value returns the raw value of this column in row.
func (c Column) Value(row Row) any {
	return row[c.Field()]
}

// Cell returns the display text of this column in row.
func (c Column) Cell(row Row, index int) string {
	v := c.Value(row)
	if c.Render != nil {
		return c.Render(v, row, index)
	}
	return FormatValue(v)
}

// FormatValue is the default cell formatting.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func validateColumns(cols []Column) (map[string]int, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Key == "" {
			return nil, fmt.Errorf("%w: column %d", ErrEmptyColumnKey, i)
		}
		if _, dup := index[c.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Key)
		}
		index[c.Key] = i
	}
	return index, nil
}
