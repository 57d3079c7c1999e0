package datagrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is an opaque mapping from field name to value.
type Row map[string]any

// RowKey identifies a row across renders and selection operations.
type RowKey string

// DefaultKeyField is read when no key source is configured.
const DefaultKeyField = "id"

// positionPrefix starts every positional key. Row keys read from data that
// begin with it are escaped by doubling it, so the two never collide.
const positionPrefix = "#"

// PositionKey is the fallback key of the row at ordinal i of the input.
func PositionKey(i int) RowKey {
	return RowKey(positionPrefix + strconv.Itoa(i))
}

func dataKey(k RowKey) RowKey {
	if strings.HasPrefix(string(k), positionPrefix) {
		return positionPrefix + k
	}
	return k
}

// KeySource derives a RowKey from a row. The zero value reads DefaultKeyField
// and falls back to the row position.
type KeySource struct {
	field string
	fn    func(Row) (RowKey, bool)
}

// KeyField reads the key from the named field.
func KeyField(name string) KeySource {
	return KeySource{field: name}
}

// KeyFunc extracts the key with fn. Returning false degrades to the position key.
func KeyFunc(fn func(Row) (RowKey, bool)) KeySource {
	return KeySource{fn: fn}
}

// IsZero reports whether no field or extractor was configured.
func (s KeySource) IsZero() bool {
	return s.field == "" && s.fn == nil
}

// Key returns the key of row at input position index. degraded is true when
// a configured source could not produce a key and the position was used.
// Keys from data starting with "#" come back with a second "#" prepended.
func (s KeySource) Key(row Row, index int) (key RowKey, degraded bool) {
	switch {
	case s.fn != nil:
		if k, ok := s.fn(row); ok {
			return dataKey(k), false
		}
		return PositionKey(index), true
	case s.field != "":
		if k, ok := fieldKey(row, s.field); ok {
			return dataKey(k), false
		}
		return PositionKey(index), true
	default:
		if k, ok := fieldKey(row, DefaultKeyField); ok {
			return dataKey(k), false
		}
		return PositionKey(index), false
	}
}

func fieldKey(row Row, field string) (RowKey, bool) {
	v, ok := row[field]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case RowKey:
		return t, true
	case string:
		return RowKey(t), true
	default:
		return RowKey(fmt.Sprint(t)), true
	}
}

// entry is a row together with its input position and key.
type entry struct {
	row   Row
	index int
	key   RowKey
}

func keys(entries []entry) []RowKey {
	out := make([]RowKey, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

func rowsOf(entries []entry) []Row {
	out := make([]Row, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out
}
