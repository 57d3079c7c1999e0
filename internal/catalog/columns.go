package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database/repository"
)

// Value types a column may coerce to.
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeBool   = "bool"
	TypeTime   = "time"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Columns turns stored specs into grid columns, resolving renderers by name.
func Columns(specs []repository.ColumnSpec, reg *Registry) ([]datagrid.Column, error) {
	out := make([]datagrid.Column, 0, len(specs))
	for _, s := range specs {
		switch s.Type {
		case "", TypeString, TypeNumber, TypeBool, TypeTime:
		default:
			return nil, fmt.Errorf("%w: column %q has unknown type %q", ErrInvalid, s.Key, s.Type)
		}
		col := datagrid.Column{
			Key:       s.Key,
			Title:     s.Title,
			DataIndex: s.DataIndex,
			Sortable:  s.Sortable,
			Width:     s.Width,
		}
		if col.Title == "" {
			col.Title = s.Key
		}
		if s.Render != "" {
			fn, err := reg.Lookup(s.Render)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", s.Key, err)
			}
			col.Render = fn
		}
		out = append(out, col)
	}
	return out, nil
}

// KeySource returns the grid key source of a dataset row key field.
func KeySource(rowKey string) datagrid.KeySource {
	if rowKey == "" {
		return datagrid.KeySource{}
	}
	return datagrid.KeyField(rowKey)
}

// Coerce returns copies of rows with typed column fields converted. Empty
// strings become nil so they sort last.
func Coerce(rows []datagrid.Row, specs []repository.ColumnSpec) ([]datagrid.Row, error) {
	out := make([]datagrid.Row, len(rows))
	for i, r := range rows {
		row := make(datagrid.Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		for _, s := range specs {
			if s.Type == "" {
				continue
			}
			field := s.DataIndex
			if field == "" {
				field = s.Key
			}
			v, ok := row[field]
			if !ok {
				continue
			}
			cv, err := coerceValue(v, s.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %q: %v", ErrInvalid, i, field, err)
			}
			row[field] = cv
		}
		out[i] = row
	}
	return out, nil
}

func coerceValue(v any, typ string) (any, error) {
	s, isString := v.(string)
	if isString {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
	}
	switch typ {
	case TypeString:
		if v == nil {
			return nil, nil
		}
		return datagrid.FormatValue(v), nil
	case TypeNumber:
		if !isString {
			return v, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	case TypeBool:
		if !isString {
			return v, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("not a bool: %q", s)
		}
		return b, nil
	case TypeTime:
		if !isString {
			return v, nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("not a time: %q", s)
	}
	return v, nil
}
