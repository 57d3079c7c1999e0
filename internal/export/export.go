// Package export writes the displayed rows of a grid as CSV, JSON or Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/arrowrows"
)

// Format represents the supported export formats
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown export format")

var formatNames = map[string]Format{
	"csv":     FormatCSV,
	"json":    FormatJSON,
	"parquet": FormatParquet,
}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want csv, json or parquet)", ErrUnknownFormat, name)
	}
	return f, nil
}

// Rows returns the rows to export: the display order of g, unpaginated.
// selectedOnly keeps only selected rows, still in display order.
func Rows(g *datagrid.Grid, selectedOnly bool) []datagrid.Row {
	rows := g.DisplayRows()
	if !selectedOnly {
		return rows
	}
	keys := g.DisplayKeys()
	sel := g.Selection()
	out := make([]datagrid.Row, 0, sel.Len())
	for i, r := range rows {
		if sel.Has(keys[i]) {
			out = append(out, r)
		}
	}
	return out
}

// Write encodes rows under columns to w in format f.
func Write(w io.Writer, f Format, columns []datagrid.Column, rows []datagrid.Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, columns, rows)
	case FormatJSON:
		return WriteJSON(w, columns, rows)
	case FormatParquet:
		return arrowrows.WriteParquet(w, columns, rows)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// WriteFile creates path and writes rows to it.
func WriteFile(path string, f Format, columns []datagrid.Column, rows []datagrid.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", f, err)
	}
	if err := Write(file, f, columns, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes a title header and the rendered cell text of each row.
func WriteCSV(w io.Writer, columns []datagrid.Column, rows []datagrid.Row) error {
	writer := csv.NewWriter(w)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Title
		if headers[i] == "" {
			headers[i] = c.Key
		}
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for i, r := range rows {
		record := make([]string, len(columns))
		for c, col := range columns {
			record[c] = col.Cell(r, i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes an indented array of objects holding the raw column
// values keyed by column key. Nulls are kept as JSON null.
func WriteJSON(w io.Writer, columns []datagrid.Column, rows []datagrid.Row) error {
	records := make([]map[string]any, len(rows))
	for i, r := range rows {
		record := make(map[string]any, len(columns))
		for _, c := range columns {
			record[c.Key] = c.Value(r)
		}
		records[i] = record
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
