// Package catalog loads dataset definitions from TOML and turns stored
// column specs into grid columns.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database/repository"
)

// ErrInvalid is returned for catalog files that do not describe usable datasets.
var ErrInvalid = errors.New("invalid catalog")

// File is a decoded catalog file.
type File struct {
	Datasets []Dataset `toml:"dataset"`
}

// Dataset is one catalog entry. Rows come inline or from a CSV file whose
// path is relative to the catalog.
type Dataset struct {
	Name    string           `toml:"name"`
	Title   string           `toml:"title"`
	RowKey  string           `toml:"row_key"`
	CSV     string           `toml:"csv"`
	Columns []Column         `toml:"column"`
	Rows    []map[string]any `toml:"row"`
}

// Column is a catalog column entry.
type Column struct {
	Key       string `toml:"key"`
	Title     string `toml:"title"`
	DataIndex string `toml:"data_index"`
	Sortable  bool   `toml:"sortable"`
	Render    string `toml:"render"`
	Width     int    `toml:"width"`
	Type      string `toml:"type"`
}

var knownKeys = []string{
	"dataset", "name", "title", "row_key", "csv", "column", "row",
	"key", "data_index", "sortable", "render", "width", "type",
}

// Load decodes and validates the catalog at path. CSV sources are read
// relative to the catalog directory.
func Load(path string) (File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("load catalog: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		k := undecoded[0]
		hint := ""
		if s := Suggest(k[len(k)-1], knownKeys); s != "" {
			hint = fmt.Sprintf(" (did you mean %q?)", s)
		}
		return File{}, fmt.Errorf("%w: unknown key %q%s", ErrInvalid, k.String(), hint)
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool, len(f.Datasets))
	for i := range f.Datasets {
		d := &f.Datasets[i]
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return File{}, fmt.Errorf("%w: dataset %d has no name", ErrInvalid, i)
		}
		if seen[d.Name] {
			return File{}, fmt.Errorf("%w: duplicate dataset %q", ErrInvalid, d.Name)
		}
		seen[d.Name] = true
		if d.CSV != "" {
			src := d.CSV
			if !filepath.IsAbs(src) {
				src = filepath.Join(dir, src)
			}
			rows, cols, err := readCSV(src)
			if err != nil {
				return File{}, fmt.Errorf("dataset %s: %w", d.Name, err)
			}
			d.Rows = append(d.Rows, rows...)
			if len(d.Columns) == 0 {
				for _, c := range cols {
					d.Columns = append(d.Columns, Column{Key: c, Title: c, Sortable: true})
				}
			}
		}
		if len(d.Columns) == 0 {
			return File{}, fmt.Errorf("%w: dataset %q has no columns", ErrInvalid, d.Name)
		}
		if _, err := Columns(d.Specs(), DefaultRenderers()); err != nil {
			return File{}, fmt.Errorf("dataset %s: %w", d.Name, err)
		}
	}
	return f, nil
}

// Specs returns the dataset columns as persisted column specs.
func (d Dataset) Specs() []repository.ColumnSpec {
	out := make([]repository.ColumnSpec, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = repository.ColumnSpec{
			Key:       c.Key,
			Title:     c.Title,
			DataIndex: c.DataIndex,
			Sortable:  c.Sortable,
			Render:    c.Render,
			Width:     c.Width,
			Type:      c.Type,
		}
	}
	return out
}

// GridRows returns the dataset rows coerced to the column types.
func (d Dataset) GridRows() ([]datagrid.Row, error) {
	rows := make([]datagrid.Row, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = datagrid.Row(r)
	}
	return Coerce(rows, d.Specs())
}

// readCSV reads a header row and string records.
func readCSV(path string) ([]map[string]any, []string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	var rows []map[string]any
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv line %d: %w", len(rows)+2, err)
		}
		row := make(map[string]any, len(header))
		for i, h := range header {
			if i < len(rec) && rec[i] != "" {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
