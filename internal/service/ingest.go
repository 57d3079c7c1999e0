package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/arrowrows"
	"github.com/jask/gridkit/internal/catalog"
	"github.com/jask/gridkit/internal/database"
	"github.com/jask/gridkit/internal/database/repository"
)

// IngestService loads datasets from catalog and parquet files into storage.
type IngestService struct {
	Datasets *repository.DatasetRepo
	Rows     *repository.RowRepo
}

// IngestResult reports one import.
type IngestResult struct {
	Datasets []string
	Rows     int
}

// Import dispatches on the file extension: .parquet files become one
// dataset named after the file, anything else is read as a TOML catalog.
func (s *IngestService) Import(ctx context.Context, path string) (IngestResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return s.ImportParquet(ctx, name, path)
	}
	return s.ImportCatalog(ctx, path)
}

// ImportCatalog stores every dataset of the catalog at path, replacing
// datasets of the same name.
func (s *IngestService) ImportCatalog(ctx context.Context, path string) (IngestResult, error) {
	f, err := catalog.Load(path)
	if err != nil {
		return IngestResult{}, err
	}
	var res IngestResult
	for _, d := range f.Datasets {
		rows, err := d.GridRows()
		if err != nil {
			return res, fmt.Errorf("dataset %s: %w", d.Name, err)
		}
		ds := repository.Dataset{
			ID:      database.DatasetID(d.Name),
			Name:    d.Name,
			Title:   d.Title,
			RowKey:  d.RowKey,
			Columns: d.Specs(),
		}
		if err := s.store(ctx, ds, rows); err != nil {
			return res, err
		}
		res.Datasets = append(res.Datasets, d.Name)
		res.Rows += len(rows)
	}
	return res, nil
}

// ImportParquet stores the parquet file at path as dataset name. Column
// types follow the arrow schema; every column is sortable.
func (s *IngestService) ImportParquet(ctx context.Context, name, path string) (IngestResult, error) {
	if strings.TrimSpace(name) == "" {
		return IngestResult{}, fmt.Errorf("%w: dataset name is empty", catalog.ErrInvalid)
	}
	cols, rows, err := arrowrows.ReadParquet(ctx, path)
	if err != nil {
		return IngestResult{}, err
	}
	ds := repository.Dataset{
		ID:      database.DatasetID(name),
		Name:    name,
		Title:   name,
		Columns: specsOf(cols, rows),
	}
	if err := s.store(ctx, ds, rows); err != nil {
		return IngestResult{}, err
	}
	return IngestResult{Datasets: []string{name}, Rows: len(rows)}, nil
}

func (s *IngestService) store(ctx context.Context, ds repository.Dataset, rows []datagrid.Row) error {
	if err := s.Datasets.Upsert(ctx, ds); err != nil {
		return fmt.Errorf("store dataset %s: %w", ds.Name, err)
	}
	if err := s.Rows.Replace(ctx, ds.ID, rows); err != nil {
		return fmt.Errorf("store rows of %s: %w", ds.Name, err)
	}
	return nil
}

// specsOf builds column specs for decoded columns, typing each by its
// first non-nil value so stored JSON loads back as the same kind.
func specsOf(cols []datagrid.Column, rows []datagrid.Row) []repository.ColumnSpec {
	out := make([]repository.ColumnSpec, len(cols))
	for i, c := range cols {
		spec := repository.ColumnSpec{
			Key:       c.Key,
			Title:     c.Title,
			DataIndex: c.DataIndex,
			Sortable:  true,
			Width:     c.Width,
		}
		for _, r := range rows {
			v := c.Value(r)
			if v == nil {
				continue
			}
			switch v.(type) {
			case time.Time:
				spec.Type = catalog.TypeTime
				spec.Render = "date"
			case bool:
				spec.Type = catalog.TypeBool
			case int64, uint64, float64:
				spec.Type = catalog.TypeNumber
			default:
				spec.Type = catalog.TypeString
			}
			break
		}
		out[i] = spec
	}
	return out
}
