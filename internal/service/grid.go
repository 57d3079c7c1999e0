package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/catalog"
	"github.com/jask/gridkit/internal/config"
	"github.com/jask/gridkit/internal/database/repository"
)

// GridService builds grids over stored datasets and persists their state.
type GridService struct {
	Datasets  *repository.DatasetRepo
	Rows      *repository.RowRepo
	State     *repository.StateRepo
	Renderers *catalog.Registry
	Config    config.GridConfig
	Logger    *zerolog.Logger
}

// Loaded is a dataset together with a grid over its rows.
type Loaded struct {
	Dataset repository.Dataset
	Grid    *datagrid.Grid
}

// Names lists the stored dataset names.
func (s *GridService) Names(ctx context.Context) ([]string, error) {
	return s.Datasets.Names(ctx)
}

// Open loads dataset name and returns a grid in its initial state.
// An unknown name is reported with the closest stored name.
func (s *GridService) Open(ctx context.Context, name string) (Loaded, error) {
	ds, err := s.Datasets.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		names, _ := s.Datasets.Names(ctx)
		if hint := catalog.Suggest(name, names); hint != "" {
			return Loaded{}, fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
		return Loaded{}, err
	}
	if err != nil {
		return Loaded{}, err
	}
	stored, err := s.Rows.List(ctx, ds.ID)
	if err != nil {
		return Loaded{}, fmt.Errorf("load rows of %s: %w", ds.Name, err)
	}
	rows, err := catalog.Coerce(stored, ds.Columns)
	if err != nil {
		return Loaded{}, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	reg := s.Renderers
	if reg == nil {
		reg = catalog.DefaultRenderers()
	}
	cols, err := catalog.Columns(ds.Columns, reg)
	if err != nil {
		return Loaded{}, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}

	log := zerolog.Nop()
	if s.Logger != nil {
		log = s.Logger.With().Str("dataset", ds.Name).Logger()
	}
	g, err := datagrid.New(datagrid.Options{
		Columns:    cols,
		Data:       rows,
		Selectable: s.Config.Selectable,
		OnSelectionChange: func(keys []datagrid.RowKey, _ []datagrid.Row) {
			log.Debug().Int("selected", len(keys)).Msg("selection callback")
		},
		PaginationDefaults: &datagrid.PaginationDefaults{
			PageSize:        s.Config.PageSize,
			PageSizeOptions: s.Config.PageSizeOptions,
			ShowSizeChanger: true,
		},
		RowKey: catalog.KeySource(ds.RowKey),
		Locale: s.Config.Locale,
		Logger: &log,
	})
	if err != nil {
		return Loaded{}, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	log.Info().Int("rows", len(rows)).Int("columns", len(cols)).Msg("dataset opened")
	return Loaded{Dataset: ds, Grid: g}, nil
}

// Restore applies the saved state of l, if any. Parts that no longer fit
// the dataset, such as a removed sort column or a vanished row, are skipped.
func (s *GridService) Restore(ctx context.Context, l Loaded) error {
	st, ok, err := s.State.Get(ctx, l.Dataset.ID)
	if err != nil || !ok {
		return err
	}
	g := l.Grid
	if dir, err := datagrid.ParseSortDirection(st.SortDirection); err == nil {
		if err := g.SetSort(datagrid.SortState{Column: st.SortColumn, Direction: dir}); err != nil {
			s.warn(err, "saved sort skipped")
		}
	}
	if g.Pagination().Enabled {
		if st.PageSize > 0 {
			if err := g.SetPageSize(st.PageSize); err != nil {
				s.warn(err, "saved page size skipped")
			}
		}
		if st.Page > 0 && st.Page <= max(1, g.Pagination().PageCount) {
			if err := g.GoToPage(st.Page); err != nil {
				s.warn(err, "saved page skipped")
			}
		}
	}
	if g.Selectable() {
		for _, k := range st.Selected {
			err := g.SetRowChecked(datagrid.RowKey(k), true)
			if errors.Is(err, datagrid.ErrRowNotFound) {
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Snapshot captures the sort, page and selection of l.
func (s *GridService) Snapshot(l Loaded) repository.GridState {
	g := l.Grid
	st := repository.GridState{DatasetID: l.Dataset.ID}
	if sort := g.Sort(); sort.IsSorted() {
		st.SortColumn, st.SortDirection = sort.Column, sort.Direction.String()
	}
	if p := g.Pagination(); p.Enabled {
		st.Page, st.PageSize = p.Current, p.PageSize
	}
	for _, k := range g.Selection().Keys() {
		st.Selected = append(st.Selected, string(k))
	}
	return st
}

// Save stores the snapshot of l.
func (s *GridService) Save(ctx context.Context, l Loaded) error {
	return s.SaveState(ctx, s.Snapshot(l))
}

// SaveState stores a snapshot taken earlier.
func (s *GridService) SaveState(ctx context.Context, st repository.GridState) error {
	return s.State.Save(ctx, st)
}

func (s *GridService) warn(err error, msg string) {
	if s.Logger != nil {
		s.Logger.Warn().Err(err).Msg(msg)
	}
}
