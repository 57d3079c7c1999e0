package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("not found")

// DatasetRepo handles datasets and their columns.
type DatasetRepo struct {
	db *sql.DB
}

func NewDatasetRepo(db *sql.DB) *DatasetRepo { return &DatasetRepo{db: db} }

// Upsert inserts or updates d and replaces its columns.
func (r *DatasetRepo) Upsert(ctx context.Context, d Dataset) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO datasets(id, name, title, row_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		 name=excluded.name,
		 title=excluded.title,
		 row_key=excluded.row_key,
		 updated_at=CURRENT_TIMESTAMP;
		`, d.ID, d.Name, d.Title, d.RowKey)
		if err != nil {
			return fmt.Errorf("upsert dataset %s: %w", d.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_columns WHERE dataset_id = ?`, d.ID); err != nil {
			return err
		}
		for i, c := range d.Columns {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO dataset_columns(dataset_id, position, col_key, title, data_index, sortable, render, width, value_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				d.ID, i, c.Key, c.Title, c.DataIndex, c.Sortable, c.Render, c.Width, c.Type)
			if err != nil {
				return fmt.Errorf("insert column %s: %w", c.Key, err)
			}
		}
		return nil
	})
}

// List returns every dataset ordered by name, without columns.
func (r *DatasetRepo) List(ctx context.Context) ([]Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, title, row_key, created_at, updated_at FROM datasets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.Title, &d.RowKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Names returns every dataset name ordered by name.
func (r *DatasetRepo) Names(ctx context.Context) ([]string, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return out, nil
}

// GetByName returns the dataset called name with its columns.
func (r *DatasetRepo) GetByName(ctx context.Context, name string) (Dataset, error) {
	var d Dataset
	err := r.db.QueryRowContext(ctx, `SELECT id, name, title, row_key, created_at, updated_at FROM datasets WHERE name = ?`, name).
		Scan(&d.ID, &d.Name, &d.Title, &d.RowKey, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Dataset{}, err
	}
	cols, err := r.columns(ctx, d.ID)
	if err != nil {
		return Dataset{}, err
	}
	d.Columns = cols
	return d, nil
}

func (r *DatasetRepo) columns(ctx context.Context, datasetID string) ([]ColumnSpec, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT col_key, title, data_index, sortable, render, width, value_type
	FROM dataset_columns WHERE dataset_id = ? ORDER BY position`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ColumnSpec
	for rows.Next() {
		var c ColumnSpec
		if err := rows.Scan(&c.Key, &c.Title, &c.DataIndex, &c.Sortable, &c.Render, &c.Width, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the dataset with id. Columns, rows and saved state cascade.
func (r *DatasetRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	return err
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
