package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// StateRepo persists grid interaction state per dataset.
type StateRepo struct {
	db *sql.DB
}

func NewStateRepo(db *sql.DB) *StateRepo { return &StateRepo{db: db} }

// Save stores s, replacing any earlier state of the dataset.
func (r *StateRepo) Save(ctx context.Context, s GridState) error {
	selected := s.Selected
	if selected == nil {
		selected = []string{}
	}
	payload, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO grid_state(dataset_id, sort_column, sort_direction, page, page_size, selected, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(dataset_id) DO UPDATE SET
	 sort_column=excluded.sort_column,
	 sort_direction=excluded.sort_direction,
	 page=excluded.page,
	 page_size=excluded.page_size,
	 selected=excluded.selected,
	 updated_at=CURRENT_TIMESTAMP;
	`, s.DatasetID, s.SortColumn, s.SortDirection, s.Page, s.PageSize, string(payload))
	return err
}

// Get returns the saved state of a dataset. ok is false when none was saved.
func (r *StateRepo) Get(ctx context.Context, datasetID string) (s GridState, ok bool, err error) {
	var payload string
	err = r.db.QueryRowContext(ctx, `
	SELECT dataset_id, sort_column, sort_direction, page, page_size, selected, updated_at
	FROM grid_state WHERE dataset_id = ?`, datasetID).
		Scan(&s.DatasetID, &s.SortColumn, &s.SortDirection, &s.Page, &s.PageSize, &payload, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GridState{}, false, nil
	}
	if err != nil {
		return GridState{}, false, err
	}
	if err := json.Unmarshal([]byte(payload), &s.Selected); err != nil {
		return GridState{}, false, fmt.Errorf("decode selection: %w", err)
	}
	return s, true, nil
}
