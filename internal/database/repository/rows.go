package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/jask/gridkit/datagrid"
)

// RowRepo handles dataset rows. Rows are stored as JSON objects in input order.
type RowRepo struct {
	db *sql.DB
}

func NewRowRepo(db *sql.DB) *RowRepo { return &RowRepo{db: db} }

// rowID is stable for a dataset position so reimports keep ids.
func rowID(datasetID string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("row:"+datasetID+":"+strconv.Itoa(position))).String()
}

// Replace swaps every row of the dataset for rows.
func (r *RowRepo) Replace(ctx context.Context, datasetID string, rows []datagrid.Row) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_rows WHERE dataset_id = ?`, datasetID); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO dataset_rows(id, dataset_id, position, payload) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, row := range rows {
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode row %d: %w", i, err)
			}
			if _, err := stmt.ExecContext(ctx, rowID(datasetID, i), datasetID, i, string(payload)); err != nil {
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return nil
	})
}

// List returns the rows of a dataset in input order.
func (r *RowRepo) List(ctx context.Context, datasetID string) ([]datagrid.Row, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM dataset_rows WHERE dataset_id = ? ORDER BY position`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []datagrid.Row
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		row, err := decodeRow(payload)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(out), err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of rows in a dataset.
func (r *RowRepo) Count(ctx context.Context, datasetID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dataset_rows WHERE dataset_id = ?`, datasetID).Scan(&n)
	return n, err
}

// decodeRow keeps whole JSON numbers as int64 so they print without a
// fractional part.
func decodeRow(payload string) (datagrid.Row, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	row := make(datagrid.Row, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				row[k] = i
			} else if f, err := n.Float64(); err == nil {
				row[k] = f
			} else {
				row[k] = n.String()
			}
			continue
		}
		row[k] = v
	}
	return row, nil
}
