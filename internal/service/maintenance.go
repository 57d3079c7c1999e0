package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/gridkit/internal/database"
)

// MaintenanceService houses destructive actions exposed by the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes every dataset and saved grid state. The schema stays intact
// so defaults can be seeded again.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"grid_state",
			"dataset_rows",
			"dataset_columns",
			"datasets",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
