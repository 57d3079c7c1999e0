package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database/repository"
)

// DatasetID is the stable id of a dataset name.
func DatasetID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("dataset:"+name)).String()
}

// SeedDefaults ensures the demo datasets exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	datasets := repository.NewDatasetRepo(db)
	existing, err := datasets.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	rowRepo := repository.NewRowRepo(db)
	for _, seed := range demoDatasets() {
		if err := datasets.Upsert(ctx, seed.dataset); err != nil {
			return fmt.Errorf("seed %s: %w", seed.dataset.Name, err)
		}
		if err := rowRepo.Replace(ctx, seed.dataset.ID, seed.rows); err != nil {
			return fmt.Errorf("seed %s rows: %w", seed.dataset.Name, err)
		}
	}
	return nil
}

type demoDataset struct {
	dataset repository.Dataset
	rows    []datagrid.Row
}

func demoDatasets() []demoDataset {
	people := repository.Dataset{
		ID:    DatasetID("people"),
		Name:  "people",
		Title: "People",
		Columns: []repository.ColumnSpec{
			{Key: "name", Title: "Name", Sortable: true, Width: 16},
			{Key: "age", Title: "Age", Sortable: true, Type: "number", Width: 5},
			{Key: "email", Title: "Email", Width: 24},
		},
	}
	orders := repository.Dataset{
		ID:     DatasetID("orders"),
		Name:   "orders",
		Title:  "Orders",
		RowKey: "order_no",
		Columns: []repository.ColumnSpec{
			{Key: "order_no", Title: "Order", Sortable: true, Width: 8},
			{Key: "customer", Title: "Customer", Sortable: true, Width: 16},
			{Key: "status", Title: "Status", Sortable: true, Render: "upper", Width: 10},
			{Key: "total", Title: "Total", Sortable: true, Type: "number", Render: "money", Width: 10},
			{Key: "placed", Title: "Placed", Sortable: true, Type: "time", Render: "date", Width: 12},
		},
	}

	var orderRows []datagrid.Row
	customers := []string{"John Doe", "Jane Smith", "Bob Johnson", "Émile Zola", "alice Ng"}
	statuses := []string{"open", "shipped", "cancelled"}
	for i := 0; i < 42; i++ {
		row := datagrid.Row{
			"order_no": fmt.Sprintf("A-%03d", i+1),
			"customer": customers[i%len(customers)],
			"status":   statuses[i%len(statuses)],
			"placed":   fmt.Sprintf("2024-%02d-%02dT10:00:00Z", i%12+1, i%28+1),
		}
		// every seventh order has no total yet
		if i%7 != 6 {
			row["total"] = float64((i*37)%500) + 0.99
		}
		orderRows = append(orderRows, row)
	}

	return []demoDataset{
		{
			dataset: people,
			rows: []datagrid.Row{
				{"name": "John Doe", "age": 30, "email": "john@example.com"},
				{"name": "Jane Smith", "age": 25, "email": "jane@example.com"},
				{"name": "Bob Johnson", "age": 35, "email": "bob@example.com"},
			},
		},
		{dataset: orders, rows: orderRows},
	}
}
