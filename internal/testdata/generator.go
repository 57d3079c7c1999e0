// Package testdata generates synthetic datasets for demos and load tests.
package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database"
	"github.com/jask/gridkit/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Datasets *repository.DatasetRepo
	Rows     *repository.RowRepo
}

var descriptions = []string{"UBER EATS* SUSHI", "AMAZON.COM*XYZ", "WOOLWORTHS", "SPOTIFY", "SALARY ACME", "café Crème"}

var categories = []string{"Food", "Shopping", "Fixed Costs", "Income", ""}

// Columns is the layout of generated rows.
func Columns() []repository.ColumnSpec {
	return []repository.ColumnSpec{
		{Key: "id", Title: "ID", Width: 8},
		{Key: "date", Title: "Date", Sortable: true, Type: "time", Render: "date", Width: 10},
		{Key: "description", Title: "Description", Sortable: true, Width: 20},
		{Key: "category", Title: "Category", Sortable: true, Width: 12},
		{Key: "amount", Title: "Amount", Sortable: true, Type: "number", Render: "money", Width: 10},
		{Key: "pending", Title: "Pending", Sortable: true, Type: "bool", Render: "yesno", Width: 7},
	}
}

// Rows returns n synthetic transactions. The same seed yields the same rows.
// Empty categories are left out of the row so they sort as missing.
func Rows(n int, seed int64) []datagrid.Row {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]datagrid.Row, n)
	for i := range out {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("txn:%d:%d", seed, i)))
		row := datagrid.Row{
			"id":          id.String(),
			"date":        start.AddDate(0, 0, rng.Intn(365)),
			"description": descriptions[rng.Intn(len(descriptions))],
			"amount":      -float64(rng.Intn(20000)+500) / 100,
			"pending":     rng.Intn(10) < 2,
		}
		if c := categories[rng.Intn(len(categories))]; c != "" {
			row["category"] = c
		}
		out[i] = row
	}
	return out
}

// Seed stores n rows generated from seed as dataset name, replacing an
// earlier one.
func Seed(ctx context.Context, repos Repos, name string, n int, seed int64) (repository.Dataset, error) {
	ds := repository.Dataset{
		ID:      database.DatasetID(name),
		Name:    name,
		Title:   fmt.Sprintf("Generated (%d rows)", n),
		RowKey:  "id",
		Columns: Columns(),
	}
	if err := repos.Datasets.Upsert(ctx, ds); err != nil {
		return ds, fmt.Errorf("seed %s: %w", name, err)
	}
	if err := repos.Rows.Replace(ctx, ds.ID, Rows(n, seed)); err != nil {
		return ds, fmt.Errorf("seed %s rows: %w", name, err)
	}
	return ds, nil
}
