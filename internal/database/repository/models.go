package repository

import "time"

// Dataset is a named table of rows together with its column layout.
type Dataset struct {
	ID        string
	Name      string
	Title     string
	RowKey    string
	Columns   []ColumnSpec
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ColumnSpec is a persisted column descriptor.
type ColumnSpec struct {
	Key       string
	Title     string
	DataIndex string
	Sortable  bool
	// Render names a renderer registered with the catalog.
	Render string
	Width  int
	// Type is the value type rows are coerced to on load: string, number,
	// bool or time. Empty keeps decoded JSON values.
	Type string
}

// GridState is the saved interaction state of one dataset.
type GridState struct {
	DatasetID     string
	SortColumn    string
	SortDirection string
	Page          int
	PageSize      int
	Selected      []string
	UpdatedAt     time.Time
}
