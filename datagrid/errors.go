package datagrid

import "errors"

// Common errors returned by the datagrid package.
var (
	// ErrEmptyColumnKey is returned when a column has no key.
	ErrEmptyColumnKey = errors.New("column key is empty")

	// ErrDuplicateColumn is returned when two columns share a key.
	ErrDuplicateColumn = errors.New("duplicate column key")

	// ErrColumnNotFound is returned when a column key is not part of the grid.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidSortColumn is returned when sorting is requested on a non-sortable column.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrRowNotFound is returned when a row key is not derivable from the current rows.
	ErrRowNotFound = errors.New("row not found")

	// ErrSelectionDisabled is returned by selection methods on a non-selectable grid.
	ErrSelectionDisabled = errors.New("selection is disabled")

	// ErrPaginationDisabled is returned by navigation methods when pagination is off.
	ErrPaginationDisabled = errors.New("pagination is disabled")

	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("invalid page")

	// ErrInvalidPageSize is returned for page sizes below 1.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidLocale is returned when the collation locale cannot be parsed.
	ErrInvalidLocale = errors.New("invalid locale")
)
