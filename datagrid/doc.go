// Package datagrid holds the headless state of a data grid: sort order, row
// selection and pagination over an immutable input of rows and columns.
//
// Allowed here:
// - pure derived views (display order, page slice, header checkbox state)
// - interaction state transitions and the callbacks they fire
// - per-instance defaults (pagination, locale, row key source)
//
// Not allowed here:
// - rendering, styling, key handling or terminal concerns (see widgets and internal/tui)
// - data fetching or persistence; the host owns its rows
package datagrid
