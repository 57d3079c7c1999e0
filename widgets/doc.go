// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing of a datagrid.View (header, rows, pager)
// - pane chrome, stacks and the popup overlay compositor
//
// Not allowed here:
// - key handling, grid state transitions, or data loading
package widgets
