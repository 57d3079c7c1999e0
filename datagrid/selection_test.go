package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleRowIsFunctional(t *testing.T) {
	base := NewSelection("a")
	next := ToggleRow(base, "b")

	require.True(t, next.Has("a"))
	require.True(t, next.Has("b"))
	require.False(t, base.Has("b"), "original selection must not change")

	back := ToggleRow(next, "a")
	require.Equal(t, []RowKey{"b"}, back.Keys())
	require.Equal(t, 2, next.Len())
}

func TestSetRow(t *testing.T) {
	sel := SetRow(Selection{}, "a", true)
	sel = SetRow(sel, "a", true)
	require.Equal(t, 1, sel.Len())
	sel = SetRow(sel, "a", false)
	require.Zero(t, sel.Len())
}

func TestToggleAllThenOneOff(t *testing.T) {
	displayed := []RowKey{"x", "y", "z"}

	sel := ToggleAll(true, displayed)
	require.Equal(t, CheckState{Checked: true}, HeaderCheckState(displayed, sel))

	sel = ToggleRow(sel, "y")
	require.Equal(t, CheckState{Indeterminate: true}, HeaderCheckState(displayed, sel))

	sel = ToggleAll(false, displayed)
	require.Zero(t, sel.Len())
	require.Equal(t, CheckState{}, HeaderCheckState(displayed, sel))
}

func TestToggleAllIgnoresDuplicates(t *testing.T) {
	sel := ToggleAll(true, []RowKey{"a", "a", "b"})
	require.Equal(t, []RowKey{"a", "b"}, sel.Keys())
}

func TestHeaderCheckStateEmptyRows(t *testing.T) {
	require.Equal(t, CheckState{}, HeaderCheckState(nil, NewSelection("a")))
}

func TestHeaderCheckStateIgnoresStaleKeys(t *testing.T) {
	displayed := []RowKey{"a", "b"}
	require.Equal(t, CheckState{Indeterminate: true}, HeaderCheckState(displayed, NewSelection("a", "gone")))
	require.Equal(t, CheckState{Checked: true}, HeaderCheckState(displayed, NewSelection("gone", "a", "b")))
	require.Equal(t, CheckState{}, HeaderCheckState(displayed, NewSelection("gone")))
}

func TestSelectedRowsKeepsInputOrder(t *testing.T) {
	rows := people()
	rowKeys := []RowKey{PositionKey(0), PositionKey(1), PositionKey(2)}
	sel := NewSelection(PositionKey(2), PositionKey(0))

	require.Equal(t, []string{"John", "Bob"}, names(SelectedRows(rows, rowKeys, sel)))
	require.Equal(t, []RowKey{PositionKey(2), PositionKey(0)}, sel.Keys())
}
