package export

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/arrowrows"
)

func peopleGrid(t *testing.T) *datagrid.Grid {
	t.Helper()
	g, err := datagrid.New(datagrid.Options{
		Columns: []datagrid.Column{
			{Key: "name", Title: "Name", Sortable: true, Render: func(v any, _ datagrid.Row, _ int) string {
				return strings.ToUpper(datagrid.FormatValue(v))
			}},
			{Key: "age", Title: "Age", Sortable: true},
		},
		Data: []datagrid.Row{
			{"name": "John Doe", "age": 30},
			{"name": "Jane Smith", "age": 25},
			{"name": "Bob Johnson"},
		},
		Selectable: true,
		Pagination: &datagrid.PaginationConfig{PageSize: 1},
	})
	require.NoError(t, err)
	return g
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Parquet ")
	require.NoError(t, err)
	require.Equal(t, FormatParquet, f)
	require.Equal(t, "json", FormatJSON.String())

	_, err = ParseFormat("xlsx")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRowsUseDisplayOrderUnpaginated(t *testing.T) {
	g := peopleGrid(t)
	require.NoError(t, g.ClickHeader("age"))
	require.NoError(t, g.ClickHeader("age"))

	rows := Rows(g, false)
	require.Len(t, rows, 3)
	require.Equal(t, "John Doe", rows[0]["name"])
	require.Equal(t, "Bob Johnson", rows[2]["name"])

	require.NoError(t, g.ToggleRow(datagrid.PositionKey(1)))
	require.NoError(t, g.ToggleRow(datagrid.PositionKey(0)))
	selected := Rows(g, true)
	require.Len(t, selected, 2)
	require.Equal(t, "John Doe", selected[0]["name"])
	require.Equal(t, "Jane Smith", selected[1]["name"])
}

func TestWriteCSV(t *testing.T) {
	g := peopleGrid(t)
	require.NoError(t, g.ClickHeader("name"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, g.Columns(), Rows(g, false)))
	require.Equal(t, "Name,Age\nBOB JOHNSON,\nJANE SMITH,25\nJOHN DOE,30\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	g := peopleGrid(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, g.Columns(), Rows(g, false)))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 3)
	require.Equal(t, "John Doe", out[0]["name"])
	require.Equal(t, float64(30), out[0]["age"])
	require.Nil(t, out[2]["age"])
}

func TestWriteFileParquet(t *testing.T) {
	g := peopleGrid(t)
	require.NoError(t, g.ClickHeader("age"))
	path := filepath.Join(t.TempDir(), "people.parquet")
	require.NoError(t, WriteFile(path, FormatParquet, g.Columns(), Rows(g, false)))

	_, rows, err := arrowrows.ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Jane Smith", rows[0]["name"])
	require.Equal(t, int64(25), rows[0]["age"])
}
