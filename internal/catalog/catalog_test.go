package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database/repository"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const inlineCatalog = `
[[dataset]]
name = "people"
title = "People"

  [[dataset.column]]
  key = "name"
  title = "Name"
  sortable = true
  render = "upper"

  [[dataset.column]]
  key = "joined"
  type = "time"
  sortable = true

  [[dataset.row]]
  name = "John Doe"
  joined = 2023-04-01T00:00:00Z

  [[dataset.row]]
  name = "Jane Smith"
  joined = "2022-01-15"
`

func TestLoadInlineRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.toml", inlineCatalog)

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Datasets, 1)
	d := f.Datasets[0]
	require.Equal(t, "people", d.Name)
	require.Len(t, d.Columns, 2)

	rows, err := d.GridRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), rows[0]["joined"].(time.Time).UTC())
	require.Equal(t, time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC), rows[1]["joined"])

	cols, err := Columns(d.Specs(), DefaultRenderers())
	require.NoError(t, err)
	require.Equal(t, "JOHN DOE", cols[0].Cell(rows[0], 0))
	require.Equal(t, "joined", cols[1].Title)
}

func TestLoadCSVSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "people.csv", "name, age\nJohn,30\nJane,\n")
	path := writeFile(t, dir, "catalog.toml", `
[[dataset]]
name = "csvpeople"
csv = "people.csv"
`)

	f, err := Load(path)
	require.NoError(t, err)
	d := f.Datasets[0]
	require.Len(t, d.Columns, 2)
	require.Equal(t, "age", d.Columns[1].Key)
	require.True(t, d.Columns[1].Sortable)
	require.Len(t, d.Rows, 2)
	require.Equal(t, "30", d.Rows[0]["age"])
	_, has := d.Rows[1]["age"]
	require.False(t, has)
}

func TestLoadUnknownKeySuggests(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.toml", `
[[dataset]]
name = "x"
  [[dataset.column]]
  key = "a"
  sortabel = true
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), `did you mean "sortable"?`)
}

func TestLoadValidation(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"no name":    "[[dataset]]\ntitle = \"x\"\n",
		"no columns": "[[dataset]]\nname = \"x\"\n",
		"duplicate":  "[[dataset]]\nname = \"x\"\n[[dataset.column]]\nkey = \"a\"\n[[dataset]]\nname = \"x\"\n[[dataset.column]]\nkey = \"a\"\n",
		"renderer":   "[[dataset]]\nname = \"x\"\n[[dataset.column]]\nkey = \"a\"\nrender = \"uper\"\n",
		"type":       "[[dataset]]\nname = \"x\"\n[[dataset.column]]\nkey = \"a\"\ntype = \"decimal\"\n",
	}
	for name, body := range tests {
		path := writeFile(t, dir, name+".toml", body)
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestLookupSuggestsRenderer(t *testing.T) {
	_, err := DefaultRenderers().Lookup("uper")
	require.ErrorIs(t, err, ErrInvalid)
	require.Contains(t, err.Error(), `did you mean "upper"?`)

	_, err = DefaultRenderers().Lookup("sparkline")
	require.ErrorIs(t, err, ErrInvalid)
	require.NotContains(t, err.Error(), "did you mean")
}

func TestDefaultRenderers(t *testing.T) {
	reg := DefaultRenderers()
	render := func(name string, v any, index int) string {
		fn, err := reg.Lookup(name)
		require.NoError(t, err)
		return fn(v, datagrid.Row{}, index)
	}
	require.Equal(t, "12.50", render("money", 12.5, 0))
	require.Equal(t, "7.00", render("money", int64(7), 0))
	require.Equal(t, "", render("money", nil, 0))
	require.Equal(t, "2024-03-09", render("date", time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC), 0))
	require.Equal(t, "yes", render("yesno", true, 0))
	require.Equal(t, "no", render("yesno", false, 0))
	require.Equal(t, "3", render("rownum", "ignored", 2))
	require.Equal(t, "mixed", render("lower", "MiXeD", 0))
	require.Equal(t, []string{"date", "lower", "money", "rownum", "upper", "yesno"}, reg.Names())
}

func TestCoerce(t *testing.T) {
	specs := []repository.ColumnSpec{
		{Key: "n", Type: TypeNumber},
		{Key: "f", Type: TypeNumber},
		{Key: "b", Type: TypeBool},
		{Key: "s", Type: TypeString},
		{Key: "raw"},
	}
	in := []datagrid.Row{{"n": "42", "f": " 1.5 ", "b": "true", "s": 9, "raw": "x"}, {"n": "", "b": false}}

	out, err := Coerce(in, specs)
	require.NoError(t, err)
	require.Equal(t, datagrid.Row{"n": int64(42), "f": 1.5, "b": true, "s": "9", "raw": "x"}, out[0])
	require.Equal(t, datagrid.Row{"n": nil, "b": false}, out[1])
	require.Equal(t, "42", in[0]["n"], "input rows are not modified")

	_, err = Coerce([]datagrid.Row{{"n": "abc"}}, specs)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestKeySource(t *testing.T) {
	require.True(t, KeySource("").IsZero())
	k, degraded := KeySource("sku").Key(datagrid.Row{"sku": "a-1"}, 0)
	require.Equal(t, datagrid.RowKey("a-1"), k)
	require.False(t, degraded)
}

func TestSuggest(t *testing.T) {
	require.Equal(t, "people", Suggest("peeple", []string{"orders", "people"}))
	require.Equal(t, "orders", Suggest("ORDERS", []string{"orders", "people"}))
	require.Empty(t, Suggest("inventory", []string{"orders", "people"}))
	require.Empty(t, Suggest("", []string{"orders"}))
}
