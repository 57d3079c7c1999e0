package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/gridkit/datagrid"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[database]
path = %q

[log]
level = "warn"
file = %q
`, filepath.Join(dir, "gridkit.db"), filepath.Join(dir, "gridkit.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		in   string
		want datagrid.SortState
	}{
		{"", datagrid.SortState{}},
		{"age", datagrid.SortState{Column: "age", Direction: datagrid.SortAscending}},
		{"age:desc", datagrid.SortState{Column: "age", Direction: datagrid.SortDescending}},
		{"name:ASC", datagrid.SortState{Column: "name", Direction: datagrid.SortAscending}},
	}
	for _, c := range cases {
		got, err := parseSort(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}
	_, err := parseSort("age:up")
	require.Error(t, err)
}

func TestRunListsSeededDatasets(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{configPath: writeConfig(t), list: true}, &out)
	require.NoError(t, err)
	require.Equal(t, "orders\npeople\n", out.String())
}

func TestRunPrintsSortedPage(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{
		configPath: writeConfig(t),
		dataset:    "people",
		sort:       "age:desc",
		print:      true,
	}, &out)
	require.NoError(t, err)
	text := out.String()
	require.Less(t, strings.Index(text, "Bob Johnson"), strings.Index(text, "Jane Smith"))
	require.Contains(t, text, "Age ▼")
	require.Contains(t, text, "1-3 of 3 items")
}

func TestRunExportsSelection(t *testing.T) {
	cfg := writeConfig(t)
	path := filepath.Join(t.TempDir(), "people.csv")
	err := run(context.Background(), options{
		configPath: cfg,
		dataset:    "people",
		sort:       "name",
		selectKeys: "#0,#2",
		exportPath: path,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Name,Age,Email\nBob Johnson,35,bob@example.com\nJohn Doe,30,john@example.com\n", string(body))
}

func TestRunUnknownSortColumnSuggests(t *testing.T) {
	err := run(context.Background(), options{
		configPath: writeConfig(t),
		dataset:    "people",
		sort:       "agee",
		print:      true,
	}, &bytes.Buffer{})
	require.ErrorIs(t, err, datagrid.ErrColumnNotFound)
	require.Contains(t, err.Error(), `did you mean "age"`)
}

func TestRunImportsCatalog(t *testing.T) {
	cfg := writeConfig(t)
	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
[[dataset]]
name = "colors"

  [[dataset.column]]
  key = "name"
  sortable = true

  [[dataset.row]]
  name = "red"
`), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), options{configPath: cfg, importPath: catalogPath, list: true}, &out)
	require.NoError(t, err)
	require.Equal(t, "colors\norders\npeople\n", out.String())
}

func TestRunGeneratesDataset(t *testing.T) {
	cfg := writeConfig(t)
	var out bytes.Buffer
	err := run(context.Background(), options{configPath: cfg, generate: 25, list: true}, &out)
	require.NoError(t, err)
	require.Equal(t, "generated\norders\npeople\n", out.String())

	out.Reset()
	err = run(context.Background(), options{configPath: cfg, dataset: "generated", pageSize: 20, page: 2, print: true}, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "21-25 of 25 items")
}
