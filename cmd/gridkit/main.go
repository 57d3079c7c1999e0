package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/catalog"
	"github.com/jask/gridkit/internal/config"
	"github.com/jask/gridkit/internal/database"
	"github.com/jask/gridkit/internal/database/repository"
	"github.com/jask/gridkit/internal/export"
	"github.com/jask/gridkit/internal/logging"
	"github.com/jask/gridkit/internal/service"
	"github.com/jask/gridkit/internal/testdata"
	"github.com/jask/gridkit/internal/tui"
	"github.com/jask/gridkit/widgets"
)

type options struct {
	configPath string
	dataset    string
	sort       string
	selectKeys string
	page       int
	pageSize   int
	list       bool
	importPath string
	exportPath string
	format     string
	print      bool
	reset      bool
	generate   int
}

// headless reports whether the run ends without starting the TUI.
func (o options) headless() bool {
	return o.list || o.importPath != "" || o.exportPath != "" || o.print || o.reset || o.generate > 0
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "config file (defaults to $GRIDKIT_CONFIG or ~/.config/gridkit/config.toml)")
	flag.StringVar(&opts.dataset, "dataset", "", "dataset to open (defaults to ui.dataset)")
	flag.StringVar(&opts.sort, "sort", "", "sort column, optionally suffixed with :asc or :desc")
	flag.StringVar(&opts.selectKeys, "select", "", "comma-separated row keys to select")
	flag.IntVar(&opts.page, "page", 0, "page to show")
	flag.IntVar(&opts.pageSize, "page-size", 0, "rows per page")
	flag.BoolVar(&opts.list, "list", false, "list stored datasets and exit")
	flag.StringVar(&opts.importPath, "import", "", "import a TOML catalog or a .parquet file and exit")
	flag.StringVar(&opts.exportPath, "export", "", "write the dataset in display order to this file and exit")
	flag.StringVar(&opts.format, "format", "", "export format: csv|json|parquet (defaults to the file extension)")
	flag.BoolVar(&opts.print, "print", false, "print the current page and exit")
	flag.BoolVar(&opts.reset, "reset", false, "delete every dataset and saved state, then seed the demo datasets")
	flag.IntVar(&opts.generate, "generate", 0, "store this many synthetic rows as the \"generated\" dataset and exit")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("gridkit: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.dataset == "" {
		opts.dataset = cfg.UI.Dataset
	}

	// the TUI owns the terminal, so its logs go to a file
	var logOut io.Writer = os.Stderr
	if !opts.headless() {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New("gridkit", logOut, cfg.Log.Level)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrations != "" {
		err = database.RunMigrationsWithDB(db, cfg.Database.Migrations)
	} else {
		err = database.Migrate(db)
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if opts.reset {
		if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
			return err
		}
		logger.Info().Msg("database reset")
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	datasets := repository.NewDatasetRepo(db)
	rows := repository.NewRowRepo(db)
	grids := &service.GridService{
		Datasets:  datasets,
		Rows:      rows,
		State:     repository.NewStateRepo(db),
		Renderers: catalog.DefaultRenderers(),
		Config:    cfg.Grid,
		Logger:    &logger,
	}

	if opts.importPath != "" {
		ingest := &service.IngestService{Datasets: datasets, Rows: rows}
		res, err := ingest.Import(ctx, opts.importPath)
		if err != nil {
			return fmt.Errorf("import %s: %w", opts.importPath, err)
		}
		logger.Info().Strs("datasets", res.Datasets).Int("rows", res.Rows).Msg("import complete")
	}
	if opts.generate > 0 {
		repos := testdata.Repos{Datasets: datasets, Rows: rows}
		if _, err := testdata.Seed(ctx, repos, "generated", opts.generate, time.Now().UnixNano()); err != nil {
			return err
		}
		logger.Info().Int("rows", opts.generate).Msg("generated dataset stored")
	}
	if opts.list {
		names, err := grids.Names(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}
	}
	if !opts.headless() {
		return runTUI(ctx, grids, opts, &logger)
	}
	if opts.exportPath == "" && !opts.print {
		return nil
	}

	l, err := grids.Open(ctx, opts.dataset)
	if err != nil {
		return err
	}
	if err := applyOptions(l.Grid, opts); err != nil {
		return err
	}
	if opts.print {
		v := l.Grid.View()
		out := widgets.VStack{
			Widgets: []widgets.Widget{
				widgets.Table{View: v, Cursor: -1, Focus: -1},
				widgets.Pager{Pagination: v.Pagination, Nav: v.Nav, Summary: v.Summary},
			},
			Fixed: []int{len(v.Rows) + 1, 1},
		}.Render(120, len(v.Rows)+3)
		fmt.Fprintln(stdout, strings.TrimRight(out, "\n "))
	}
	if opts.exportPath != "" {
		return exportGrid(l.Grid, opts, logger)
	}
	return nil
}

func runTUI(ctx context.Context, grids *service.GridService, opts options, logger *zerolog.Logger) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	app := tui.New(ctx, grids, tui.Options{Dataset: opts.dataset, ExportDir: cwd, Logger: logger})
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func exportGrid(g *datagrid.Grid, opts options, logger zerolog.Logger) error {
	name := opts.format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(opts.exportPath), ".")
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	selectedOnly := g.Selection().Len() > 0
	out := export.Rows(g, selectedOnly)
	if err := export.WriteFile(opts.exportPath, f, g.Columns(), out); err != nil {
		return err
	}
	logger.Info().Str("path", opts.exportPath).Stringer("format", f).Int("rows", len(out)).Msg("export complete")
	return nil
}

// parseSort reads "column", "column:asc" or "column:desc".
func parseSort(s string) (datagrid.SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return datagrid.SortState{}, nil
	}
	col, dir, found := strings.Cut(s, ":")
	if !found {
		dir = "asc"
	}
	d, err := datagrid.ParseSortDirection(strings.ToLower(dir))
	if err != nil {
		return datagrid.SortState{}, err
	}
	return datagrid.SortState{Column: col, Direction: d}, nil
}

// applyOptions applies the sort, selection and paging flags to g. Unknown
// columns and row keys are reported with the closest match.
func applyOptions(g *datagrid.Grid, opts options) error {
	s, err := parseSort(opts.sort)
	if err != nil {
		return err
	}
	if err := g.SetSort(s); err != nil {
		if errors.Is(err, datagrid.ErrColumnNotFound) {
			var keys []string
			for _, c := range g.Columns() {
				keys = append(keys, c.Key)
			}
			if hint := catalog.Suggest(s.Column, keys); hint != "" {
				return fmt.Errorf("%w (did you mean %q?)", err, hint)
			}
		}
		return err
	}

	if opts.selectKeys != "" {
		for _, k := range strings.Split(opts.selectKeys, ",") {
			key := datagrid.RowKey(strings.TrimSpace(k))
			if err := g.SetRowChecked(key, true); err != nil {
				if errors.Is(err, datagrid.ErrRowNotFound) {
					var keys []string
					for _, rk := range g.RowKeys() {
						keys = append(keys, string(rk))
					}
					if hint := catalog.Suggest(string(key), keys); hint != "" {
						return fmt.Errorf("%w (did you mean %q?)", err, hint)
					}
				}
				return err
			}
		}
	}

	if opts.pageSize > 0 {
		if err := g.SetPageSize(opts.pageSize); err != nil {
			return err
		}
	}
	if opts.page > 0 {
		if err := g.GoToPage(opts.page); err != nil {
			return err
		}
	}
	return nil
}
