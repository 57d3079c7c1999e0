// Package tui is the terminal front end of a data grid over stored datasets.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/gridkit/datagrid"
	"github.com/jask/gridkit/internal/database/repository"
	"github.com/jask/gridkit/internal/export"
	"github.com/jask/gridkit/internal/service"
	"github.com/jask/gridkit/widgets"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

type mode string

const (
	modeGrid   mode = "grid"
	modePicker mode = "picker"
	modeHelp   mode = "help"
)

// Options configure an App.
type Options struct {
	Dataset string
	// ExportDir receives files written by the export action.
	ExportDir string
	Logger    *zerolog.Logger
}

// App is the bubbletea model hosting one grid at a time.
type App struct {
	ctx   context.Context
	grids *service.GridService
	keys  *KeyRegistry
	log   zerolog.Logger
	opts  Options

	loaded  service.Loaded
	ready   bool
	loading string

	mode         mode
	cursor       int
	focus        int
	names        []string
	pickerCursor int

	status string
	err    error
	width  int
	height int
}

type datasetMsg struct{ loaded service.Loaded }

type namesMsg []string

type statusMsg string

type errMsg struct{ err error }

func New(ctx context.Context, grids *service.GridService, opts Options) *App {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &App{
		ctx:     ctx,
		grids:   grids,
		keys:    NewKeyRegistry(),
		log:     log,
		opts:    opts,
		mode:    modeGrid,
		loading: opts.Dataset,
	}
}

func (a *App) Init() tea.Cmd {
	return a.openDataset(a.opts.Dataset)
}

// Grid returns the grid on screen, nil before the first dataset loads.
func (a *App) Grid() *datagrid.Grid {
	if !a.ready {
		return nil
	}
	return a.loaded.Grid
}

func (a *App) openDataset(name string) tea.Cmd {
	return func() tea.Msg {
		l, err := a.grids.Open(a.ctx, name)
		if err != nil {
			return errMsg{err}
		}
		if err := a.grids.Restore(a.ctx, l); err != nil {
			return errMsg{fmt.Errorf("restore %s: %w", name, err)}
		}
		return datasetMsg{l}
	}
}

func (a *App) loadNames() tea.Cmd {
	return func() tea.Msg {
		names, err := a.grids.Names(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return namesMsg(names)
	}
}

// saveThen snapshots the grid now, stores it in the background and then
// runs next. A failed save is logged and does not block next.
func (a *App) saveThen(next tea.Cmd) tea.Cmd {
	if !a.ready {
		return next
	}
	st := a.grids.Snapshot(a.loaded)
	log := a.log.With().Str("dataset", a.loaded.Dataset.Name).Logger()
	return func() tea.Msg {
		if err := a.grids.SaveState(a.ctx, st); err != nil {
			log.Error().Err(err).Msg("save state")
		}
		return next()
	}
}

func (a *App) exportCmd() tea.Cmd {
	g := a.loaded.Grid
	selectedOnly := g.Selectable() && g.Selection().Len() > 0
	rows := export.Rows(g, selectedOnly)
	cols := g.Columns()
	name := fmt.Sprintf("%s-%s.csv", a.loaded.Dataset.Name, time.Now().Format("20060102-150405"))
	path := filepath.Join(a.opts.ExportDir, name)
	return func() tea.Msg {
		if err := export.WriteFile(path, export.FormatCSV, cols, rows); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("exported %d rows to %s", len(rows), path))
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case datasetMsg:
		a.loaded = m.loaded
		a.ready = true
		a.loading = ""
		a.cursor, a.focus = 0, 0
		a.err = nil
		a.status = "opened " + m.loaded.Dataset.Name
	case namesMsg:
		a.names = m
		a.pickerCursor = 0
		for i, n := range m {
			if a.ready && n == a.loaded.Dataset.Name {
				a.pickerCursor = i
			}
		}
	case statusMsg:
		a.status = string(m)
		a.err = nil
	case errMsg:
		a.err = m.err
		a.loading = ""
		a.log.Error().Err(m.err).Msg("action failed")
		if !a.ready && datasetNotFound(m.err) {
			a.mode = modePicker
			return a, a.loadNames()
		}
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) scope() string {
	switch a.mode {
	case modePicker:
		return scopePicker
	case modeHelp:
		return scopeHelp
	}
	return scopeGrid
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.Lookup(m.String(), a.scope())
	if b == nil {
		return a, nil
	}
	if b.Action == actionQuit {
		return a, a.saveThen(tea.Quit)
	}
	switch a.mode {
	case modePicker:
		return a.handlePickerAction(b.Action)
	case modeHelp:
		if b.Action == actionClose || b.Action == actionHelp {
			a.mode = modeGrid
		}
		return a, nil
	}
	return a.handleGridAction(b.Action)
}

func (a *App) handlePickerAction(act Action) (tea.Model, tea.Cmd) {
	switch act {
	case actionRowUp:
		if a.pickerCursor > 0 {
			a.pickerCursor--
		}
	case actionRowDown:
		if a.pickerCursor < len(a.names)-1 {
			a.pickerCursor++
		}
	case actionClose:
		a.mode = modeGrid
	case actionSelect:
		a.mode = modeGrid
		if a.pickerCursor >= len(a.names) {
			return a, nil
		}
		name := a.names[a.pickerCursor]
		if a.ready && name == a.loaded.Dataset.Name {
			return a, nil
		}
		a.loading = name
		return a, a.saveThen(a.openDataset(name))
	}
	return a, nil
}

func (a *App) handleGridAction(act Action) (tea.Model, tea.Cmd) {
	switch act {
	case actionHelp:
		a.mode = modeHelp
		return a, nil
	case actionDatasets:
		a.mode = modePicker
		return a, a.loadNames()
	}
	if !a.ready {
		return a, nil
	}
	g := a.loaded.Grid
	v := g.View()
	a.err = nil

	switch act {
	case actionRowUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionRowDown:
		if a.cursor < len(v.Rows)-1 {
			a.cursor++
		}
	case actionColumnLeft:
		if a.focus > 0 {
			a.focus--
		}
	case actionColumnRight:
		if a.focus < len(v.Columns)-1 {
			a.focus++
		}
	case actionSort:
		a.sortFocused(g, v)
	case actionToggleRow:
		if a.cursor < len(v.Rows) {
			a.report(g.ToggleRow(v.Rows[a.cursor].Key))
		}
	case actionToggleAll:
		a.report(g.ToggleAll(!v.Header.Checked))
	case actionClearSelection:
		a.report(g.ClearSelection())
	case actionNextPage:
		if g.NextPage() {
			a.cursor = 0
		}
	case actionPrevPage:
		if g.PrevPage() {
			a.cursor = 0
		}
	case actionFirstPage:
		a.goTo(g, 1)
	case actionLastPage:
		a.goTo(g, max(1, v.Pagination.PageCount))
	case actionPageSizeUp:
		a.stepPageSize(g, v.Pagination, 1)
	case actionPageSizeDown:
		a.stepPageSize(g, v.Pagination, -1)
	case actionReset:
		g.Reset()
		a.cursor = 0
		a.status = "reset"
	case actionExport:
		a.status = "exporting..."
		return a, a.exportCmd()
	}
	a.clampCursor()
	return a, nil
}

func (a *App) sortFocused(g *datagrid.Grid, v datagrid.View) {
	if a.focus >= len(v.Columns) {
		return
	}
	h := v.Columns[a.focus]
	if !h.Sortable {
		a.status = fmt.Sprintf("%s is not sortable", h.Title)
		return
	}
	if err := g.ClickHeader(h.Key); err != nil {
		a.report(err)
		return
	}
	s := g.Sort()
	if s.IsSorted() {
		a.status = fmt.Sprintf("sorted by %s %s", h.Title, s.Direction)
	}
}

func (a *App) goTo(g *datagrid.Grid, page int) {
	if err := g.GoToPage(page); err != nil {
		a.report(err)
		return
	}
	a.cursor = 0
}

// stepPageSize moves to the neighbouring page size option.
func (a *App) stepPageSize(g *datagrid.Grid, p datagrid.ResolvedPagination, step int) {
	if !p.Enabled || len(p.PageSizeOptions) == 0 {
		return
	}
	idx := -1
	for i, s := range p.PageSizeOptions {
		if s == p.PageSize {
			idx = i
			break
		}
	}
	next := idx + step
	if idx < 0 {
		next = 0
	}
	if next < 0 || next >= len(p.PageSizeOptions) {
		return
	}
	if err := g.SetPageSize(p.PageSizeOptions[next]); err != nil {
		a.report(err)
		return
	}
	a.status = fmt.Sprintf("%d / page", p.PageSizeOptions[next])
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, datagrid.ErrSelectionDisabled) {
		a.status = "selection is off for this grid"
		return
	}
	a.err = err
}

func (a *App) clampCursor() {
	n := len(a.loaded.Grid.PageRows())
	if a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

func (a *App) View() string {
	width, height := a.width, a.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	base := a.renderBase(width, height)
	switch a.mode {
	case modePicker:
		list := widgets.List{Title: "Datasets", Items: a.names, Cursor: a.pickerCursor}
		return widgets.RenderPopup(base, list.Render(30, len(a.names)+1), width, height)
	case modeHelp:
		lines := make([]string, 0, 24)
		for _, b := range a.keys.HelpBindings(scopeGrid) {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("%-8s %s", h.Key, h.Desc))
		}
		for _, b := range a.keys.HelpBindings(scopeGlobal) {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("%-8s %s", h.Key, h.Desc))
		}
		return widgets.RenderPopup(base, strings.Join(lines, "\n"), width, height)
	}
	return base
}

func (a *App) renderBase(width, height int) string {
	header := titleStyle.Render("gridkit")
	if a.ready {
		header += " · " + a.loaded.Dataset.Title
	}
	if a.loading != "" {
		header += statusStyle.Render("  loading " + a.loading + "...")
	}

	var body widgets.Widget = widgets.Text("No dataset loaded")
	if a.ready {
		v := a.loaded.Grid.View()
		title := a.loaded.Dataset.Title
		if v.SelectedCount > 0 {
			title = fmt.Sprintf("%s · %d selected", title, v.SelectedCount)
		}
		body = widgets.Box{
			Title: title,
			Child: widgets.VStack{
				Widgets: []widgets.Widget{
					widgets.Table{View: v, Cursor: a.cursor, Focus: a.focus},
					widgets.Pager{Pagination: v.Pagination, Nav: v.Nav, Summary: v.Summary},
				},
				Spacing: 1,
				Fixed:   []int{0, 1},
			},
		}
	}

	status := statusStyle.Render(a.status)
	if a.err != nil {
		status = errorStyle.Render("error: " + a.err.Error())
	}
	footer := footerStyle.Render(renderHelp(a.keys.HelpBindings(a.scope())))
	statusLine := widgets.HStack{
		Widgets: []widgets.Widget{widgets.Text(status), widgets.RightText(a.selectionLabel())},
		Ratios:  []float64{3, 1},
		Gap:     1,
	}

	return widgets.VStack{
		Widgets: []widgets.Widget{
			widgets.Text(header),
			body,
			statusLine,
			widgets.Text(footer),
		},
		Fixed: []int{1, 0, 1, 1},
	}.Render(width, height)
}

// selectionLabel counts selected rows against the rows on display.
func (a *App) selectionLabel() string {
	if !a.ready || !a.loaded.Grid.Selectable() {
		return ""
	}
	g := a.loaded.Grid
	return statusStyle.Render(fmt.Sprintf("%d of %d selected", len(g.SelectedRows()), len(g.DisplayKeys())))
}

// datasetNotFound reports whether err is an unknown dataset.
func datasetNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
