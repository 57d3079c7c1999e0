package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/gridkit/datagrid"
)

var (
	activePageStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	disabledNavStyle  = lipgloss.NewStyle().Faint(true)
	pagerSummaryStyle = lipgloss.NewStyle().Faint(true)
)

// Pager draws the navigation affordances, the summary and the page size options.
type Pager struct {
	Pagination datagrid.ResolvedPagination
	Nav        []datagrid.NavItem
	Summary    string
}

// NavLabel is the text of one navigation item.
func NavLabel(it datagrid.NavItem) string {
	switch it.Kind {
	case datagrid.NavPrev:
		return "‹"
	case datagrid.NavNext:
		return "›"
	case datagrid.NavJumpPrev, datagrid.NavJumpNext:
		return "…"
	}
	return strconv.Itoa(it.Page)
}

func (p Pager) Render(width, height int) string {
	if width <= 0 || height <= 0 || !p.Pagination.Enabled {
		return ""
	}
	parts := make([]string, 0, len(p.Nav))
	for _, it := range p.Nav {
		label := NavLabel(it)
		switch {
		case it.Active:
			label = activePageStyle.Render(" " + label + " ")
		case it.Disabled:
			label = disabledNavStyle.Render(label)
		}
		parts = append(parts, label)
	}
	line := strings.Join(parts, " ")
	if p.Summary != "" {
		line += "   " + pagerSummaryStyle.Render(p.Summary)
	}
	if p.Pagination.ShowSizeChanger && len(p.Pagination.PageSizeOptions) > 0 {
		sizes := make([]string, len(p.Pagination.PageSizeOptions))
		for i, s := range p.Pagination.PageSizeOptions {
			sizes[i] = strconv.Itoa(s)
			if s == p.Pagination.PageSize {
				sizes[i] = "[" + sizes[i] + "]"
			}
		}
		line += "   " + strings.Join(sizes, " ") + " / page"
	}
	return padRight(line, width)
}
