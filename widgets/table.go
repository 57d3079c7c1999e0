package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/gridkit/datagrid"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	activeSortStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	focusStyle      = lipgloss.NewStyle().Reverse(true)
	cursorStyle     = lipgloss.NewStyle().Reverse(true)
	checkedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	emptyStyle      = lipgloss.NewStyle().Faint(true).Italic(true)
)

const (
	minColumnWidth = 3
	maxColumnWidth = 40
	columnGap      = 2
)

// Checkbox returns the glyph of a header checkbox state.
func Checkbox(s datagrid.CheckState) string {
	switch {
	case s.Checked:
		return "[x]"
	case s.Indeterminate:
		return "[-]"
	}
	return "[ ]"
}

func rowCheckbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// Table draws the header and page rows of a grid view.
type Table struct {
	View datagrid.View
	// Cursor is the highlighted row within the page, -1 for none.
	Cursor int
	// Focus is the column whose header is focused, -1 for none.
	Focus int
}

// ColumnWidths returns the width of every column: the declared Width when
// set, otherwise the widest of title and cells, clamped.
func ColumnWidths(v datagrid.View) []int {
	widths := make([]int, len(v.Columns))
	for i, h := range v.Columns {
		if h.Width > 0 {
			widths[i] = h.Width
			continue
		}
		w := ansi.StringWidth(headerLabel(h))
		for _, r := range v.Rows {
			if i < len(r.Cells) {
				w = max(w, ansi.StringWidth(r.Cells[i]))
			}
		}
		widths[i] = min(maxColumnWidth, max(minColumnWidth, w))
	}
	return widths
}

func headerLabel(h datagrid.HeaderCell) string {
	label := h.Title
	if label == "" {
		label = h.Key
	}
	if ind := h.Direction.Indicator(); ind != "" {
		label += " " + ind
	}
	return label
}

func (t Table) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(t.View.Columns) == 0 {
		return padRight("No columns", width)
	}
	widths := ColumnWidths(t.View)
	gap := strings.Repeat(" ", columnGap)

	header := make([]string, 0, len(widths)+1)
	if t.View.Selectable {
		header = append(header, Checkbox(t.View.Header))
	}
	for i, h := range t.View.Columns {
		cell := padRight(headerLabel(h), widths[i])
		switch {
		case i == t.Focus:
			cell = focusStyle.Render(cell)
		case h.Direction != datagrid.SortNone:
			cell = activeSortStyle.Render(cell)
		default:
			cell = headerStyle.Render(cell)
		}
		header = append(header, cell)
	}
	lines := []string{padRight("  "+strings.Join(header, gap), width)}

	if len(t.View.Rows) == 0 {
		lines = append(lines, padRight("  "+emptyStyle.Render("No data"), width))
	}
	for i, r := range t.View.Rows {
		if len(lines) >= height {
			break
		}
		cells := make([]string, 0, len(widths)+1)
		if t.View.Selectable {
			cells = append(cells, rowCheckbox(r.Checked))
		}
		for c := range t.View.Columns {
			text := ""
			if c < len(r.Cells) {
				text = r.Cells[c]
			}
			cells = append(cells, padRight(text, widths[c]))
		}
		marker := "  "
		if i == t.Cursor {
			marker = "▶ "
		}
		line := padRight(marker+strings.Join(cells, gap), width)
		switch {
		case i == t.Cursor:
			line = cursorStyle.Render(line)
		case r.Checked:
			line = checkedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return joinLines(lines)
}
