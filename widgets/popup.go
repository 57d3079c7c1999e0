package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RenderPopup draws popup in a bordered card centred over base.
func RenderPopup(base, popup string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(popup)
	over := fitCanvas(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card), width, height)
	baseLines := strings.Split(fitCanvas(base, width, height), "\n")
	overLines := strings.Split(over, "\n")

	out := make([]string, height)
	for i := range out {
		start, end, ok := inkBounds(overLines[i], width)
		if !ok {
			out[i] = baseLines[i]
			continue
		}
		left := ansi.Truncate(baseLines[i], start, "")
		mid := ansi.Truncate(dropColumns(overLines[i], start), end-start, "")
		right := dropColumns(baseLines[i], end)
		out[i] = padRight(left+mid+right, width)
	}
	return joinLines(out)
}

// inkBounds returns the column range holding non-blank cells of line.
func inkBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	lead := len(trimmed) - len(strings.TrimLeft(trimmed, " "))
	return ansi.StringWidth(trimmed[:lead]), ansi.StringWidth(trimmed), true
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return joinLines(lines)
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}
