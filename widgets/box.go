package widgets

import "github.com/charmbracelet/lipgloss"

// Box frames a child widget with a rounded border and a title line.
type Box struct {
	Title string
	Child Widget
}

func (b Box) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	innerW := max(1, width-4)
	innerH := max(1, height-3)
	content := ""
	if b.Child != nil {
		content = b.Child.Render(innerW, innerH)
	}
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(width - 2)
	return style.Render("[" + b.Title + "]\n" + content)
}
