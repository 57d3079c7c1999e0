package widgets

import "strings"

// List draws a titled list with a cursor marker.
type List struct {
	Title  string
	Items  []string
	Cursor int
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := make([]string, 0, len(l.Items)+1)
	if l.Title != "" {
		rows = append(rows, l.Title)
	}
	for i, item := range l.Items {
		marker := "  "
		if i == l.Cursor {
			marker = "▶ "
		}
		rows = append(rows, padRight(marker+item, width))
	}
	if len(rows) > height {
		rows = rows[:height]
	}
	return strings.Join(rows, "\n")
}
