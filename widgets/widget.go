package widgets

// Widget renders itself into a width x height cell area.
type Widget interface {
	Render(width, height int) string
}

// Text is a Widget holding fixed content.
type Text string

func (t Text) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := splitToLines(string(t), height)
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return joinLines(lines)
}

// RightText is Text aligned to the right edge.
type RightText string

func (t RightText) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := splitToLines(string(t), height)
	for i := range lines {
		lines[i] = padLeft(lines[i], width)
	}
	return joinLines(lines)
}
