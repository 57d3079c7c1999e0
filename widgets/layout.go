package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VStack stacks widgets top to bottom. Heights follow Ratios, or Fixed
// line counts where set, with the remainder shared by the rest.
type VStack struct {
	Widgets []Widget
	Spacing int
	Ratios  []float64
	// Fixed holds a line count per widget; 0 means flexible.
	Fixed []int
}

func (v VStack) Render(width, height int) string {
	if len(v.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	spacingTotal := max(0, v.Spacing*(len(v.Widgets)-1))
	usable := max(1, height-spacingTotal)
	heights := v.heights(usable)
	lines := make([]string, 0, height)
	for i, w := range v.Widgets {
		if heights[i] > 0 {
			lines = append(lines, splitToLines(w.Render(width, heights[i]), heights[i])...)
		}
		if i < len(v.Widgets)-1 {
			for s := 0; s < v.Spacing; s++ {
				lines = append(lines, "")
			}
		}
	}
	return joinLines(lines)
}

func (v VStack) heights(total int) []int {
	n := len(v.Widgets)
	out := make([]int, n)
	var flex []int
	used := 0
	for i := range out {
		if i < len(v.Fixed) && v.Fixed[i] > 0 {
			out[i] = min(v.Fixed[i], max(0, total-used))
			used += out[i]
			continue
		}
		flex = append(flex, i)
	}
	if len(flex) == 0 {
		return out
	}
	var ratios []float64
	if len(v.Ratios) == n {
		for _, i := range flex {
			ratios = append(ratios, v.Ratios[i])
		}
	}
	split := splitWidths(max(0, total-used), len(flex), ratios)
	for j, i := range flex {
		out[i] = split[j]
	}
	return out
}

// HStack places widgets side by side separated by Gap columns.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	if len(h.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	gapTotal := max(0, h.Gap*(len(h.Widgets)-1))
	usable := max(1, width-gapTotal)
	widths := splitWidths(usable, len(h.Widgets), h.Ratios)
	rendered := make([][]string, len(h.Widgets))
	maxLines := 0
	for i, w := range h.Widgets {
		part := strings.Split(w.Render(max(1, widths[i]), height), "\n")
		rendered[i] = part
		maxLines = max(maxLines, len(part))
	}
	out := make([]string, 0, maxLines)
	for line := 0; line < maxLines; line++ {
		cols := make([]string, len(rendered))
		for i := range rendered {
			if line < len(rendered[i]) {
				cols[i] = padRight(rendered[i][line], widths[i])
			} else {
				cols[i] = strings.Repeat(" ", widths[i])
			}
		}
		out = append(out, strings.Join(cols, strings.Repeat(" ", h.Gap)))
	}
	return joinLines(out)
}

func splitWidths(total, n int, ratios []float64) []int {
	if n <= 0 {
		return nil
	}
	if len(ratios) != n {
		width := total / n
		out := make([]int, n)
		for i := range out {
			out[i] = width
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}
	sum := 0.0
	for _, r := range ratios {
		if r <= 0 {
			r = 1
		}
		sum += r
	}
	out := make([]int, n)
	used := 0
	for i := range out {
		w := int(math.Floor((ratios[i] / sum) * float64(total)))
		out[i] = w
		used += w
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

// padRight truncates or pads s to exactly width cells, ANSI aware.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
