package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// columnGap is the spacing between candidate columns.
const columnGap = 2

// PadRight pads s with spaces to the given display width.
// Width is measured in terminal cells, so wide runes count double.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// MaxWidth returns the widest display width among items.
func MaxWidth(items []string) int {
	max := 0
	for _, it := range items {
		if w := runewidth.StringWidth(it); w > max {
			max = w
		}
	}
	return max
}

// Columns lays items out in as many columns as fit in width, filling
// row by row. A non-positive width puts everything on one row.
func Columns(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}

	cell := MaxWidth(items) + columnGap
	perRow := len(items)
	if width > 0 {
		perRow = width / cell
		if perRow < 1 {
			perRow = 1
		}
	}

	var b strings.Builder
	for i, it := range items {
		last := i == len(items)-1 || (i+1)%perRow == 0
		if last {
			b.WriteString(it)
			if i != len(items)-1 {
				b.WriteString("\n")
			}
			continue
		}
		b.WriteString(PadRight(it, cell))
	}
	return b.String()
}
