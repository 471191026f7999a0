package display

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Panel widths including the border columns.
const (
	LeftWidth  = 50
	RightWidth = 65
)

// Fit truncates or pads s to exactly width display cells.
// ANSI sequences and wide runes are measured by their rendered width.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = truncate.String(s, uint(width))
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// PadLeft wraps text in left panel borders.
func PadLeft(text string) string {
	return "│" + Fit(text, LeftWidth-2) + "│"
}

// PadRight wraps text in right panel borders.
func PadRight(text string) string {
	return "│" + Fit(text, RightWidth-2) + "│"
}

func top(width int) string    { return "╭" + strings.Repeat("─", width-2) + "╮" }
func bottom(width int) string { return "╰" + strings.Repeat("─", width-2) + "╯" }

// SideBySide joins left and right panel rows into bordered columns.
// The shorter side is padded with empty rows.
func SideBySide(left, right []string) string {
	n := max(len(left), len(right))
	var b strings.Builder
	b.WriteString(top(LeftWidth) + " " + top(RightWidth) + "\n")
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		b.WriteString(PadLeft(l) + " " + PadRight(r) + "\n")
	}
	b.WriteString(bottom(LeftWidth) + " " + bottom(RightWidth) + "\n")
	return b.String()
}

// Box renders rows inside a single bordered panel of the given width.
func Box(width int, rows []string) string {
	var b strings.Builder
	b.WriteString(top(width) + "\n")
	for _, r := range rows {
		b.WriteString("│" + Fit(r, width-2) + "│\n")
	}
	b.WriteString(bottom(width) + "\n")
	return b.String()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
