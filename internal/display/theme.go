package display

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/health"
)

// tierColors are the ANSI colors of each health tier.
var tierColors = map[health.Tier]lipgloss.Color{
	health.TierExcellent: lipgloss.Color("10"),
	health.TierGood:      lipgloss.Color("2"),
	health.TierFair:      lipgloss.Color("3"),
	health.TierPoor:      lipgloss.Color("11"),
	health.TierCritical:  lipgloss.Color("9"),
}

// Theme styles rendered text. A theme without color renders plain text.
type Theme struct {
	r     *lipgloss.Renderer
	color bool
}

// NewTheme creates a theme with color forced on or off.
func NewTheme(color bool) *Theme {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Theme{r: r, color: color}
}

// ColorEnabled resolves a color mode (auto, always, never) for f.
// auto enables color only on a terminal when NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Color reports whether the theme emits ANSI sequences.
func (t *Theme) Color() bool { return t.color }

func (t *Theme) fg(c lipgloss.Color, s string) string {
	return t.r.NewStyle().Foreground(c).Render(s)
}

// Bold renders s in bold.
func (t *Theme) Bold(s string) string { return t.r.NewStyle().Bold(true).Render(s) }

// Success renders s in bright green.
func (t *Theme) Success(s string) string { return t.fg("10", s) }

// Error renders s in bright red.
func (t *Theme) Error(s string) string { return t.fg("9", s) }

// Warning renders s in bright yellow.
func (t *Theme) Warning(s string) string { return t.fg("11", s) }

// Info renders s in bright cyan.
func (t *Theme) Info(s string) string { return t.fg("14", s) }

// Dim renders s in gray.
func (t *Theme) Dim(s string) string { return t.fg("8", s) }

// Health renders the classification label in its tier color.
func (t *Theme) Health(c health.Classification) string {
	return t.fg(tierColors[c.Tier], c.Label)
}

// Score renders a score in the color of its tier.
func (t *Theme) Score(score float64) string {
	c := health.Classify(score)
	return t.fg(tierColors[c.Tier], formatFloat(score, 2))
}
