package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/jptax/internal/tui/tuistyles"
)

// BracketGauge shows how far taxable income has progressed through its
// current bracket.
type BracketGauge struct {
	Label    string
	Lower    float64
	Upper    float64 // zero for the open-ended top bracket
	Value    float64
	Width    int
	RateText string
}

// NewBracketGauge creates a gauge for value within [lower, upper]
func NewBracketGauge(label string, value, lower, upper float64) *BracketGauge {
	return &BracketGauge{
		Label: label,
		Lower: lower,
		Upper: upper,
		Value: value,
		Width: 40,
	}
}

// WithRate sets the rate text shown next to the label
func (g *BracketGauge) WithRate(rate string) *BracketGauge {
	g.RateText = rate
	return g
}

// WithWidth sets the bar width
func (g *BracketGauge) WithWidth(width int) *BracketGauge {
	g.Width = width
	return g
}

// Fraction returns how far Value is between Lower and Upper, in [0,1].
// The top bracket has no upper bound and always reads as full.
func (g *BracketGauge) Fraction() float64 {
	if g.Upper <= g.Lower {
		return 1
	}
	f := (g.Value - g.Lower) / (g.Upper - g.Lower)
	return math.Max(0, math.Min(1, f))
}

// Render returns the styled gauge
func (g *BracketGauge) Render() string {
	var content strings.Builder

	title := g.Label
	if g.RateText != "" {
		title = fmt.Sprintf("%s (%s)", g.Label, g.RateText)
	}
	content.WriteString(tuistyles.MetricLabelStyle.Render(title))
	content.WriteString("\n")
	content.WriteString(g.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	upper := "∞"
	if g.Upper > g.Lower {
		upper = formatYenShort(g.Upper)
	}
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(fmt.Sprintf("%s  ─  %s", formatYenShort(g.Lower), upper)))

	return content.String()
}

func (g *BracketGauge) renderBar() string {
	filled := int(math.Round(float64(g.Width) * g.Fraction()))
	if filled < 0 {
		filled = 0
	}
	if filled > g.Width {
		filled = g.Width
	}
	empty := g.Width - filled

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(tuistyles.GaugeFillStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(tuistyles.GaugeFillStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(tuistyles.GaugeTrackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")
	return bar.String()
}

func formatYenShort(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("¥%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("¥%.0fK", v/1e3)
	default:
		return fmt.Sprintf("¥%.0f", v)
	}
}
