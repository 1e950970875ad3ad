// Package tuistyles holds the shared lipgloss palette and styles so that the
// tui package and its components can use them without an import cycle.
package tuistyles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#5A4FCF")
	ColorAccent    = lipgloss.Color("#F25D94")
	ColorSuccess   = lipgloss.Color("#04B575")
	ColorDanger    = lipgloss.Color("#FF4672")
	ColorInfo      = lipgloss.Color("#3C9EE7")

	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#8A8A8A")
	ColorBorder     = lipgloss.Color("#444444")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.BorderForeground(ColorPrimary)

	MetricLabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)
	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)

	FieldLabelStyle      = lipgloss.NewStyle().Width(26).Foreground(ColorMuted)
	FieldLabelFocusStyle = FieldLabelStyle.Foreground(ColorPrimary).Bold(true)
	GaugeTrackStyle      = lipgloss.NewStyle().Foreground(ColorBorder)
	GaugeFillStyle       = lipgloss.NewStyle().Foreground(ColorPrimary)
	HelpKeyStyle         = lipgloss.NewStyle().Foreground(ColorPrimary)
	HelpDescStyle        = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle           = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	InfoStyle            = lipgloss.NewStyle().Foreground(ColorInfo)
	AdvisoryStyle        = lipgloss.NewStyle().Foreground(ColorInfo).Italic(true)
)

// MetricTrendStyle colors a change as good or bad
func MetricTrendStyle(good bool) lipgloss.Style {
	if good {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for the direction of a change
func TrendIndicator(up bool) string {
	if up {
		return "↑"
	}
	return "↓"
}
