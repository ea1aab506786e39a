package dash

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Dashboard color palette
const (
	ColorBorder        = lipgloss.Color("#2A2A4A")
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")
	ColorAccent        = lipgloss.Color("#FF2E97")
	ColorGraph         = lipgloss.Color("#39FF14")
)

// ANSI fallbacks for terminals without truecolor support.
var ansiSeriesPalette = []lipgloss.Color{
	lipgloss.Color("2"),  // green
	lipgloss.Color("4"),  // blue
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("6"),  // cyan
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("1"),  // red
	lipgloss.Color("10"), // bright green
	lipgloss.Color("12"), // bright blue
}

var trueColorSeriesPalette = []lipgloss.Color{
	lipgloss.Color("#39FF14"), // neon green
	lipgloss.Color("#00FFFF"), // neon cyan
	lipgloss.Color("#FFAA00"), // electric amber
	lipgloss.Color("#FF2E97"), // neon pink
	lipgloss.Color("#BF40FF"), // neon purple
	lipgloss.Color("#FF0055"), // hot red-pink
}

// hasTrueColor is detected once at startup.
var hasTrueColor = termenv.ColorProfile() == termenv.TrueColor

// seriesColor returns the line color for a series slot.
func seriesColor(slot int) lipgloss.Color {
	palette := ansiSeriesPalette
	if hasTrueColor {
		palette = trueColorSeriesPalette
	}
	return palette[slot%len(palette)]
}

// Base styles for the dashboard
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Faint(true)

	AxisStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	WaitingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	LegendStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)
