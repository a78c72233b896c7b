package tui

import (
	"strings"

	"erg-profile/internal/analysis"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor   = lipgloss.Color("#2563EB") // Blue
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// zoneColors run cool to hot, easiest zone first
var zoneColors = map[analysis.Zone]lipgloss.Color{
	analysis.ZoneUT2: lipgloss.Color("#60A5FA"),
	analysis.ZoneUT1: lipgloss.Color("#34D399"),
	analysis.ZoneAT:  lipgloss.Color("#FBBF24"),
	analysis.ZoneTR:  lipgloss.Color("#F97316"),
	analysis.ZoneAN:  lipgloss.Color("#EF4444"),
}

// Styles
var (
	// App chrome
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1)

	// Navigation
	navStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// Cards and boxes
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Metrics
	metricLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(20)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Ratio status
	statusAboveStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	statusBelowStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	statusWithinStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// Table
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor).
				BorderBottom(true).
				BorderForeground(mutedColor).
				Padding(0, 1)

	tableRowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	tableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Background(primaryColor).
				Foreground(textColor).
				Padding(0, 1)

	// Status
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// Help
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	// Progress bar
	progressFullStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// RenderMetric renders a metric with label, value, and optional note
func RenderMetric(label, value, note string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
		mutedStyle.Render(" "+note),
	)
}

// RenderStatus colors a ratio status
func RenderStatus(s analysis.RatioStatus) string {
	switch s {
	case analysis.StatusAbove:
		return statusAboveStyle.Render("▲ above")
	case analysis.StatusBelow:
		return statusBelowStyle.Render("▼ below")
	default:
		return statusWithinStyle.Render("● within")
	}
}

// RenderProgressBar renders an ASCII progress bar
func RenderProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString(progressFullStyle.Render("█"))
		} else {
			b.WriteString(progressEmptyStyle.Render("░"))
		}
	}
	return b.String()
}

// RenderZoneBar renders a distribution as a stacked bar of zone colors
func RenderZoneBar(d analysis.ZoneDistribution, width int) string {
	if d.TotalSeconds <= 0 {
		return progressEmptyStyle.Render(strings.Repeat("░", width))
	}

	var b strings.Builder
	used := 0
	for _, z := range analysis.TrainingZones {
		n := int(d.Percent(z.Zone)*float64(width) + 0.5)
		if used+n > width {
			n = width - used
		}
		if n <= 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(zoneColors[z.Zone]).Render(strings.Repeat("█", n)))
		used += n
	}
	if used < width {
		b.WriteString(progressEmptyStyle.Render(strings.Repeat("░", width-used)))
	}
	return b.String()
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
