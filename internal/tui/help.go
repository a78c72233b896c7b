package tui

import (
	"fmt"
	"strings"

	"erg-profile/internal/analysis"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Power profile"},
		{"2", "Workouts"},
		{"3", "Personal records"},
		{"4 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	}))

	sections = append(sections, m.renderSection("Power Profile", []keyHelp{
		{"j / k", "Scroll"},
		{"r", "Refresh"},
	}))

	sections = append(sections, m.renderSection("Workouts", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"m", "Load more"},
		{"r", "Refresh list"},
	}))

	sections = append(sections, m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
		{"esc", "Cancel a running sync"},
	}))

	sections = append(sections, m.renderZonesHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderZonesHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionStyle.Render("Training Zones (% of 2k watts)"))
	lines = append(lines, "")

	for _, z := range analysis.TrainingZones {
		band := fmt.Sprintf("%.0f%%+", z.MinPct*100)
		if z.MaxPct > 0 {
			band = fmt.Sprintf("%.0f-%.0f%%", z.MinPct*100, z.MaxPct*100)
		}
		swatch := lipgloss.NewStyle().Foreground(zoneColors[z.Zone]).Render("█")
		lines = append(lines, fmt.Sprintf("  %s %s %s", swatch, helpKeyStyle.Render(fmt.Sprintf("%-4s", z.Zone)),
			mutedStyle.Render(fmt.Sprintf("%-20s %s", z.Name, band))))
	}

	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("  Pace is per 500m. Watts = 2.80 / (pace/500)^3."))

	return strings.Join(lines, "\n")
}
