package tui

import (
	"fmt"
	"strings"

	"erg-profile/internal/analysis"
	"erg-profile/internal/config"
	"erg-profile/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chromeHeight is the space reserved for header, nav and footer
const chromeHeight = 6

// ProfileModel is the power profile screen model
type ProfileModel struct {
	queryService *service.QueryService
	display      config.DisplayConfig
	profile      *analysis.PowerProfile
	zones        *service.ZoneSummary
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewProfileModel creates a new profile model
func NewProfileModel(qs *service.QueryService, display config.DisplayConfig, width, height int) ProfileModel {
	m := ProfileModel{
		queryService: qs,
		display:      display,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > chromeHeight {
		m.viewport = viewport.New(width, height-chromeHeight)
		m.ready = true
	}

	return m
}

// Init initializes the profile screen
func (m ProfileModel) Init() tea.Cmd {
	return m.loadProfile
}

type profileLoadedMsg struct {
	profile *analysis.PowerProfile
	zones   *service.ZoneSummary
	err     error
}

func (m ProfileModel) loadProfile() tea.Msg {
	profile, err := m.queryService.GetPowerProfile(m.queryService.SinceDays(m.display.HistoryDays))
	if err != nil {
		return profileLoadedMsg{err: err}
	}

	// Zones are supplementary; the profile still renders without them
	zones, err := m.queryService.GetZoneSummary(service.DefaultZoneSummaryDays)
	if err != nil {
		zones = nil
	}
	return profileLoadedMsg{profile: profile, zones: zones}
}

// Update handles messages
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.profile = msg.profile
		m.zones = msg.zones
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		if m.profile != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadProfile
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the profile screen
func (m ProfileModel) View() string {
	if m.loading {
		return "\n  Loading power profile..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return m.renderContent()
	}

	footer := statusStyle.Render(fmt.Sprintf("  j/k or arrows: scroll  r: refresh  %3.f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ProfileModel) renderContent() string {
	if m.profile == nil {
		return ""
	}

	sections := []string{
		m.renderSummary(),
		m.renderCurve(),
		m.renderRatios(),
	}
	if m.zones != nil && m.zones.Distribution.TotalSeconds > 0 {
		sections = append(sections, m.renderZones())
	}
	if len(m.profile.Gaps) > 0 {
		sections = append(sections, m.renderGaps())
	}
	sections = append(sections, m.renderPrescriptions())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ProfileModel) renderSummary() string {
	p := m.profile
	title := cardTitleStyle.Render("Power Profile")

	ref := "-"
	if p.Anchor2kWatts != nil {
		ref = fmt.Sprintf("%.0fW (%s/500m)", *p.Anchor2kWatts, analysis.FormatPace(analysis.PaceFromWatts(*p.Anchor2kWatts)))
	}
	maxWatts := "-"
	if p.MaxWatts != nil {
		maxWatts = fmt.Sprintf("%.0fW", *p.MaxWatts)
	}
	window := "all history"
	if m.display.HistoryDays > 0 {
		window = fmt.Sprintf("last %d days", m.display.HistoryDays)
	}

	lines := []string{
		RenderMetric("Profile", profileTypeLabel(p.ProfileType), ""),
		RenderMetric("2k reference", ref, ""),
		RenderMetric("Max watts", maxWatts, ""),
		RenderMetric("Completeness", RenderProgressBar(p.DataCompleteness, 20), fmt.Sprintf("%.0f%%", p.DataCompleteness*100)),
		RenderMetric("Window", window, ""),
		"",
		lipgloss.NewStyle().Width(wrapWidth(m.width)).Render(p.ProfileDescription),
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}

func (m ProfileModel) renderCurve() string {
	title := cardTitleStyle.Render("Power Curve (watts, short to long)")

	if len(m.profile.Points) < 2 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("Need at least two best efforts to draw a curve.")))
	}

	watts := make([]float64, len(m.profile.Points))
	labels := make([]string, 0, len(m.profile.Points))
	for i, p := range m.profile.Points {
		watts[i] = p.Watts
		if _, ok := p.Anchor(); ok {
			labels = append(labels, p.Label)
		}
	}

	width := chartWidth(m.width)
	graph := asciigraph.Plot(downsample(watts, width),
		asciigraph.Height(m.display.ChartHeight),
		asciigraph.Width(width),
		asciigraph.Precision(0),
	)

	caption := mutedStyle.Render(truncateName(strings.Join(labels, " · "), width+8))
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, caption))
}

func (m ProfileModel) renderRatios() string {
	title := cardTitleStyle.Render("Ratios to 2k")

	if len(m.profile.Ratios) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("No ratios yet: a 2k reference is required.")))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %7s  %8s  %6s  %13s  %-9s",
		"Anchor", "Watts", "Pace", "Actual", "Expected", "Status"))
	rows := []string{header}
	for _, r := range m.profile.Ratios {
		row := fmt.Sprintf("%-14s  %6.0fW  %8s  %5.0f%%  %5.0f%%-%4.0f%%  ",
			analysis.AnchorLabel(r.Anchor),
			r.ActualWatts,
			analysis.FormatPace(analysis.PaceFromWatts(r.ActualWatts)),
			r.ActualPercent*100,
			r.ExpectedLow*100,
			r.ExpectedHigh*100,
		)
		rows = append(rows, tableRowStyle.Render(row+RenderStatus(r.Status)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m ProfileModel) renderZones() string {
	z := m.zones
	title := cardTitleStyle.Render(fmt.Sprintf("Training Zones (last %d days, %d workouts)", z.Days, z.Workouts))

	lines := []string{RenderZoneBar(z.Distribution, chartWidth(m.width)), ""}
	for _, tz := range analysis.TrainingZones {
		pct := z.Distribution.Percent(tz.Zone)
		swatch := lipgloss.NewStyle().Foreground(zoneColors[tz.Zone]).Render("█")
		lines = append(lines, fmt.Sprintf("%s %-4s %-20s %5.1f%%  %s",
			swatch, tz.Zone, tz.Name, pct*100, formatDuration(int(z.Distribution.Seconds[tz.Zone]))))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}

func (m ProfileModel) renderGaps() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Missing Anchors (%d)", len(m.profile.Gaps)))

	var lines []string
	for _, g := range m.profile.Gaps {
		lines = append(lines, fmt.Sprintf("%-14s %s", g.Label, mutedStyle.Render(g.Suggestion)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}

func (m ProfileModel) renderPrescriptions() string {
	title := cardTitleStyle.Render("Prescriptions")

	if len(m.profile.Prescriptions) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Nothing to prescribe.")))
	}

	var lines []string
	for i, p := range m.profile.Prescriptions {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, sectionStyle.Render(string(p.Zone)))
		lines = append(lines, lipgloss.NewStyle().Width(wrapWidth(m.width)).Render(p.Rationale))
		for _, w := range p.Workouts {
			lines = append(lines, "  • "+w)
		}
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")))
}

var profileTypeLabels = map[analysis.ProfileType]string{
	analysis.ProfileSprinter:         "Sprinter",
	analysis.ProfileDiesel:           "Diesel",
	analysis.ProfileThresholdGap:     "Threshold Gap",
	analysis.ProfileBalanced:         "Balanced",
	analysis.ProfileInsufficientData: "Insufficient Data",
}

func profileTypeLabel(t analysis.ProfileType) string {
	if label, ok := profileTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// chartWidth fits a chart inside a card on the current terminal
func chartWidth(termWidth int) int {
	w := termWidth - 16
	if w < 20 {
		return 60
	}
	if w > 100 {
		return 100
	}
	return w
}

func wrapWidth(termWidth int) int {
	return chartWidth(termWidth) + 8
}
