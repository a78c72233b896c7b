package tui

import (
	"fmt"
	"strings"

	"erg-profile/internal/analysis"
	"erg-profile/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const zoneBarWidth = 20

// WorkoutsModel is the recent workouts screen model
type WorkoutsModel struct {
	queryService *service.QueryService
	workouts     []service.WorkoutSummary
	total        int
	cursor       int
	limit        int
	loading      bool
	err          error
}

// NewWorkoutsModel creates a new workouts model
func NewWorkoutsModel(qs *service.QueryService) WorkoutsModel {
	return WorkoutsModel{
		queryService: qs,
		limit:        service.RecentWorkoutsLimit,
		loading:      true,
	}
}

// Init initializes the workouts screen
func (m WorkoutsModel) Init() tea.Cmd {
	return m.loadWorkouts
}

type workoutsLoadedMsg struct {
	workouts []service.WorkoutSummary
	total    int
	err      error
}

func (m WorkoutsModel) loadWorkouts() tea.Msg {
	workouts, err := m.queryService.GetRecentWorkouts(m.limit)
	if err != nil {
		return workoutsLoadedMsg{err: err}
	}

	total, err := m.queryService.CountWorkouts()
	if err != nil {
		return workoutsLoadedMsg{err: err}
	}

	return workoutsLoadedMsg{workouts: workouts, total: total}
}

// Update handles messages
func (m WorkoutsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workoutsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.workouts = msg.workouts
		m.total = msg.total
		if m.cursor >= len(m.workouts) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.workouts)-1 {
				m.cursor++
			}
		case "m":
			// Show more history
			if len(m.workouts) < m.total {
				m.limit += service.RecentWorkoutsLimit
				m.loading = true
				return m, m.loadWorkouts
			}
		case "r":
			m.loading = true
			return m, m.loadWorkouts
		}
	}
	return m, nil
}

// View renders the workouts list
func (m WorkoutsModel) View() string {
	if m.loading {
		return "\n  Loading workouts..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.workouts) == 0 {
		return "\n  No workouts found. Press 's' to sync with the Logbook, or run with --import file.fit."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Workouts (%d of %s)", len(m.workouts), humanize.Comma(int64(m.total))))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-14s  %-20s  %8s  %8s  %6s  %-*s",
		"When", "Workout", "Distance", "Pace", "Watts", zoneBarWidth, "Zones"))
	sections = append(sections, header)

	for i, ws := range m.workouts {
		w := ws.Workout

		pace := "-"
		watts := "-"
		if ws.Pace > 0 {
			pace = analysis.FormatPace(ws.Pace)
			watts = fmt.Sprintf("%.0f", ws.Watts)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-14s  %-20s  %7sm  %8s  %6s  ",
			cursor,
			truncateName(humanize.Time(w.CompletedAt), 14),
			truncateName(ws.Label, 20),
			humanize.Comma(int64(w.Distance)),
			pace,
			watts,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row)+RenderZoneBar(ws.Zones, zoneBarWidth))
		} else {
			sections = append(sections, tableRowStyle.Render(row)+RenderZoneBar(ws.Zones, zoneBarWidth))
		}
	}

	if m.cursor < len(m.workouts) {
		sections = append(sections, m.renderSelected(m.workouts[m.cursor]))
	}

	help := "\n  j/k: navigate  r: refresh"
	if len(m.workouts) < m.total {
		help += "  m: more"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WorkoutsModel) renderSelected(ws service.WorkoutSummary) string {
	w := ws.Workout

	lines := []string{
		RenderMetric("Completed", w.CompletedAt.Local().Format("Mon Jan 2 2006 15:04"), humanize.Time(w.CompletedAt)),
		RenderMetric("Duration", formatDuration(int(w.DurationSeconds)), ""),
		RenderMetric("Source", w.Source, w.WorkoutType),
	}
	if w.StrokeRate != nil {
		lines = append(lines, RenderMetric("Stroke rate", fmt.Sprintf("%d spm", *w.StrokeRate), ""))
	}
	if w.HeartRate != nil {
		lines = append(lines, RenderMetric("Heart rate", fmt.Sprintf("%d bpm", *w.HeartRate), ""))
	}
	if len(w.Segments) > 0 {
		lines = append(lines, RenderMetric("Intervals", segmentSummary(w.Segments), ""))
	}

	if ws.Zones.TotalSeconds > 0 {
		var parts []string
		for _, tz := range analysis.TrainingZones {
			if pct := ws.Zones.Percent(tz.Zone); pct > 0 {
				parts = append(parts, fmt.Sprintf("%s %.0f%%", tz.Zone, pct*100))
			}
		}
		lines = append(lines, RenderMetric("Zones", strings.Join(parts, "  "), "from "+ws.Zones.Source))
	}

	if w.Comments != "" {
		lines = append(lines, "", mutedStyle.Render(truncateName(w.Comments, 80)))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// segmentSummary lists work segment paces
func segmentSummary(segments []analysis.IntervalSegment) string {
	var parts []string
	for _, s := range segments {
		if s.Kind == analysis.SegmentRest {
			continue
		}
		pace := analysis.PaceFromDistanceTime(s.Distance, s.Seconds())
		if pace <= 0 {
			continue
		}
		parts = append(parts, analysis.FormatPace(pace))
	}
	if len(parts) == 0 {
		return "-"
	}
	return truncateName(strings.Join(parts, " "), 60)
}
