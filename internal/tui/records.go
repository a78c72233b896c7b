package tui

import (
	"fmt"

	"erg-profile/internal/analysis"
	"erg-profile/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RecordsModel is the personal records screen model
type RecordsModel struct {
	queryService *service.QueryService
	records      []analysis.PersonalRecord
	loading      bool
	err          error
}

// NewRecordsModel creates a new records model
func NewRecordsModel(qs *service.QueryService) RecordsModel {
	return RecordsModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the records screen
func (m RecordsModel) Init() tea.Cmd {
	return m.loadRecords
}

type recordsLoadedMsg struct {
	records []analysis.PersonalRecord
	err     error
}

func (m RecordsModel) loadRecords() tea.Msg {
	records, err := m.queryService.GetPersonalRecords()
	return recordsLoadedMsg{records: records, err: err}
}

// Update handles messages
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.records = msg.records

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadRecords
		}
	}
	return m, nil
}

// View renders the records table
func (m RecordsModel) View() string {
	if m.loading {
		return "\n  Loading personal records..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	title := cardTitleStyle.Render("Personal Records")

	byAnchor := make(map[analysis.AnchorKey]analysis.PersonalRecord, len(m.records))
	for _, r := range m.records {
		byAnchor[r.Anchor] = r
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %7s  %8s  %-16s  %-14s",
		"Anchor", "Watts", "Pace", "Set", "How"))
	rows := []string{header}

	for _, key := range analysis.Anchors {
		r, ok := byAnchor[key]
		if !ok {
			rows = append(rows, tableRowStyle.Render(mutedStyle.Render(fmt.Sprintf("%-14s  %7s  %8s  %-16s  %-14s",
				analysis.AnchorLabel(key), "-", "-", "-", "-"))))
			continue
		}

		pace := "-"
		if r.PaceSecondsPer500 > 0 {
			pace = analysis.FormatPace(r.PaceSecondsPer500)
		}
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-14s  %6.0fW  %8s  %-16s  %-14s",
			analysis.AnchorLabel(key),
			r.Watts,
			pace,
			truncateName(humanize.Time(r.AchievedAt), 16),
			provenanceLabel(r.Provenance),
		)))
	}

	sections := []string{title, lipgloss.JoinVertical(lipgloss.Left, rows...)}
	if len(m.records) == 0 {
		sections = append(sections, "\n  No records yet. Sync or import some workouts.")
	}
	sections = append(sections, statusStyle.Render("\n  r: refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

var provenanceLabels = map[analysis.Provenance]string{
	analysis.ProvenanceWholeWorkout:  "whole piece",
	analysis.ProvenanceIntervalSplit: "interval",
	analysis.ProvenanceTimeTest:      "time test",
	analysis.ProvenanceManual:        "manual",
	analysis.ProvenanceStrokePeak:    "peak stroke",
}

func provenanceLabel(p analysis.Provenance) string {
	if label, ok := provenanceLabels[p]; ok {
		return label
	}
	return string(p)
}
