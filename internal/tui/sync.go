package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erg-profile/internal/analysis"
	"erg-profile/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	syncing     bool
	progress    service.SyncProgress
	progressCh  <-chan service.SyncProgress
	doneCh      <-chan SyncDoneMsg
	cancel      context.CancelFunc
	result      *service.SyncResult
	err         error
	done        bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService) SyncModel {
	return SyncModel{
		syncService: ss,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncStartedMsg struct {
	progress <-chan service.SyncProgress
	done     <-chan SyncDoneMsg
	cancel   context.CancelFunc
}

type syncProgressMsg service.SyncProgress

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncStartedMsg:
		m.progressCh = msg.progress
		m.doneCh = msg.done
		m.cancel = msg.cancel
		return m, waitForSync(m.progressCh, m.doneCh)

	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, waitForSync(m.progressCh, m.doneCh)

	case SyncDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.cancel = nil
		m.progressCh = nil
		m.doneCh = nil
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if m.syncing {
			if msg.String() == "esc" && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		switch msg.String() {
		case "enter", "s":
			m.syncing = true
			m.done = false
			m.err = nil
			m.result = nil
			m.progress = service.SyncProgress{}
			return m, m.startSync
		}
	}
	return m, nil
}

func (m SyncModel) startSync() tea.Msg {
	ctx, cancel := context.WithCancel(context.Background())
	progress := make(chan service.SyncProgress, 16)
	done := make(chan SyncDoneMsg, 1)

	go func() {
		result, err := m.syncService.SyncAll(ctx, progress)
		done <- SyncDoneMsg{Result: result, Err: err}
	}()

	return syncStartedMsg{progress: progress, done: done, cancel: cancel}
}

// waitForSync relays the next progress update, then the final result once
// the progress channel is closed
func waitForSync(progress <-chan service.SyncProgress, done <-chan SyncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-progress; ok {
			return syncProgressMsg(p)
		}
		return <-done
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Logbook Sync")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to view your power profile"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will sync your Concept2 Logbook:")
	lines = append(lines, "")
	lines = append(lines, "  1. Fetch new rower results")
	lines = append(lines, "  2. Download stroke data")
	lines = append(lines, "  3. Update personal records")
	lines = append(lines, "")
	lines = append(lines, m.renderRateLimit())
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderRateLimit() string {
	remaining, blockedUntil := m.syncService.RateLimitStatus()
	if time.Until(blockedUntil) > 0 {
		return warningStyle.Render(fmt.Sprintf("  API rate limited, resumes %s", humanize.Time(blockedUntil)))
	}
	return statusStyle.Render(fmt.Sprintf("  API requests remaining this window: %d", remaining))
}

var phaseLabels = []struct {
	phase string
	label string
}{
	{service.PhaseResults, "Fetching results"},
	{service.PhaseStrokes, "Downloading stroke data"},
	{service.PhaseRecords, "Updating personal records"},
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Syncing with the Logbook...")
	lines = append(lines, "")

	current := -1
	for i, p := range phaseLabels {
		if p.phase == m.progress.Phase {
			current = i
		}
	}

	for i, p := range phaseLabels {
		marker := mutedStyle.Render("○")
		switch {
		case i < current:
			marker = successStyle.Render("✓")
		case i == current:
			marker = helpKeyStyle.Render("●")
		}
		line := fmt.Sprintf("  %s %d. %s", marker, i+1, p.label)
		if i == current && m.progress.Total > 0 {
			pct := float64(m.progress.Completed) / float64(m.progress.Total)
			line += fmt.Sprintf("  %s %d/%d", RenderProgressBar(pct, 20), m.progress.Completed, m.progress.Total)
		}
		lines = append(lines, line)
	}

	if m.progress.CurrentWorkout != "" {
		lines = append(lines, "", mutedStyle.Render("  "+m.progress.CurrentWorkout))
	}
	if m.progress.Error != nil {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf("  %v", m.progress.Error)))
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  esc: cancel"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	var lines []string

	if m.result == nil {
		return ""
	}

	r := m.result
	lines = append(lines, "")

	if r.WorkoutsStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d workouts synced", r.WorkoutsStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new workouts"))
	}

	if r.Skipped > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %d non-rower results skipped", r.Skipped)))
	}

	if r.StrokesFetched > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d stroke files downloaded", r.StrokesFetched)))
	}

	for _, u := range r.NewRecords {
		line := fmt.Sprintf("  New record: %s %.0fW (%s/500m)",
			analysis.AnchorLabel(u.Record.Anchor), u.Record.Watts, analysis.FormatPace(u.Record.PaceSecondsPer500))
		if u.Improvement != nil {
			line += fmt.Sprintf(" +%.1f%%", *u.Improvement)
		}
		lines = append(lines, successStyle.Render(line))
	}

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
		for i, err := range r.Errors {
			if i == 3 {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("    ...and %d more (see log)", len(r.Errors)-3)))
				break
			}
			lines = append(lines, mutedStyle.Render("    "+truncateName(err.Error(), 76)))
		}
	}

	return strings.Join(lines, "\n")
}
