package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/shared"
)

func (m *Model) startBreathing(ex breath.Exercise) tea.Cmd {
	engine := breath.NewEngine()
	if _, err := engine.Start(ex); err != nil {
		m.opts.Logger.Warn("cannot start exercise", "id", ex.ID, "error", err)
		m.err = err
		return nil
	}

	m.engine = engine
	m.practised = 0
	m.startedAt = time.Now()
	m.view = BreathingView
	m.opts.Logger.Info("breathing started", "exercise", ex.Name, "pattern", ex.Pattern())
	return m.startTicking()
}

func (m *Model) handleBreathingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopTicking()
		m.engine.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.pause):
		if m.engine.Running() {
			m.engine.Pause()
		} else {
			m.engine.Resume()
		}
	case key.Matches(msg, m.keys.restart):
		m.engine.Restart()
	case key.Matches(msg, m.keys.stop), key.Matches(msg, m.keys.back):
		return m, m.finishBreathing()
	}
	return m, nil
}

// finishBreathing stops the engine, shows the summary and saves the session in the background.
func (m *Model) finishBreathing() tea.Cmd {
	final := m.engine.State()
	m.stopTicking()
	m.engine.Stop()

	m.summary = &practiceSummary{
		exercise: final.Exercise,
		cycles:   final.CompletedCycles(),
		seconds:  m.practised,
	}
	m.view = SummaryView

	if m.opts.Recorder == nil || m.practised == 0 {
		return nil
	}

	m.summary.saving = true
	recorder := m.opts.Recorder
	summary := breath.Summary{Final: final, Practised: m.practised, StartedAt: m.startedAt, EndedAt: time.Now()}
	return func() tea.Msg {
		result, err := recorder.RecordSummary(m.ctx, summary)
		return practiceRecordedMsg(result, err)
	}
}

func (m *Model) renderBreathing() string {
	s := m.engine.State()
	ex := s.Exercise

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s  %s", ex.Name, ex.Pattern())))
	b.WriteString("\n")

	instruction := styles.big.Inherit(styles.Phase(s.Phase)).Render(
		fmt.Sprintf("%s  %d", breath.PhaseInstruction(s.Phase), s.Remaining))
	b.WriteString(instruction)
	b.WriteString("\n\n")

	if d := ex.Duration(s.Phase); d > 0 {
		b.WriteString(m.bar.ViewAs(float64(s.ElapsedInPhase) / float64(d)))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Cycle %d  •  %s practised", s.CycleCount, shared.FormatClock(m.practised)))
	if !s.Running {
		b.WriteString("  " + styles.warn.Render("paused"))
	}
	b.WriteString("\n\n")

	helpKeys := []key.Binding{m.keys.pause, m.keys.restart, m.keys.stop, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderSummary() string {
	s := m.summary
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render(fmt.Sprintf("✓ %s", s.exercise.Name)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Completed cycles: %d\n", s.cycles))
	b.WriteString(fmt.Sprintf("Practised: %s\n\n", shared.FormatClock(s.seconds)))

	switch {
	case s.saving:
		b.WriteString(styles.help.Render("Saving to practice log..."))
	case s.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Not saved: %v", s.err)))
	case s.result == nil:
		b.WriteString(styles.help.Render("Not saved"))
	case s.result.Synced:
		b.WriteString(styles.ok.Render("Saved and added to your history"))
	default:
		b.WriteString(styles.ok.Render("Saved to the local practice log"))
	}
	b.WriteString("\n\n")

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
