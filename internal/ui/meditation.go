package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/souffle/internal/meditation"
	"github.com/desertthunder/souffle/internal/shared"
)

func (m *Model) startMeditation() tea.Cmd {
	timer, err := meditation.NewTimer(m.opts.MeditationMinutes)
	if err != nil {
		m.err = err
		return nil
	}
	timer.Start()

	m.timer = timer
	m.view = MeditationView
	return m.startTicking()
}

func (m *Model) handleMeditationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopTicking()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.stopTicking()
		m.timer = nil
		m.view = ExerciseListView
	case key.Matches(msg, m.keys.pause):
		if m.timer.Complete() {
			return m, nil
		}
		if m.timer.Running() {
			m.timer.Pause()
		} else {
			m.timer.Resume()
		}
	case key.Matches(msg, m.keys.restart):
		m.timer.Reset()
		m.timer.Start()
		return m, m.startTicking()
	}
	return m, nil
}

func (m *Model) renderMeditation() string {
	t := m.timer

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Meditation  %d min", t.Total()/60)))
	b.WriteString("\n")
	b.WriteString(styles.big.Render(shared.FormatClock(t.Remaining())))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(t.Progress()))
	b.WriteString("\n\n")

	switch {
	case t.Complete():
		b.WriteString(styles.ok.Render("Session complete"))
	case !t.Running():
		b.WriteString(styles.warn.Render("paused"))
	default:
		b.WriteString(styles.help.Render(meditation.Instruction(m.opts.Instructions, t.Current())))
	}
	b.WriteString("\n\n")

	helpKeys := []key.Binding{m.keys.pause, m.keys.restart, m.keys.back, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
