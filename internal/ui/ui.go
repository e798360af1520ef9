package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/meditation"
	"github.com/desertthunder/souffle/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ExerciseListView
	BreathingView
	SummaryView
	MeditationView
)

// Options wires the TUI to the rest of the application.
type Options struct {
	Catalog           *tasks.ExerciseCatalog  // nil shows the built-in presets
	Recorder          *tasks.PracticeRecorder // nil keeps sessions unsaved
	Tick              time.Duration           // one engine second, default 1s
	MeditationMinutes int                     // default 10
	Instructions      []string                // meditation prompts, defaults to [DefaultInstructions]
	Logger            *log.Logger
}

// DefaultInstructions rotate during a meditation session when none are supplied.
var DefaultInstructions = []string{
	"Settle into a comfortable position and close your eyes.",
	"Let your breath find its natural rhythm.",
	"Notice the air entering and leaving your body.",
	"When your mind wanders, gently return to the breath.",
	"Relax your shoulders, jaw and forehead.",
}

// practiceSummary is what [SummaryView] shows after a breathing session.
type practiceSummary struct {
	exercise breath.Exercise
	cycles   int
	seconds  int
	saving   bool
	result   *tasks.RecordResult
	err      error
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	opts   Options
	view   ViewState
	width  int
	height int

	exerciseList list.Model
	listReady    bool
	source       tasks.Source
	progressChan chan tasks.ProgressUpdate
	loadDone     chan Msg
	progress     tasks.ProgressUpdate

	engine    *breath.Engine
	practised int
	startedAt time.Time
	gen       int
	bar       progress.Model

	timer *meditation.Timer

	summary *practiceSummary
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.MeditationMinutes <= 0 {
		opts.MeditationMinutes = 10
	}
	if len(opts.Instructions) == 0 {
		opts.Instructions = DefaultInstructions
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Model{
		ctx:  ctx,
		opts: opts,
		view: LoadingView,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help: help.New(),
		keys: newKeyMap(),
	}
}

// Init initializes the TUI by loading the exercise catalogue.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.exerciseList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ExerciseListView:
			return m.handleListKeys(msg)
		case BreathingView:
			return m.handleBreathingKeys(msg)
		case SummaryView:
			return m.handleSummaryKeys(msg)
		case MeditationView:
			return m.handleMeditationKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForCatalog()

	case MsgCatalogLoaded:
		data := msg.data.(catalogLoaded)
		m.progressChan, m.loadDone = nil, nil
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		m.showCatalog(data.result)
		return m, nil

	case MsgTick:
		if msg.data.(int) != m.gen {
			return m, nil
		}
		return m.tick()

	case MsgPracticeRecorded:
		data := msg.data.(practiceRecorded)
		if m.summary != nil {
			m.summary.saving = false
			m.summary.result = data.result
			m.summary.err = data.err
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case ExerciseListView:
		return m.renderList()
	case BreathingView:
		return m.renderBreathing()
	case SummaryView:
		return m.renderSummary()
	case MeditationView:
		return m.renderMeditation()
	default:
		return ""
	}
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) showCatalog(result *tasks.CatalogResult) {
	m.source = result.Source
	m.exerciseList = list.New(exerciseItems(result.Exercises), list.NewDefaultDelegate(), 0, 0)
	m.exerciseList.Title = "Breathing exercises"
	if result.Source != tasks.SourceRemote {
		m.exerciseList.Title = fmt.Sprintf("Breathing exercises (%s)", result.Source)
	}
	m.exerciseList.SetSize(m.width-4, m.height-8)
	m.listReady = true
	m.view = ExerciseListView
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.exerciseList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.exerciseList, cmd = m.exerciseList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.exerciseList.SelectedItem().(exerciseItem); ok {
			return m, m.startBreathing(item.exercise)
		}
		return m, nil
	case key.Matches(msg, m.keys.meditate):
		return m, m.startMeditation()
	}

	var cmd tea.Cmd
	m.exerciseList, cmd = m.exerciseList.Update(msg)
	return m, cmd
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
		m.summary = nil
		m.view = ExerciseListView
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ExerciseListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.exerciseList, cmd = m.exerciseList.Update(msg)
	return m, cmd
}

// tick advances whichever countdown the current view owns and schedules the next tick.
func (m *Model) tick() (tea.Model, tea.Cmd) {
	switch m.view {
	case BreathingView:
		if m.engine.Running() {
			m.engine.Tick()
			m.practised++
		}
		return m, m.scheduleTick()
	case MeditationView:
		if m.timer.Tick() {
			m.opts.Logger.Info("meditation complete", "minutes", m.timer.Total()/60)
			return m, nil
		}
		return m, m.scheduleTick()
	}
	return m, nil
}

// startTicking invalidates any running tick loop and starts a new one.
func (m *Model) startTicking() tea.Cmd {
	m.gen++
	return m.scheduleTick()
}

func (m *Model) stopTicking() { m.gen++ }

func (m *Model) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.Tick, func(time.Time) tea.Msg { return tickMsg(gen) })
}

func (m *Model) loadCatalog() tea.Cmd {
	if m.opts.Catalog == nil {
		return func() tea.Msg {
			return catalogLoadedMsg(&tasks.CatalogResult{Exercises: breath.Presets(), Source: tasks.SourceBuiltin}, nil)
		}
	}

	m.progressChan = make(chan tasks.ProgressUpdate, 10)
	m.loadDone = make(chan Msg, 1)
	progressChan, done := m.progressChan, m.loadDone

	go func() {
		result, err := m.opts.Catalog.Load(m.ctx, progressChan)
		done <- catalogLoadedMsg(result, err)
	}()

	return m.waitForCatalog()
}

func (m *Model) waitForCatalog() tea.Cmd {
	progressChan, done := m.progressChan, m.loadDone
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case update := <-progressChan:
			return progressUpdateMsg(update)
		case msg := <-done:
			return msg
		}
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("souffle")
	msg := m.progress.Message
	if msg == "" {
		msg = "Loading exercises..."
	}
	return fmt.Sprintf("%s\n%s", title, msg)
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.meditate, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var banner string
	switch m.source {
	case tasks.SourceCache:
		banner = styles.warn.Render("Backend unreachable, showing cached exercises") + "\n"
	case tasks.SourceBuiltin:
		banner = styles.warn.Render("Backend unreachable, showing built-in exercises") + "\n"
	}
	return fmt.Sprintf("%s%s\n\n%s", banner, m.exerciseList.View(), helpView)
}
