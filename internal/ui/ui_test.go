package ui

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/tasks"
	tu "github.com/desertthunder/souffle/internal/testing"
)

type memoryStore struct {
	records []*models.PracticeRecord
}

func (s *memoryStore) Create(r *models.PracticeRecord) error {
	r.SetID("rec-" + r.Exercise().ID)
	s.records = append(s.records, r)
	return nil
}

func (s *memoryStore) MarkSynced(id string) error { return nil }

func (s *memoryStore) List(map[string]any) ([]*models.PracticeRecord, error) {
	return s.records, nil
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

// loaded returns a model showing the exercise list.
func loaded(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := NewModel(context.Background(), opts)
	cmd := m.Init()
	for i := 0; cmd != nil && i < 20; i++ {
		_, cmd = m.Update(cmd())
		if m.view == ExerciseListView {
			break
		}
	}
	if m.view != ExerciseListView {
		t.Fatalf("expected exercise list, got view %d (err %v)", m.view, m.err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func tick(m *Model, n int) {
	for range n {
		m.Update(tickMsg(m.gen))
	}
}

func TestCatalogLoading(t *testing.T) {
	t.Run("without catalog shows presets", func(t *testing.T) {
		m := loaded(t, Options{})
		if m.source != tasks.SourceBuiltin {
			t.Errorf("expected builtin source, got %v", m.source)
		}
		if got := len(m.exerciseList.Items()); got != len(breath.Presets()) {
			t.Errorf("expected %d items, got %d", len(breath.Presets()), got)
		}
		if !strings.Contains(m.View(), "built-in exercises") {
			t.Error("expected offline banner")
		}
	})

	t.Run("remote catalog", func(t *testing.T) {
		source := &tu.MockExerciseSource{Exercises: []models.Exercise{
			{ID: "64a1", Name: "Cohérence cardiaque", Inhale: 5, Exhale: 5},
		}}
		catalog := tasks.NewExerciseCatalog(source, nil, log.New(io.Discard))

		m := loaded(t, Options{Catalog: catalog})
		if m.source != tasks.SourceRemote {
			t.Errorf("expected remote source, got %v", m.source)
		}
		item, ok := m.exerciseList.SelectedItem().(exerciseItem)
		if !ok || item.exercise.ID != "64a1" {
			t.Errorf("unexpected selection: %+v", m.exerciseList.SelectedItem())
		}
		if !strings.Contains(item.Description(), "5-5") {
			t.Errorf("description should show the pattern, got %q", item.Description())
		}
	})
}

func TestBreathingView(t *testing.T) {
	m := loaded(t, Options{})

	m.Update(keyEnter)
	if m.view != BreathingView {
		t.Fatalf("expected breathing view, got %d", m.view)
	}
	s := m.engine.State()
	if s.Exercise.ID != "default-748" || s.Phase != breath.Inhale || s.CycleCount != 1 || !s.Running {
		t.Fatalf("unexpected start state: %+v", s)
	}

	t.Run("ticks advance the engine", func(t *testing.T) {
		tick(m, 7)
		if s := m.engine.State(); s.Phase != breath.Hold || s.Remaining != 4 {
			t.Errorf("expected Hold with 4s left, got %+v", s)
		}
		if m.practised != 7 {
			t.Errorf("expected 7 practised seconds, got %d", m.practised)
		}
		if !strings.Contains(m.View(), "Hold") {
			t.Error("view should show the hold instruction")
		}
	})

	t.Run("stale ticks are dropped", func(t *testing.T) {
		m.Update(tickMsg(m.gen - 1))
		if m.practised != 7 {
			t.Errorf("stale tick advanced the engine: %d", m.practised)
		}
	})

	t.Run("pause and resume", func(t *testing.T) {
		m.Update(keySpace)
		tick(m, 3)
		if s := m.engine.State(); s.Running || s.ElapsedInPhase != 0 || m.practised != 7 {
			t.Errorf("paused engine moved: %+v practised=%d", s, m.practised)
		}
		if !strings.Contains(m.View(), "paused") {
			t.Error("view should show paused")
		}

		m.Update(keySpace)
		tick(m, 1)
		if s := m.engine.State(); !s.Running || s.ElapsedInPhase != 1 {
			t.Errorf("resume should continue in place: %+v", s)
		}
	})

	t.Run("restart", func(t *testing.T) {
		m.Update(runeKey('r'))
		if s := m.engine.State(); s.Phase != breath.Inhale || s.ElapsedInPhase != 0 || s.CycleCount != 1 || s.Running {
			t.Errorf("unexpected restart state: %+v", s)
		}
	})

	t.Run("stop shows summary", func(t *testing.T) {
		_, cmd := m.Update(runeKey('s'))
		if cmd != nil {
			t.Error("no recorder means nothing to save")
		}
		if m.view != SummaryView || !m.engine.Stopped() {
			t.Fatalf("expected summary with stopped engine, got view %d", m.view)
		}
		if m.summary.seconds != 8 || m.summary.cycles != 0 {
			t.Errorf("unexpected summary: %+v", m.summary)
		}
		if !strings.Contains(m.View(), "Not saved") {
			t.Errorf("unexpected view:\n%s", m.View())
		}

		m.Update(keyEnter)
		if m.view != ExerciseListView {
			t.Errorf("expected list after summary, got %d", m.view)
		}
	})
}

func TestBreathingRecordsPractice(t *testing.T) {
	store := &memoryStore{}
	recorder := tasks.NewPracticeRecorder(store, nil, log.New(io.Discard))
	m := loaded(t, Options{Recorder: recorder})

	m.Update(keyEnter)
	tick(m, 19)

	_, cmd := m.Update(keyEsc)
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if !m.summary.saving || !strings.Contains(m.View(), "Saving") {
		t.Error("summary should show saving")
	}

	m.Update(cmd())
	if m.summary.saving || m.summary.err != nil || m.summary.result == nil {
		t.Fatalf("unexpected summary: %+v", m.summary)
	}
	if len(store.records) != 1 || store.records[0].Cycles() != 1 || store.records[0].DurationSeconds() != 19 {
		t.Errorf("unexpected records: %+v", store.records)
	}
	if !strings.Contains(m.View(), "local practice log") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestMeditationView(t *testing.T) {
	m := loaded(t, Options{MeditationMinutes: 1, Instructions: []string{"first", "second"}})

	m.Update(runeKey('m'))
	if m.view != MeditationView {
		t.Fatalf("expected meditation view, got %d", m.view)
	}
	if !strings.Contains(m.View(), "first") {
		t.Error("expected first instruction")
	}

	tick(m, 30)
	if !strings.Contains(m.View(), "second") {
		t.Error("expected instruction to rotate after 30s")
	}

	m.Update(keySpace)
	tick(m, 5)
	if m.timer.Current() != 30 {
		t.Errorf("paused timer moved to %d", m.timer.Current())
	}
	m.Update(keySpace)

	var cmd tea.Cmd
	for range 30 {
		_, cmd = m.Update(tickMsg(m.gen))
	}
	if cmd != nil || !m.timer.Complete() {
		t.Errorf("expected completion to end the tick loop, complete=%v", m.timer.Complete())
	}
	if !strings.Contains(m.View(), "Session complete") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	m.Update(keyEsc)
	if m.view != ExerciseListView {
		t.Errorf("expected list after esc, got %d", m.view)
	}
}
