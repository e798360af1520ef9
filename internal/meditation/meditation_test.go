package meditation

import (
	"errors"
	"testing"
)

func TestTimer(t *testing.T) {
	t.Run("Invalid Duration", func(t *testing.T) {
		for _, minutes := range []int{0, -5} {
			if _, err := NewTimer(minutes); !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("NewTimer(%d) expected ErrInvalidDuration, got %v", minutes, err)
			}
		}
	})

	t.Run("Completes Once", func(t *testing.T) {
		timer, err := NewTimer(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if timer.Tick() {
			t.Fatal("paused timer should not advance")
		}

		timer.Start()
		completions := 0
		for range 90 {
			if timer.Tick() {
				completions++
			}
		}

		if completions != 1 {
			t.Errorf("expected exactly one completion, got %d", completions)
		}
		if timer.Current() != 60 || timer.Remaining() != 0 || timer.Progress() != 1 {
			t.Errorf("expected clamped full timer, got current=%d remaining=%d progress=%f",
				timer.Current(), timer.Remaining(), timer.Progress())
		}
		if timer.Running() {
			t.Error("completed timer should stop running")
		}
	})

	t.Run("Pause Resume Reset", func(t *testing.T) {
		timer, _ := NewTimer(2)
		timer.Start()
		for range 30 {
			timer.Tick()
		}

		timer.Pause()
		timer.Tick()
		if timer.Current() != 30 {
			t.Errorf("paused tick should not count, current=%d", timer.Current())
		}
		if got := timer.Progress(); got != 0.25 {
			t.Errorf("Progress() = %f, want 0.25", got)
		}

		timer.Resume()
		timer.Tick()
		if timer.Current() != 31 {
			t.Errorf("expected 31 after resume, got %d", timer.Current())
		}

		timer.Reset()
		if timer.Current() != 0 || timer.Running() || timer.Complete() {
			t.Errorf("unexpected state after reset: current=%d running=%v", timer.Current(), timer.Running())
		}
	})
}

func TestInstruction(t *testing.T) {
	steps := []string{"Installez-vous", "Respirez", "Relâchez"}

	tests := []struct {
		current int
		want    string
	}{
		{0, "Installez-vous"},
		{29, "Installez-vous"},
		{30, "Respirez"},
		{65, "Relâchez"},
		{90, "Installez-vous"},
		{-3, "Installez-vous"},
	}

	for _, tt := range tests {
		if got := Instruction(steps, tt.current); got != tt.want {
			t.Errorf("Instruction(%d) = %q, want %q", tt.current, got, tt.want)
		}
	}

	if got := Instruction(nil, 10); got != "" {
		t.Errorf("expected empty instruction, got %q", got)
	}
}

func TestRating(t *testing.T) {
	for _, r := range []Rating{0, 1, 3, 5} {
		if err := r.Validate(); err != nil {
			t.Errorf("Rating(%d) should be valid: %v", r, err)
		}
	}
	for _, r := range []Rating{-1, 6} {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Rating(%d) expected ErrInvalidRating, got %v", r, err)
		}
	}

}

func TestMood(t *testing.T) {
	for _, m := range []Mood{0, 1, 7, 10} {
		if err := m.Validate(); err != nil {
			t.Errorf("Mood(%d) should be valid: %v", m, err)
		}
	}
	for _, m := range []Mood{-1, 11} {
		err := m.Validate()
		if !errors.Is(err, ErrInvalidMood) {
			t.Errorf("Mood(%d) expected ErrInvalidMood, got %v", m, err)
		}
		if errors.Is(err, ErrInvalidRating) {
			t.Errorf("Mood(%d) should not report ErrInvalidRating", m)
		}
	}
}
