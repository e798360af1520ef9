package breath

import (
	"errors"
	"testing"
)

func started(t *testing.T, ex Exercise) *Engine {
	t.Helper()
	e := NewEngine()
	if _, err := e.Start(ex); err != nil {
		t.Fatalf("Start(%+v) failed: %v", ex, err)
	}
	return e
}

func ticks(e *Engine, n int) {
	for range n {
		e.Tick()
	}
}

// phases records the phase entered on each transition during n ticks, starting with the initial phase.
func phases(e *Engine, n int) []Phase {
	visited := []Phase{e.State().Phase}
	for range n {
		before := e.State().Phase
		e.Tick()
		if after := e.State().Phase; after != before {
			visited = append(visited, after)
		}
	}
	return visited
}

func TestEngine(t *testing.T) {
	t.Run("Start", func(t *testing.T) {
		t.Run("initial state", func(t *testing.T) {
			e := NewEngine()
			s, err := e.Start(Exercise{InhaleSeconds: 4, ExhaleSeconds: 6})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Phase != Inhale || s.ElapsedInPhase != 0 || s.CycleCount != 1 || !s.Running {
				t.Errorf("unexpected initial state: %+v", s)
			}
			if s.Remaining != 4 {
				t.Errorf("expected 4 seconds remaining, got %d", s.Remaining)
			}
		})

		t.Run("rejects invalid exercises", func(t *testing.T) {
			tests := []struct {
				name string
				ex   Exercise
			}{
				{"zero inhale", Exercise{InhaleSeconds: 0, ExhaleSeconds: 5}},
				{"negative inhale", Exercise{InhaleSeconds: -1, ExhaleSeconds: 5}},
				{"zero exhale", Exercise{InhaleSeconds: 5, ExhaleSeconds: 0}},
				{"negative hold", Exercise{InhaleSeconds: 5, HoldSeconds: -2, ExhaleSeconds: 5}},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					e := NewEngine()
					_, err := e.Start(tt.ex)
					if !errors.Is(err, ErrInvalidExercise) {
						t.Fatalf("expected ErrInvalidExercise, got %v", err)
					}
					if e.Running() {
						t.Error("rejected start should leave the engine idle")
					}
					e.Tick()
					if s := e.State(); s.ElapsedInPhase != 0 || s.CycleCount != 0 {
						t.Errorf("idle engine should not advance: %+v", s)
					}
				})
			}
		})
	})

	t.Run("Phase Sequence", func(t *testing.T) {
		t.Run("hold skipped when zero", func(t *testing.T) {
			for _, ex := range []Exercise{
				{InhaleSeconds: 4, ExhaleSeconds: 6},
				{InhaleSeconds: 5, ExhaleSeconds: 5},
				{InhaleSeconds: 1, ExhaleSeconds: 1},
			} {
				e := started(t, ex)
				got := phases(e, ex.CycleSeconds()*3)
				for i, p := range got {
					want := Inhale
					if i%2 == 1 {
						want = Exhale
					}
					if p != want {
						t.Fatalf("%s: phase %d = %s, want %s (sequence %v)", ex.Pattern(), i, p, want, got)
					}
				}
			}
		})

		t.Run("hold visited when positive", func(t *testing.T) {
			for _, ex := range []Exercise{
				{InhaleSeconds: 7, HoldSeconds: 4, ExhaleSeconds: 8},
				{InhaleSeconds: 1, HoldSeconds: 1, ExhaleSeconds: 1},
			} {
				e := started(t, ex)
				got := phases(e, ex.CycleSeconds()*3)
				order := []Phase{Inhale, Hold, Exhale}
				for i, p := range got {
					if want := order[i%3]; p != want {
						t.Fatalf("%s: phase %d = %s, want %s (sequence %v)", ex.Pattern(), i, p, want, got)
					}
				}
			}
		})
	})

	t.Run("Cycle Count", func(t *testing.T) {
		ex := Exercise{InhaleSeconds: 2, HoldSeconds: 1, ExhaleSeconds: 3}
		e := started(t, ex)

		for range ex.CycleSeconds() * 4 {
			before := e.State()
			e.Tick()
			after := e.State()

			wrapped := before.Phase == Exhale && after.Phase == Inhale
			switch {
			case wrapped && after.CycleCount != before.CycleCount+1:
				t.Fatalf("Exhale → Inhale should increment cycle: %d → %d", before.CycleCount, after.CycleCount)
			case !wrapped && after.CycleCount != before.CycleCount:
				t.Fatalf("%s → %s should not change cycle: %d → %d", before.Phase, after.Phase, before.CycleCount, after.CycleCount)
			}
		}

		if got := e.State().CycleCount; got != 5 {
			t.Errorf("expected cycle 5 after four full cycles, got %d", got)
		}
	})

	t.Run("Time Remaining Bounds", func(t *testing.T) {
		for _, ex := range []Exercise{
			{InhaleSeconds: 7, HoldSeconds: 4, ExhaleSeconds: 8},
			{InhaleSeconds: 4, ExhaleSeconds: 6},
			{InhaleSeconds: 1, ExhaleSeconds: 1},
		} {
			e := started(t, ex)
			for range ex.CycleSeconds() * 2 {
				e.Tick()
				s := e.State()
				if r := e.TimeRemaining(); r < 0 || r > ex.Duration(s.Phase) {
					t.Fatalf("%s: remaining %d outside [0, %d] in %s", ex.Pattern(), r, ex.Duration(s.Phase), s.Phase)
				}
			}
		}
	})

	t.Run("Deterministic 4-0-6", func(t *testing.T) {
		e := started(t, Exercise{InhaleSeconds: 4, HoldSeconds: 0, ExhaleSeconds: 6})
		ticks(e, 10)

		s := e.State()
		if s.Phase != Inhale || s.ElapsedInPhase != 0 || s.CycleCount != 2 {
			t.Errorf("after 10 ticks expected Inhale/0/2, got %s/%d/%d", s.Phase, s.ElapsedInPhase, s.CycleCount)
		}
	})

	t.Run("Scenario 7-4-8", func(t *testing.T) {
		e := started(t, Exercise{InhaleSeconds: 7, HoldSeconds: 4, ExhaleSeconds: 8})

		ticks(e, 7)
		if s := e.State(); s.Phase != Hold || s.ElapsedInPhase != 0 {
			t.Errorf("after 7 ticks expected Hold/0, got %s/%d", s.Phase, s.ElapsedInPhase)
		}

		ticks(e, 4)
		if s := e.State(); s.Phase != Exhale || s.ElapsedInPhase != 0 {
			t.Errorf("after 11 ticks expected Exhale/0, got %s/%d", s.Phase, s.ElapsedInPhase)
		}

		ticks(e, 8)
		if s := e.State(); s.Phase != Inhale || s.ElapsedInPhase != 0 || s.CycleCount != 2 {
			t.Errorf("after 19 ticks expected Inhale/0/2, got %s/%d/%d", s.Phase, s.ElapsedInPhase, s.CycleCount)
		}
	})

	t.Run("Pause And Resume", func(t *testing.T) {
		t.Run("idempotent", func(t *testing.T) {
			e := started(t, Exercise{InhaleSeconds: 4, ExhaleSeconds: 6})
			ticks(e, 3)

			e.Pause()
			once := e.State()
			e.Pause()
			if twice := e.State(); twice != once {
				t.Errorf("second Pause changed state: %+v → %+v", once, twice)
			}

			e.Resume()
			once = e.State()
			e.Resume()
			if twice := e.State(); twice != once {
				t.Errorf("second Resume changed state: %+v → %+v", once, twice)
			}
		})

		t.Run("pause during exhale keeps elapsed", func(t *testing.T) {
			e := started(t, Exercise{InhaleSeconds: 4, ExhaleSeconds: 6})
			ticks(e, 6)

			e.Pause()
			paused := e.State()
			if paused.Phase != Exhale || paused.ElapsedInPhase != 2 {
				t.Fatalf("expected Exhale/2 at pause, got %s/%d", paused.Phase, paused.ElapsedInPhase)
			}

			ticks(e, 25)
			e.Resume()

			resumed := e.State()
			if resumed.Phase != paused.Phase || resumed.ElapsedInPhase != paused.ElapsedInPhase || resumed.CycleCount != paused.CycleCount {
				t.Errorf("resume lost position: paused %+v, resumed %+v", paused, resumed)
			}
			if !resumed.Running {
				t.Error("expected running after resume")
			}
		})
	})

	t.Run("Restart", func(t *testing.T) {
		e := started(t, Exercise{InhaleSeconds: 7, HoldSeconds: 4, ExhaleSeconds: 8})
		ticks(e, 19*3+9)
		if s := e.State(); s.Phase != Hold || s.CycleCount != 4 {
			t.Fatalf("expected to be mid-Hold of cycle 4, got %s cycle %d", s.Phase, s.CycleCount)
		}

		e.Restart()
		s := e.State()
		if s.Phase != Inhale || s.ElapsedInPhase != 0 || s.CycleCount != 1 || s.Running {
			t.Errorf("unexpected state after restart: %+v", s)
		}

		e.Tick()
		if e.State().ElapsedInPhase != 0 {
			t.Error("restart should leave the engine paused")
		}
	})

	t.Run("Stop", func(t *testing.T) {
		e := started(t, Exercise{InhaleSeconds: 4, ExhaleSeconds: 6})
		ticks(e, 3)
		e.Stop()

		if !e.Stopped() || e.Running() {
			t.Fatalf("expected stopped engine, got %+v", e.State())
		}

		e.Resume()
		e.Restart()
		e.Tick()
		if e.Running() || e.State().ElapsedInPhase != 0 {
			t.Errorf("stopped engine should ignore further calls: %+v", e.State())
		}
	})
}

func TestPhase(t *testing.T) {
	tests := []struct {
		phase       Phase
		name        string
		instruction string
	}{
		{Inhale, "inhale", "Inhale"},
		{Hold, "hold", "Hold"},
		{Exhale, "exhale", "Exhale"},
		{Phase(42), "unknown", "Inhale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := PhaseInstruction(tt.phase); got != tt.instruction {
				t.Errorf("PhaseInstruction() = %q, want %q", got, tt.instruction)
			}
		})
	}
}
