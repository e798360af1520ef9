package breath

// Phase is one of the three sub-states of a breathing cycle.
type Phase int

const (
	Inhale Phase = iota
	Hold
	Exhale
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case Inhale:
		return "inhale"
	case Hold:
		return "hold"
	case Exhale:
		return "exhale"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name so snapshots read well as JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PhaseInstruction returns the prompt displayed to the user during phase p.
func PhaseInstruction(p Phase) string {
	switch p {
	case Hold:
		return "Hold"
	case Exhale:
		return "Exhale"
	default:
		return "Inhale"
	}
}

// State is a point-in-time snapshot of an Engine.
type State struct {
	Exercise       Exercise `json:"exercise"`
	Phase          Phase    `json:"phase"`
	ElapsedInPhase int      `json:"elapsed_in_phase"`
	Remaining      int      `json:"remaining"`
	CycleCount     int      `json:"cycle_count"`
	Running        bool     `json:"running"`
	Stopped        bool     `json:"stopped"`
}

// Engine advances the phase countdown for a single exercise.
//
// An Engine must be driven by one caller at a time. After Stop it must not be reused.
type Engine struct {
	exercise Exercise
	phase    Phase
	elapsed  int
	cycle    int
	running  bool
	started  bool
	stopped  bool
}

// NewEngine returns an idle engine. Call Start before ticking it.
func NewEngine() *Engine {
	return &Engine{}
}

// Start begins ex at the top of an Inhale with the cycle counter at 1.
//
// A rejected exercise leaves the engine untouched.
func (e *Engine) Start(ex Exercise) (State, error) {
	if err := ex.Validate(); err != nil {
		return e.State(), err
	}

	e.exercise = ex
	e.phase = Inhale
	e.elapsed = 0
	e.cycle = 1
	e.running = true
	e.started = true
	e.stopped = false
	return e.State(), nil
}

// Tick advances the countdown by one second while running.
func (e *Engine) Tick() {
	if !e.running {
		return
	}

	e.elapsed++
	if e.elapsed < e.exercise.Duration(e.phase) {
		return
	}

	e.elapsed = 0
	switch e.phase {
	case Inhale:
		if e.exercise.HoldSeconds > 0 {
			e.phase = Hold
		} else {
			e.phase = Exhale
		}
	case Hold:
		e.phase = Exhale
	case Exhale:
		e.phase = Inhale
		e.cycle++
	}
}

// Pause stops ticks from mutating state.
func (e *Engine) Pause() {
	e.running = false
}

// Resume continues from the paused position. It has no effect before Start or after Stop.
func (e *Engine) Resume() {
	if !e.started || e.stopped {
		return
	}
	e.running = true
}

// Restart rewinds to the start of the first cycle and leaves the engine paused.
func (e *Engine) Restart() {
	if !e.started || e.stopped {
		return
	}
	e.phase = Inhale
	e.elapsed = 0
	e.cycle = 1
	e.running = false
}

// Stop halts the engine for good and discards its state.
func (e *Engine) Stop() {
	e.running = false
	e.stopped = true
	e.phase = Inhale
	e.elapsed = 0
	e.cycle = 0
}

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool { return e.stopped }

// Running reports whether ticks currently advance the countdown.
func (e *Engine) Running() bool { return e.running }

// Exercise returns the exercise being practised.
func (e *Engine) Exercise() Exercise { return e.exercise }

// TimeRemaining returns the seconds left in the current phase, never negative.
func (e *Engine) TimeRemaining() int {
	return max(e.exercise.Duration(e.phase)-e.elapsed, 0)
}

// State returns a snapshot suitable for rendering.
func (e *Engine) State() State {
	return State{
		Exercise:       e.exercise,
		Phase:          e.phase,
		ElapsedInPhase: e.elapsed,
		Remaining:      e.TimeRemaining(),
		CycleCount:     e.cycle,
		Running:        e.running,
		Stopped:        e.stopped,
	}
}

// CompletedCycles is the number of Exhale → Inhale transitions so far.
func (s State) CompletedCycles() int {
	return max(s.CycleCount-1, 0)
}
