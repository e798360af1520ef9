// Package meditation implements the guided meditation countdown.
//
// Unlike the breathing engine, a Timer has no phases: it counts up once per tick to a fixed
// total and reports completion exactly once.
package meditation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDuration = errors.New("invalid meditation duration")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrInvalidMood     = errors.New("invalid mood")
)

// InstructionInterval is how long each guided instruction stays on screen, in seconds.
const InstructionInterval = 30

// Timer counts practised seconds toward a fixed total.
type Timer struct {
	total    int
	current  int
	running  bool
	complete bool
}

// NewTimer creates a paused timer for a session of the given length in minutes.
func NewTimer(minutes int) (*Timer, error) {
	if minutes < 1 {
		return nil, fmt.Errorf("%w: must be at least 1 minute, got %d", ErrInvalidDuration, minutes)
	}
	return &Timer{total: minutes * 60}, nil
}

// Tick advances one second while running and returns true on the tick that completes the session.
func (t *Timer) Tick() bool {
	if !t.running || t.complete {
		return false
	}

	t.current++
	if t.current >= t.total {
		t.current = t.total
		t.running = false
		t.complete = true
		return true
	}
	return false
}

// Start begins or resumes counting.
func (t *Timer) Start() {
	if !t.complete {
		t.running = true
	}
}

func (t *Timer) Pause()  { t.running = false }
func (t *Timer) Resume() { t.Start() }

// Reset rewinds to zero and pauses.
func (t *Timer) Reset() {
	t.current = 0
	t.running = false
	t.complete = false
}

func (t *Timer) Running() bool  { return t.running }
func (t *Timer) Complete() bool { return t.complete }
func (t *Timer) Current() int   { return t.current }
func (t *Timer) Total() int     { return t.total }

// Remaining returns the seconds left, never negative.
func (t *Timer) Remaining() int {
	return max(t.total-t.current, 0)
}

// Progress returns the completed fraction in [0, 1].
func (t *Timer) Progress() float64 {
	if t.total == 0 {
		return 0
	}
	return min(float64(t.current)/float64(t.total), 1)
}

// Instruction returns the instruction to show at second current, rotating every [InstructionInterval].
func Instruction(instructions []string, current int) string {
	if len(instructions) == 0 {
		return ""
	}
	idx := max(current, 0) / InstructionInterval
	return instructions[idx%len(instructions)]
}

// Rating is the 1 to 5 score a user gives a finished session.
type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 5
)

// Validate rejects ratings outside 1..5. Zero means unrated and is accepted.
func (r Rating) Validate() error {
	if r == 0 {
		return nil
	}
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: note %d is outside %d..%d", ErrInvalidRating, r, MinRating, MaxRating)
	}
	return nil
}

// Mood is how the user feels before or after a session, from 1 (low) to 10 (great).
type Mood int

const (
	MinMood Mood = 1
	MaxMood Mood = 10
)

// Validate rejects moods outside 1..10. Zero means not reported.
func (m Mood) Validate() error {
	if m == 0 {
		return nil
	}
	if m < MinMood || m > MaxMood {
		return fmt.Errorf("%w: mood %d is outside %d..%d", ErrInvalidMood, m, MinMood, MaxMood)
	}
	return nil
}
