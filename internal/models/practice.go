package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/souffle/internal/breath"
)

// PracticeRecord is one finished breathing session in the local practice log.
type PracticeRecord struct {
	id        string
	sequence  int
	exercise  breath.Exercise
	cycles    int
	duration  int
	synced    bool
	startedAt time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPracticeRecord creates a record for a session of ex that completed cycles over duration seconds.
func NewPracticeRecord(sequence int, ex breath.Exercise, cycles, duration int, startedAt time.Time) *PracticeRecord {
	now := time.Now()
	return &PracticeRecord{
		sequence:  sequence,
		exercise:  ex,
		cycles:    cycles,
		duration:  duration,
		startedAt: startedAt,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PracticeRecord) ID() string                { return p.id }
func (p *PracticeRecord) Sequence() int             { return p.sequence }
func (p *PracticeRecord) Exercise() breath.Exercise { return p.exercise }
func (p *PracticeRecord) Cycles() int               { return p.cycles }
func (p *PracticeRecord) DurationSeconds() int      { return p.duration }
func (p *PracticeRecord) Synced() bool              { return p.synced }
func (p *PracticeRecord) StartedAt() time.Time      { return p.startedAt }
func (p *PracticeRecord) CreatedAt() time.Time      { return p.createdAt }
func (p *PracticeRecord) UpdatedAt() time.Time      { return p.updatedAt }
func (p *PracticeRecord) DeletedAt() *time.Time     { return p.deletedAt }

func (p *PracticeRecord) SetID(id string)           { p.id = id }
func (p *PracticeRecord) SetSequence(seq int)       { p.sequence = seq }
func (p *PracticeRecord) SetSynced(synced bool)     { p.synced = synced }
func (p *PracticeRecord) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *PracticeRecord) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *PracticeRecord) SetDeletedAt(t *time.Time) { p.deletedAt = t }

// Validate checks the record before it is written.
func (p *PracticeRecord) Validate() error {
	if p.exercise.ID == "" {
		return fmt.Errorf("exercise id is required")
	}
	if p.exercise.Name == "" {
		return fmt.Errorf("exercise name is required")
	}
	if p.cycles < 0 || p.duration < 0 {
		return fmt.Errorf("cycles and duration cannot be negative")
	}
	if p.startedAt.IsZero() {
		return fmt.Errorf("start time is required")
	}
	return nil
}

// CachedExercise is an exercise fetched from the backend and kept for offline use.
type CachedExercise struct {
	id        string
	sequence  int
	exercise  breath.Exercise
	createdAt time.Time
	updatedAt time.Time
}

// NewCachedExercise wraps ex for storage. The remote ID is ex.ID.
func NewCachedExercise(sequence int, ex breath.Exercise) *CachedExercise {
	now := time.Now()
	return &CachedExercise{sequence: sequence, exercise: ex, createdAt: now, updatedAt: now}
}

func (c *CachedExercise) ID() string                  { return c.id }
func (c *CachedExercise) Sequence() int               { return c.sequence }
func (c *CachedExercise) RemoteID() string            { return c.exercise.ID }
func (c *CachedExercise) Definition() breath.Exercise { return c.exercise }
func (c *CachedExercise) CreatedAt() time.Time        { return c.createdAt }
func (c *CachedExercise) UpdatedAt() time.Time        { return c.updatedAt }

func (c *CachedExercise) SetID(id string)          { c.id = id }
func (c *CachedExercise) SetSequence(seq int)      { c.sequence = seq }
func (c *CachedExercise) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *CachedExercise) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate requires a remote ID, a name and valid durations.
func (c *CachedExercise) Validate() error {
	if c.exercise.ID == "" {
		return fmt.Errorf("remote id is required")
	}
	if c.exercise.Name == "" {
		return fmt.Errorf("exercise name is required")
	}
	return c.exercise.Validate()
}
