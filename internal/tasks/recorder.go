package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// PracticeStore is the local practice log.
type PracticeStore interface {
	Create(record *models.PracticeRecord) error
	MarkSynced(id string) error
	List(criteria map[string]any) ([]*models.PracticeRecord, error)
}

// HistoryRecorder posts exercise executions to the backend.
type HistoryRecorder interface {
	Record(ctx context.Context, exerciseID string, at time.Time) (*models.HistoryEntry, error)
}

// RecordResult describes a saved practice session.
type RecordResult struct {
	Record  *models.PracticeRecord
	Synced  bool  // history entry posted
	SyncErr error // why the history post failed, if it did
}

// PracticeRecorder saves finished breathing sessions.
type PracticeRecorder struct {
	store   PracticeStore
	history HistoryRecorder
	logger  *log.Logger

	// Progress receives a [RecordPractice] update per saved session when set.
	Progress chan<- ProgressUpdate
}

// NewPracticeRecorder creates a recorder. A nil history keeps every record local.
func NewPracticeRecorder(store PracticeStore, history HistoryRecorder, logger *log.Logger) *PracticeRecorder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PracticeRecorder{store: store, history: history, logger: logger}
}

// Record saves a session of ex that ended in state after elapsed practised time.
func (r *PracticeRecorder) Record(ctx context.Context, ex breath.Exercise, state breath.State, elapsed time.Duration) (*RecordResult, error) {
	return r.record(ctx, ex, state.CompletedCycles(), elapsed, time.Now().Add(-elapsed))
}

// RecordSummary saves the outcome of a [breath.Driver] run.
func (r *PracticeRecorder) RecordSummary(ctx context.Context, s breath.Summary) (*RecordResult, error) {
	elapsed := time.Duration(s.Practised) * time.Second
	return r.record(ctx, s.Final.Exercise, s.Final.CompletedCycles(), elapsed, s.StartedAt)
}

func (r *PracticeRecorder) record(ctx context.Context, ex breath.Exercise, cycles int, elapsed time.Duration, startedAt time.Time) (*RecordResult, error) {
	seconds := int(elapsed / time.Second)
	if seconds <= 0 {
		return nil, fmt.Errorf("%w: nothing was practised", shared.ErrInvalidInput)
	}

	record := models.NewPracticeRecord(0, ex, cycles, seconds, startedAt)
	if err := r.store.Create(record); err != nil {
		return nil, fmt.Errorf("failed to save practice: %w", err)
	}
	r.logger.Info("practice recorded", "exercise", ex.Name, "cycles", cycles, "seconds", seconds)
	sendProgress(r.Progress, recordedPracticeUpdate(ex.Name, cycles))

	result := &RecordResult{Record: record}
	if r.history == nil || !Syncable(record) {
		return result, nil
	}

	if _, err := r.history.Record(ctx, ex.ID, startedAt); err != nil {
		r.logger.Warn("failed to post history, will retry on sync", "exercise", ex.ID, "error", err)
		result.SyncErr = err
		return result, nil
	}

	if err := r.store.MarkSynced(record.ID()); err != nil {
		r.logger.Warn("history posted but record not marked synced", "id", record.ID(), "error", err)
		result.SyncErr = err
		return result, nil
	}
	record.SetSynced(true)
	result.Synced = true
	return result, nil
}

// Syncable reports whether a record refers to a backend exercise. Built-in presets are local only.
func Syncable(record *models.PracticeRecord) bool {
	_, builtin := breath.Preset(record.Exercise().ID)
	return !builtin
}
