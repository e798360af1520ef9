package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
	"golang.org/x/time/rate"
)

// SyncOpts tunes [HistorySync].
type SyncOpts struct {
	Workers   int        // concurrent posts, default 3
	RateLimit rate.Limit // posts per second, default 5
	Burst     int        // default 1
}

// SyncResult summarises a sync run.
type SyncResult struct {
	Total   int // unsynced records found
	Synced  int
	Failed  int
	Skipped int // built-in presets, never posted
	Errors  []error
}

// HistorySync pushes practice records that never reached the backend.
type HistorySync struct {
	store   PracticeStore
	history HistoryRecorder
	opts    SyncOpts
	logger  *log.Logger
}

type syncJob struct {
	record *models.PracticeRecord
}

type syncOutcome struct {
	record *models.PracticeRecord
	err    error
}

// NewHistorySync creates a sync task.
func NewHistorySync(store PracticeStore, history HistoryRecorder, opts SyncOpts, logger *log.Logger) *HistorySync {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistorySync{store: store, history: history, opts: opts, logger: logger}
}

// Run posts every unsynced record and marks the successful ones.
//
// Records are marked from the collecting goroutine only, so the store sees no concurrent writes.
func (s *HistorySync) Run(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if s.history == nil {
		return nil, fmt.Errorf("%w: history sync requires a signed-in session", shared.ErrNotAuthenticated)
	}

	records, err := s.store.List(map[string]any{"synced": false})
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced records: %w", err)
	}

	result := &SyncResult{Total: len(records)}
	pending := make([]*models.PracticeRecord, 0, len(records))
	for _, r := range records {
		if !Syncable(r) {
			result.Skipped++
			continue
		}
		pending = append(pending, r)
	}
	if len(pending) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(s.opts.RateLimit, s.opts.Burst)
	jobs := make(chan syncJob, s.opts.Workers)
	outcomes := make(chan syncOutcome, s.opts.Workers)

	var wg sync.WaitGroup
	for range s.opts.Workers {
		wg.Add(1)
		go s.worker(ctx, &wg, jobs, outcomes)
	}

	go func() {
		defer close(jobs)
		for _, r := range pending {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- syncJob{record: r}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		name := out.record.Exercise().Name

		if out.err == nil {
			out.err = s.store.MarkSynced(out.record.ID())
		}
		if out.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", out.record.ID(), out.err))
			s.logger.Warn("history sync failed", "id", out.record.ID(), "exercise", name, "error", out.err)
			sendProgress(progress, syncFailedUpdate(completed, len(pending), name, out.err))
			continue
		}

		out.record.SetSynced(true)
		result.Synced++
		sendProgress(progress, syncedRecordUpdate(completed, len(pending), name))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *HistorySync) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan syncJob, outcomes chan<- syncOutcome) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, err := s.history.Record(ctx, job.record.Exercise().ID, job.record.StartedAt())
		outcomes <- syncOutcome{record: job.record, err: err}
	}
}
