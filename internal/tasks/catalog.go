package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// ExerciseSource lists the exercises published by the backend.
type ExerciseSource interface {
	List(ctx context.Context) ([]models.Exercise, error)
}

// ExerciseCache stores the last good catalogue for offline use.
type ExerciseCache interface {
	Replace(exercises []breath.Exercise) error
	Definitions() ([]breath.Exercise, error)
}

// Source tells where a catalogue came from.
type Source int

const (
	SourceRemote Source = iota
	SourceCache
	SourceBuiltin
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	case SourceBuiltin:
		return "builtin"
	default:
		return ""
	}
}

// CatalogResult is the outcome of [ExerciseCatalog.Load].
type CatalogResult struct {
	Exercises []breath.Exercise
	Source    Source
	Skipped   int   // remote records dropped by validation
	RemoteErr error // why the backend was not used, if it was not
}

// ExerciseCatalog resolves the exercise list: backend first, then the cache, then the presets.
type ExerciseCatalog struct {
	source ExerciseSource
	cache  ExerciseCache
	logger *log.Logger
}

// NewExerciseCatalog creates a catalogue. A nil source means offline, a nil cache disables caching.
func NewExerciseCatalog(source ExerciseSource, cache ExerciseCache, logger *log.Logger) *ExerciseCatalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExerciseCatalog{source: source, cache: cache, logger: logger}
}

// Load returns a non-empty exercise list.
//
// An error is only returned when ctx is cancelled; every other failure falls through to the next source.
func (c *ExerciseCatalog) Load(ctx context.Context, progress chan<- ProgressUpdate) (*CatalogResult, error) {
	result := &CatalogResult{}

	if c.source != nil {
		sendProgress(progress, fetchingRemoteUpdate())

		exercises, skipped, err := c.fetchRemote(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Skipped = skipped

		if err == nil {
			sendProgress(progress, remoteFetchedUpdate(len(exercises), skipped))
			c.store(exercises, progress)
			result.Exercises = exercises
			result.Source = SourceRemote
			return result, nil
		}
		result.RemoteErr = err
		c.logger.Warn("exercise backend unavailable", "error", err)
	} else {
		result.RemoteErr = fmt.Errorf("%w: offline", shared.ErrServiceUnavailable)
	}

	if c.cache != nil {
		sendProgress(progress, loadingCacheUpdate(result.RemoteErr))

		cached, err := c.cache.Definitions()
		switch {
		case err != nil:
			c.logger.Warn("failed to read exercise cache", "error", err)
		case len(cached) > 0:
			result.Exercises = cached
			result.Source = SourceCache
			return result, nil
		}
	}

	sendProgress(progress, loadingBuiltinUpdate())
	result.Exercises = breath.Presets()
	result.Source = SourceBuiltin
	return result, nil
}

// Find loads the catalogue and returns the exercise with id.
//
// Built-in presets are always reachable by ID, even when the catalogue came from the backend.
func (c *ExerciseCatalog) Find(ctx context.Context, id string, progress chan<- ProgressUpdate) (breath.Exercise, Source, error) {
	result, err := c.Load(ctx, progress)
	if err != nil {
		return breath.Exercise{}, 0, err
	}

	for _, ex := range result.Exercises {
		if ex.ID == id {
			return ex, result.Source, nil
		}
	}
	if ex, ok := breath.Preset(id); ok {
		return ex, SourceBuiltin, nil
	}
	return breath.Exercise{}, 0, fmt.Errorf("%w: %s", shared.ErrExerciseNotFound, id)
}

// fetchRemote returns the valid remote exercises. An empty result counts as a failure.
func (c *ExerciseCatalog) fetchRemote(ctx context.Context) ([]breath.Exercise, int, error) {
	remote, err := c.source.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	exercises := make([]breath.Exercise, 0, len(remote))
	skipped := 0
	for _, r := range remote {
		def := r.ToDefinition()
		if err := def.Validate(); err != nil {
			skipped++
			c.logger.Warn("skipping invalid exercise", "id", r.ID, "name", r.Name, "error", err)
			continue
		}
		exercises = append(exercises, def)
	}

	if len(exercises) == 0 {
		return nil, skipped, fmt.Errorf("%w: backend returned no usable exercises", shared.ErrServiceUnavailable)
	}
	return exercises, skipped, nil
}

func (c *ExerciseCatalog) store(exercises []breath.Exercise, progress chan<- ProgressUpdate) {
	if c.cache == nil {
		return
	}
	sendProgress(progress, cachingExercisesUpdate(len(exercises)))
	if err := c.cache.Replace(exercises); err != nil {
		c.logger.Warn("failed to cache exercises", "error", err)
	}
}
