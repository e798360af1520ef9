package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchRemote Phase = iota
	LoadCache
	LoadBuiltin
	CacheExercises
	RecordPractice
	SyncHistory
)

func (p Phase) String() string {
	switch p {
	case FetchRemote:
		return "fetch_remote"
	case LoadCache:
		return "load_cache"
	case LoadBuiltin:
		return "load_builtin"
	case CacheExercises:
		return "cache_exercises"
	case RecordPractice:
		return "record_practice"
	case SyncHistory:
		return "sync_history"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingRemoteUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    1,
		Total:   1,
		Message: "Fetching exercises from the backend...",
	}
}

func remoteFetchedUpdate(count, skipped int) ProgressUpdate {
	msg := fmt.Sprintf("Fetched %d exercises", count)
	if skipped > 0 {
		msg = fmt.Sprintf("Fetched %d exercises (%d invalid skipped)", count, skipped)
	}
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    count,
	}
}

func loadingCacheUpdate(reason error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadCache,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Backend unavailable (%v), reading cached exercises...", reason),
	}
}

func loadingBuiltinUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadBuiltin,
		Step:    1,
		Total:   1,
		Message: "Using built-in exercises",
	}
}

func cachingExercisesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheExercises,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Caching %d exercises...", count),
		Data:    count,
	}
}

func recordedPracticeUpdate(name string, cycles int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordPractice,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded %s (%d cycles)", name, cycles),
	}
}

func syncedRecordUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Synced: %s", name),
	}
}

func syncFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed: %s - %v", name, err),
		Data:    err,
	}
}
