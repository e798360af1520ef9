// Package tasks orchestrates the exercise catalogue and the practice log with real-time progress reporting.
//
// # Core Operations
//
//  1. [ExerciseCatalog.Load] : Resolve the exercises to offer
//     - Fetches the catalogue from the backend and refreshes the SQLite cache
//     - Falls back to the cache when the backend is unreachable
//     - Falls back to [breath.Presets] when the cache is empty, so the list is never empty
//
//  2. [PracticeRecorder.Record] : Persist a finished breathing session
//     - Writes a local [models.PracticeRecord]
//     - Posts a history entry when a history client is attached (best effort)
//
//  3. [HistorySync.Run] : Push unsynced practice records to the backend
//     - Paced with a rate limiter and fanned out to a small worker pool
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
