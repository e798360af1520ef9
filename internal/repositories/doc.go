// Package repositories implements SQLite persistence for the local practice data.
//
// Key Implementations:
//   - [PracticeRepository] : the practice log, with soft deletes and aggregate statistics
//   - [ExerciseCacheRepository] : the offline copy of the backend's exercise catalogue
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
