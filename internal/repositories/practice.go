package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// PracticeRepository implements [models.Repository] for [models.PracticeRecord] persistence.
type PracticeRepository struct {
	db *sql.DB
}

// PracticeStats aggregates the practice log.
type PracticeStats struct {
	Sessions     int            `json:"sessions"`
	TotalSeconds int            `json:"total_seconds"`
	TotalCycles  int            `json:"total_cycles"`
	ByExercise   map[string]int `json:"by_exercise"`
	LastPractice *time.Time     `json:"last_practice,omitempty"`
}

// NewPracticeRepository creates a new [PracticeRepository] with the given database connection
func NewPracticeRepository(db *sql.DB) *PracticeRepository {
	return &PracticeRepository{db: db}
}

const practiceColumns = `id, sequence, exercise_id, exercise_name, inhale_seconds, hold_seconds, exhale_seconds,
	cycles, duration_seconds, synced, started_at, created_at, updated_at, deleted_at`

// Create inserts a new record with generated ID and sequence
func (r *PracticeRepository) Create(record *models.PracticeRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "practice_records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	ex := record.Exercise()

	query := `
		INSERT INTO practice_records (id, sequence, exercise_id, exercise_name, inhale_seconds, hold_seconds, exhale_seconds,
			cycles, duration_seconds, synced, started_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, ex.ID, ex.Name, ex.InhaleSeconds, ex.HoldSeconds, ex.ExhaleSeconds,
		record.Cycles(), record.DurationSeconds(), record.Synced(), record.StartedAt(), record.CreatedAt(), record.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert practice record: %w", err)
	}

	record.SetID(id)
	record.SetSequence(sequence)
	return nil
}

// Get retrieves a record by ID, excluding soft-deleted records
func (r *PracticeRepository) Get(id string) (*models.PracticeRecord, error) {
	query := "SELECT " + practiceColumns + " FROM practice_records WHERE id = ? AND deleted_at IS NULL"

	record, err := scanPracticeRecord(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: practice record %s", shared.ErrNotFound, id)
	}
	return record, err
}

// Delete soft-deletes a record by ID
func (r *PracticeRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE practice_records
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete practice record: %w", err)
	}

	return requireRow(result, id)
}

// MarkSynced flags a record as posted to the backend history.
func (r *PracticeRepository) MarkSynced(id string) error {
	result, err := r.db.Exec(`
		UPDATE practice_records
		SET synced = 1, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark practice record synced: %w", err)
	}

	return requireRow(result, id)
}

// List retrieves records matching criteria, newest first.
//
// Supported criteria: "exercise_id" (string), "synced" (bool), "since" (time.Time) and "limit" (int).
func (r *PracticeRepository) List(criteria map[string]any) ([]*models.PracticeRecord, error) {
	query := "SELECT " + practiceColumns + " FROM practice_records WHERE deleted_at IS NULL"
	args := []any{}

	if exerciseID, ok := criteria["exercise_id"].(string); ok && exerciseID != "" {
		query += " AND exercise_id = ?"
		args = append(args, exerciseID)
	}
	if synced, ok := criteria["synced"].(bool); ok {
		query += " AND synced = ?"
		args = append(args, synced)
	}
	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY started_at DESC, sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query practice records: %w", err)
	}
	defer rows.Close()

	var records []*models.PracticeRecord
	for rows.Next() {
		record, err := scanPracticeRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates every live record.
func (r *PracticeRepository) Stats() (*PracticeStats, error) {
	stats := &PracticeStats{ByExercise: make(map[string]int)}

	rows, err := r.db.Query(`
		SELECT exercise_name, COUNT(*), SUM(duration_seconds), SUM(cycles), MAX(started_at)
		FROM practice_records
		WHERE deleted_at IS NULL
		GROUP BY exercise_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query practice stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name     string
			sessions int
			seconds  int
			cycles   int
			last     string
		)
		if err := rows.Scan(&name, &sessions, &seconds, &cycles, &last); err != nil {
			return nil, fmt.Errorf("failed to scan practice stats: %w", err)
		}

		stats.Sessions += sessions
		stats.TotalSeconds += seconds
		stats.TotalCycles += cycles
		stats.ByExercise[name] = sessions

		if t, ok := parseSQLiteTime(last); ok && (stats.LastPractice == nil || t.After(*stats.LastPractice)) {
			stats.LastPractice = &t
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return stats, nil
}

// parseSQLiteTime reads timestamps that lost their column type through an aggregate.
func parseSQLiteTime(s string) (time.Time, bool) {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scanPracticeRecord(s scanner) (*models.PracticeRecord, error) {
	var (
		id        string
		sequence  int
		ex        breath.Exercise
		cycles    int
		duration  int
		synced    bool
		startedAt time.Time
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &ex.ID, &ex.Name, &ex.InhaleSeconds, &ex.HoldSeconds, &ex.ExhaleSeconds,
		&cycles, &duration, &synced, &startedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan practice record: %w", err)
	}

	record := models.NewPracticeRecord(sequence, ex, cycles, duration, startedAt)
	record.SetID(id)
	record.SetSynced(synced)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}
	return record, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: practice record %s not found or already deleted", shared.ErrNotFound, id)
	}
	return nil
}
