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

// ExerciseCacheRepository stores the last exercise catalogue fetched from the backend.
type ExerciseCacheRepository struct {
	db *sql.DB
}

// NewExerciseCacheRepository creates a new [ExerciseCacheRepository] with the given database connection
func NewExerciseCacheRepository(db *sql.DB) *ExerciseCacheRepository {
	return &ExerciseCacheRepository{db: db}
}

// Replace swaps the cached catalogue for exercises in one transaction.
//
// Invalid exercises fail the whole replacement so a partial catalogue is never cached.
func (r *ExerciseCacheRepository) Replace(exercises []breath.Exercise) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM exercises_cache"); err != nil {
		return fmt.Errorf("failed to clear exercise cache: %w", err)
	}

	query := `
		INSERT INTO exercises_cache (id, sequence, remote_id, name, description, inhale_seconds, hold_seconds, exhale_seconds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, ex := range exercises {
		cached := models.NewCachedExercise(0, ex)
		if err := cached.Validate(); err != nil {
			return fmt.Errorf("validation failed for %q: %w", ex.ID, err)
		}

		sequence, err := nextSequenceTx(tx, "exercises_cache")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = tx.Exec(query,
			shared.GenerateID(), sequence, ex.ID, ex.Name, ex.Description,
			ex.InhaleSeconds, ex.HoldSeconds, ex.ExhaleSeconds,
			cached.CreatedAt(), cached.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to cache exercise %q: %w", ex.ID, err)
		}
	}

	return tx.Commit()
}

// List returns the cached exercises in the order they were fetched.
func (r *ExerciseCacheRepository) List() ([]*models.CachedExercise, error) {
	rows, err := r.db.Query(`
		SELECT id, sequence, remote_id, name, description, inhale_seconds, hold_seconds, exhale_seconds, created_at, updated_at
		FROM exercises_cache
		ORDER BY sequence ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exercise cache: %w", err)
	}
	defer rows.Close()

	var cached []*models.CachedExercise
	for rows.Next() {
		c, err := scanCachedExercise(rows)
		if err != nil {
			return nil, err
		}
		cached = append(cached, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cached, nil
}

// Definitions returns the cached catalogue as engine exercises.
func (r *ExerciseCacheRepository) Definitions() ([]breath.Exercise, error) {
	cached, err := r.List()
	if err != nil {
		return nil, err
	}

	exercises := make([]breath.Exercise, 0, len(cached))
	for _, c := range cached {
		exercises = append(exercises, c.Definition())
	}
	return exercises, nil
}

// Get retrieves a cached exercise by its backend ID.
func (r *ExerciseCacheRepository) Get(remoteID string) (*models.CachedExercise, error) {
	row := r.db.QueryRow(`
		SELECT id, sequence, remote_id, name, description, inhale_seconds, hold_seconds, exhale_seconds, created_at, updated_at
		FROM exercises_cache
		WHERE remote_id = ?
	`, remoteID)

	c, err := scanCachedExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: exercise %s", shared.ErrNotFound, remoteID)
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCachedExercise(s scanner) (*models.CachedExercise, error) {
	var (
		id        string
		sequence  int
		ex        breath.Exercise
		createdAt time.Time
		updatedAt time.Time
	)

	err := s.Scan(&id, &sequence, &ex.ID, &ex.Name, &ex.Description,
		&ex.InhaleSeconds, &ex.HoldSeconds, &ex.ExhaleSeconds, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached exercise: %w", err)
	}

	c := models.NewCachedExercise(sequence, ex)
	c.SetID(id)
	c.SetCreatedAt(createdAt)
	c.SetUpdatedAt(updatedAt)
	return c, nil
}
