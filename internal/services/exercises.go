package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// ExerciseService reads and manages breathing exercises.
//
// Create, Update and Delete require an admin session.
type ExerciseService struct {
	api *APIService
}

// NewExerciseService creates an exercise client on api.
func NewExerciseService(api *APIService) *ExerciseService {
	return &ExerciseService{api: api}
}

type exerciseEnvelope struct {
	Message  string          `json:"message"`
	Exercise models.Exercise `json:"exercice"`
}

// List retrieves every exercise.
func (s *ExerciseService) List(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := s.api.JSON(ctx, http.MethodGet, "/exercices", nil, &exercises); err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

// Get retrieves one exercise by ID.
func (s *ExerciseService) Get(ctx context.Context, id string) (*models.Exercise, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	var ex models.Exercise
	if err := s.api.JSON(ctx, http.MethodGet, "/exercices/"+url.PathEscape(id), nil, &ex); err != nil {
		return nil, fmt.Errorf("failed to get exercise %s: %w", id, err)
	}
	return &ex, nil
}

// Create adds a new exercise.
func (s *ExerciseService) Create(ctx context.Context, ex models.Exercise) (*models.Exercise, error) {
	if err := ex.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	ex.ID = ""
	var env exerciseEnvelope
	if err := s.api.JSON(ctx, http.MethodPost, "/exercices", ex, &env); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return &env.Exercise, nil
}

// Update replaces the fields of exercise ex.ID.
func (s *ExerciseService) Update(ctx context.Context, ex models.Exercise) (*models.Exercise, error) {
	if ex.ID == "" {
		return nil, fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}
	if err := ex.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var env exerciseEnvelope
	if err := s.api.JSON(ctx, http.MethodPut, "/exercices/"+url.PathEscape(ex.ID), ex, &env); err != nil {
		return nil, fmt.Errorf("failed to update exercise %s: %w", ex.ID, err)
	}
	return &env.Exercise, nil
}

// Delete removes an exercise.
func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}
	if err := s.api.JSON(ctx, http.MethodDelete, "/exercices/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete exercise %s: %w", id, err)
	}
	return nil
}
