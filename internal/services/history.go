package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// HistoryService records exercise executions on the backend. It requires an authenticated API.
type HistoryService struct {
	api *APIService
}

// NewHistoryService creates a history client on api.
func NewHistoryService(api *APIService) *HistoryService {
	return &HistoryService{api: api}
}

type historyRequest struct {
	ExerciseID string `json:"id_exercice"`
	ExecutedAt string `json:"date_execution,omitempty"`
}

// Record posts an execution of exerciseID. A zero at lets the backend use its own clock.
func (s *HistoryService) Record(ctx context.Context, exerciseID string, at time.Time) (*models.HistoryEntry, error) {
	if exerciseID == "" {
		return nil, fmt.Errorf("%w: exercise id", shared.ErrMissingArgument)
	}

	req := historyRequest{ExerciseID: exerciseID}
	if !at.IsZero() {
		req.ExecutedAt = at.UTC().Format(time.RFC3339)
	}

	var env struct {
		Entry models.HistoryEntry `json:"historique"`
	}
	if err := s.api.JSON(ctx, http.MethodPost, "/historiques", req, &env); err != nil {
		return nil, fmt.Errorf("failed to record history: %w", err)
	}
	return &env.Entry, nil
}

// List returns the signed-in user's executions, newest first.
func (s *HistoryService) List(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := s.api.JSON(ctx, http.MethodGet, "/historiques", nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}
