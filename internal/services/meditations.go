package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/souffle/internal/meditation"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

// MeditationFilter narrows [MeditationService.List]. Zero values are ignored.
type MeditationFilter struct {
	Type       string
	Level      string
	MaxMinutes int
	Tags       []string
}

func (f MeditationFilter) query() string {
	v := url.Values{}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.Level != "" {
		v.Set("niveau", f.Level)
	}
	if f.MaxMinutes > 0 {
		v.Set("duree_max", strconv.Itoa(f.MaxMinutes))
	}
	if len(f.Tags) > 0 {
		v.Set("tags", strings.Join(f.Tags, ","))
	}
	return v.Encode()
}

// MeditationService reads guided meditations and drives their sessions.
type MeditationService struct {
	api *APIService
}

// NewMeditationService creates a meditation client on api.
func NewMeditationService(api *APIService) *MeditationService {
	return &MeditationService{api: api}
}

func (s *MeditationService) List(ctx context.Context, filter MeditationFilter) ([]models.Meditation, error) {
	path := "/meditations/"
	if q := filter.query(); q != "" {
		path += "?" + q
	}

	var env struct {
		Meditations []models.Meditation `json:"meditations"`
		Total       int                 `json:"total"`
	}
	if err := s.api.JSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list meditations: %w", err)
	}
	return env.Meditations, nil
}

func (s *MeditationService) Get(ctx context.Context, id string) (*models.Meditation, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: meditation id", shared.ErrMissingArgument)
	}

	var env struct {
		Meditation models.Meditation `json:"meditation"`
	}
	if err := s.api.JSON(ctx, http.MethodGet, "/meditations/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, fmt.Errorf("failed to get meditation %s: %w", id, err)
	}
	return &env.Meditation, nil
}

// StartSession opens a session for meditationID, recording the mood beforehand.
func (s *MeditationService) StartSession(ctx context.Context, meditationID string, moodBefore meditation.Mood) (*models.MeditationSession, error) {
	if meditationID == "" {
		return nil, fmt.Errorf("%w: meditation id", shared.ErrMissingArgument)
	}
	if err := moodBefore.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	req := struct {
		MeditationID string `json:"meditation_id"`
		MoodBefore   int    `json:"humeur_avant,omitempty"`
	}{meditationID, int(moodBefore)}

	var env struct {
		Session models.MeditationSession `json:"session"`
	}
	if err := s.api.JSON(ctx, http.MethodPost, "/sessions/start", req, &env); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &env.Session, nil
}

// CompleteSession closes a session that ran to the end.
func (s *MeditationService) CompleteSession(ctx context.Context, sessionID string, outcome models.SessionOutcome) (*models.MeditationSession, error) {
	if err := meditation.Rating(outcome.Note).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if err := meditation.Mood(outcome.MoodAfter).Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return s.finish(ctx, sessionID, "complete", outcome)
}

// InterruptSession closes a session that was abandoned after actualSeconds.
func (s *MeditationService) InterruptSession(ctx context.Context, sessionID string, actualSeconds int) (*models.MeditationSession, error) {
	return s.finish(ctx, sessionID, "interrupt", models.SessionOutcome{ActualSeconds: actualSeconds})
}

func (s *MeditationService) finish(ctx context.Context, sessionID, action string, outcome models.SessionOutcome) (*models.MeditationSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}
	if outcome.ActualSeconds < 0 {
		return nil, fmt.Errorf("%w: negative duration", shared.ErrInvalidInput)
	}

	var env struct {
		Session models.MeditationSession `json:"session"`
	}
	path := fmt.Sprintf("/sessions/%s/%s", url.PathEscape(sessionID), action)
	if err := s.api.JSON(ctx, http.MethodPost, path, outcome, &env); err != nil {
		return nil, fmt.Errorf("failed to %s session %s: %w", action, sessionID, err)
	}
	return &env.Session, nil
}
