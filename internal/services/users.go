package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

const usersPath = "/users"

// UserService reads and edits the signed-in profile and, for admins, manages accounts.
// Its APIService must carry the bearer token.
type UserService struct {
	api *APIService
}

func NewUserService(api *APIService) *UserService {
	return &UserService{api: api}
}

type userEnvelope struct {
	Message string      `json:"message,omitempty"`
	User    models.User `json:"user"`
}

// Profile fetches the signed-in user.
func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	var resp userEnvelope
	if err := s.api.JSON(ctx, http.MethodGet, usersPath+"/profile", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &resp.User, nil
}

// UpdateProfile sends the non-empty fields of update and returns the stored profile.
func (s *UserService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	var resp userEnvelope
	if err := s.api.JSON(ctx, http.MethodPut, usersPath+"/profile", update, &resp); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &resp.User, nil
}

// UpdatePreferences merges update into the stored preferences and returns the result.
func (s *UserService) UpdatePreferences(ctx context.Context, update models.PreferencesUpdate) (*models.Preferences, error) {
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	payload := map[string]models.PreferencesUpdate{"preferences": update}
	var resp struct {
		Preferences models.Preferences `json:"preferences"`
	}
	if err := s.api.JSON(ctx, http.MethodPut, usersPath+"/preferences", payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return &resp.Preferences, nil
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.JSON(ctx, http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create adds an account. Admin only; creating another admin needs an admin token too.
func (s *UserService) Create(ctx context.Context, account models.NewAccount) (*models.User, error) {
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var resp userEnvelope
	if err := s.api.JSON(ctx, http.MethodPost, usersPath, account, &resp); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &resp.User, nil
}

// Delete removes an account. The backend refuses the caller's own account and accounts with history.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}
	if err := s.api.JSON(ctx, http.MethodDelete, usersPath+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
