package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
	"golang.org/x/oauth2"
)

// StoredSession is what a [TokenStore] persists between runs.
type StoredSession struct {
	User  *models.User  `json:"user,omitempty"`
	Token *oauth2.Token `json:"token"`
}

// TokenStore persists the signed-in session. Load returns nil, nil when nothing is stored.
type TokenStore interface {
	Load() (*StoredSession, error)
	Save(*StoredSession) error
	Clear() error
}

// FileTokenStore keeps the session as JSON in a file readable only by its owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store at path, expanding a leading "~/".
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	expanded, err := shared.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{path: expanded}, nil
}

func (f *FileTokenStore) Path() string { return f.path }

func (f *FileTokenStore) Load() (*StoredSession, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &stored, nil
}

// Save writes through a temporary file so a crash never leaves a truncated token file.
func (f *FileTokenStore) Save(s *StoredSession) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the session in process memory.
type MemoryTokenStore struct {
	mu     sync.Mutex
	stored *StoredSession
}

func (m *MemoryTokenStore) Load() (*StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, nil
}

func (m *MemoryTokenStore) Save(s *StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = s
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = nil
	return nil
}

// Session holds the signed-in user and their tokens.
//
// Sessions are constructed explicitly and passed to whatever needs authenticated access.
type Session struct {
	mu     sync.Mutex
	api    *APIService
	auth   *AuthService
	store  TokenStore
	logger *log.Logger
	user   *models.User
	token  *oauth2.Token
}

// NewSession creates a signed-out session. api must be unauthenticated.
func NewSession(api *APIService, store TokenStore, logger *log.Logger) *Session {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{api: api, auth: NewAuthService(api), store: store, logger: logger}
}

// Restore loads a previously saved session. A missing session is not an error.
func (s *Session) Restore() error {
	stored, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stored == nil || stored.Token == nil {
		s.user, s.token = nil, nil
		return nil
	}
	s.user, s.token = stored.User, stored.Token
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, s.set(user, token)
}

func (s *Session) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	user, token, err := s.auth.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return user, s.set(user, token)
}

// Logout notifies the backend on a best-effort basis and forgets the stored tokens.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.user, s.token = nil, nil
	s.mu.Unlock()

	if token != nil {
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Warn("backend logout failed", "error", err)
		}
	}
	return s.store.Clear()
}

// Authenticated reports whether a token is held. The token may still need a refresh.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil && s.token.AccessToken != ""
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// RequireAdmin fails unless the signed-in user has the admin role.
func (s *Session) RequireAdmin() error {
	user := s.User()
	switch {
	case !s.Authenticated():
		return shared.ErrNotAuthenticated
	case user == nil || !user.IsAdmin():
		return shared.ErrForbidden
	}
	return nil
}

// API returns a copy of the backend client that sends the bearer token and refreshes it on expiry.
// Refreshed tokens are written back to the store.
func (s *Session) API(ctx context.Context) (*APIService, error) {
	token := s.Token()
	if token == nil {
		return nil, shared.ErrNotAuthenticated
	}

	ts := s.auth.TokenSource(ctx, token, s.refreshed)
	return s.api.WithClient(oauthClient(ctx, s.api.HTTPClient(), ts)), nil
}

// RefreshProfile reloads the user profile from /auth/me.
func (s *Session) RefreshProfile(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == nil {
		return nil, shared.ErrNotAuthenticated
	}

	if !token.Valid() {
		fresh, err := s.auth.Refresh(ctx, token.RefreshToken)
		if err != nil {
			return nil, err
		}
		s.refreshed(fresh)
		token = fresh
	}

	user, err := s.auth.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	return user, s.set(user, token)
}

// UpdateUser replaces the cached profile and keeps the current token.
func (s *Session) UpdateUser(user *models.User) error {
	token := s.Token()
	if token == nil {
		return shared.ErrNotAuthenticated
	}
	return s.set(user, token)
}

func (s *Session) refreshed(token *oauth2.Token) {
	s.mu.Lock()
	s.token = token
	user := s.user
	s.mu.Unlock()

	if err := s.store.Save(&StoredSession{User: user, Token: token}); err != nil {
		s.logger.Warn("failed to persist refreshed token", "error", err)
	}
}

func (s *Session) set(user *models.User, token *oauth2.Token) error {
	s.mu.Lock()
	s.user, s.token = user, token
	s.mu.Unlock()
	return s.store.Save(&StoredSession{User: user, Token: token})
}
