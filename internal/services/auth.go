package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// AuthService talks to the /auth endpoints. Its APIService must not carry credentials.
type AuthService struct {
	api *APIService
}

// NewAuthService creates an auth client on api.
func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

type authResponse struct {
	Message      string      `json:"message"`
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// Login exchanges credentials for a user profile and token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *oauth2.Token, error) {
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	var resp authResponse
	creds := map[string]string{"email": email, "password": password}
	if err := s.api.JSON(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if resp.AccessToken == "" {
		return nil, nil, fmt.Errorf("%w: no access token in response", shared.ErrAuthFailed)
	}

	return &resp.User, newToken(resp.AccessToken, resp.RefreshToken), nil
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*models.User, *oauth2.Token, error) {
	switch {
	case reg.Email == "" || reg.Password == "":
		return nil, nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	case len(reg.Password) < 6:
		return nil, nil, fmt.Errorf("%w: password must be at least 6 characters", shared.ErrInvalidInput)
	case reg.Username == "":
		reg.Username = strings.Split(reg.Email, "@")[0]
	}

	var resp authResponse
	if err := s.api.JSON(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return nil, nil, fmt.Errorf("registration failed: %w", err)
	}

	return &resp.User, newToken(resp.AccessToken, resp.RefreshToken), nil
}

// Refresh trades a refresh token for a new access token. The refresh token is carried over.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	bearer := s.api.WithClient(bearerClient(ctx, s.api.HTTPClient(), &oauth2.Token{AccessToken: refreshToken}))

	var resp authResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := bearer.JSON(ctx, http.MethodPost, "/auth/refresh", body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in response", shared.ErrRefreshFailed)
	}

	return newToken(resp.AccessToken, refreshToken), nil
}

// Me fetches the profile of the account owning token.
func (s *AuthService) Me(ctx context.Context, token *oauth2.Token) (*models.User, error) {
	if token == nil || token.AccessToken == "" {
		return nil, shared.ErrNotAuthenticated
	}

	authed := s.api.WithClient(bearerClient(ctx, s.api.HTTPClient(), token))

	var resp struct {
		User models.User `json:"user"`
	}
	if err := authed.JSON(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &resp.User, nil
}

// Logout tells the backend the token pair is no longer in use.
func (s *AuthService) Logout(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return nil
	}
	authed := s.api.WithClient(bearerClient(ctx, s.api.HTTPClient(), token))
	return authed.JSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// TokenSource returns a source that serves current until it expires and then refreshes it.
// onRefresh, when set, receives each new token.
func (s *AuthService) TokenSource(ctx context.Context, current *oauth2.Token, onRefresh func(*oauth2.Token)) oauth2.TokenSource {
	src := &refreshSource{ctx: ctx, auth: s, refresh: current.RefreshToken, onRefresh: onRefresh}
	return oauth2.ReuseTokenSource(current, src)
}

type refreshSource struct {
	ctx       context.Context
	auth      *AuthService
	refresh   string
	onRefresh func(*oauth2.Token)
}

func (r *refreshSource) Token() (*oauth2.Token, error) {
	if r.refresh == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrTokenExpired, shared.ErrNoRefreshToken)
	}

	tok, err := r.auth.Refresh(r.ctx, r.refresh)
	if err != nil {
		return nil, err
	}
	if r.onRefresh != nil {
		r.onRefresh(tok)
	}
	return tok, nil
}

// bearerClient wraps base so every request carries token.
func bearerClient(ctx context.Context, base *http.Client, token *oauth2.Token) *http.Client {
	return oauthClient(ctx, base, oauth2.StaticTokenSource(token))
}

func oauthClient(ctx context.Context, base *http.Client, ts oauth2.TokenSource) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = base.Timeout
	return client
}

func newToken(access, refresh string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       jwtExpiry(access),
	}
}

// jwtExpiry reads the exp claim of a JWT without verifying it.
// Opaque or malformed tokens get a zero expiry, which oauth2 treats as never expiring.
func jwtExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
