package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/shared"
)

const healthPath = "/informations-sante/"

// HealthService reads and manages health articles.
type HealthService struct {
	api *APIService
}

// NewHealthService creates a health article client on api.
func NewHealthService(api *APIService) *HealthService {
	return &HealthService{api: api}
}

func (s *HealthService) List(ctx context.Context) ([]models.HealthArticle, error) {
	var articles []models.HealthArticle
	if err := s.api.JSON(ctx, http.MethodGet, healthPath, nil, &articles); err != nil {
		return nil, fmt.Errorf("failed to list health articles: %w", err)
	}
	return articles, nil
}

func (s *HealthService) Get(ctx context.Context, id string) (*models.HealthArticle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	var article models.HealthArticle
	if err := s.api.JSON(ctx, http.MethodGet, healthPath+url.PathEscape(id), nil, &article); err != nil {
		return nil, fmt.Errorf("failed to get health article %s: %w", id, err)
	}
	return &article, nil
}

func (s *HealthService) Create(ctx context.Context, article models.HealthArticle) (*models.HealthArticle, error) {
	if err := article.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	payload := map[string]string{"titre": article.Title, "texte": article.Text}
	var created models.HealthArticle
	if err := s.api.JSON(ctx, http.MethodPost, healthPath, payload, &created); err != nil {
		return nil, fmt.Errorf("failed to create health article: %w", err)
	}
	return &created, nil
}

// Update sends only the non-empty fields of article.
func (s *HealthService) Update(ctx context.Context, article models.HealthArticle) (*models.HealthArticle, error) {
	if article.ID == "" {
		return nil, fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	payload := map[string]string{}
	if article.Title != "" {
		payload["titre"] = article.Title
	}
	if article.Text != "" {
		payload["texte"] = article.Text
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", shared.ErrInvalidInput)
	}

	var updated models.HealthArticle
	if err := s.api.JSON(ctx, http.MethodPut, healthPath+url.PathEscape(article.ID), payload, &updated); err != nil {
		return nil, fmt.Errorf("failed to update health article %s: %w", article.ID, err)
	}
	return &updated, nil
}

func (s *HealthService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}
	if err := s.api.JSON(ctx, http.MethodDelete, healthPath+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete health article %s: %w", id, err)
	}
	return nil
}
