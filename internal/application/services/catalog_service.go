package services

import (
	"context"
	"fmt"
	"net/url"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// CatalogService lists categories and bookable services.
type CatalogService struct {
	api apiclient.Requester
}

func NewCatalogService(api apiclient.Requester) *CatalogService {
	return &CatalogService{api: api}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	raw, err := s.api.Get(ctx, "/services/categories")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return decodeData[[]domain.Category](raw)
}

// Services lists services, optionally filtered by category slug.
func (s *CatalogService) Services(ctx context.Context, category string) ([]domain.Service, error) {
	path := "/services"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	raw, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return decodeData[[]domain.Service](raw)
}
