package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// GeoService resolves addresses through the backend's geocoding proxy.
type GeoService struct {
	api apiclient.Requester
}

func NewGeoService(api apiclient.Requester) *GeoService {
	return &GeoService{api: api}
}

// Geocode resolves a free-text address.
func (s *GeoService) Geocode(ctx context.Context, address string) (domain.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Location{}, fmt.Errorf("address is required")
	}
	raw, err := s.api.Get(ctx, "/geocode?"+url.Values{"address": {address}}.Encode())
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to geocode address: %w", err)
	}
	return decodeData[domain.Location](raw)
}

// Reverse resolves coordinates to an address.
func (s *GeoService) Reverse(ctx context.Context, lat, lng float64) (domain.Location, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.Location{}, fmt.Errorf("coordinates %v,%v are out of range", lat, lng)
	}
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}
	raw, err := s.api.Get(ctx, "/geocode/reverse?"+q.Encode())
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	return decodeData[domain.Location](raw)
}
