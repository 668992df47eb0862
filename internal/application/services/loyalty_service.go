package services

import (
	"context"
	"fmt"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// LoyaltyService reads and spends the customer's loyalty points.
type LoyaltyService struct {
	api apiclient.Requester
}

func NewLoyaltyService(api apiclient.Requester) *LoyaltyService {
	return &LoyaltyService{api: api}
}

func (s *LoyaltyService) Balance(ctx context.Context) (domain.LoyaltyBalance, error) {
	raw, err := s.api.Get(ctx, "/loyalty/points")
	if err != nil {
		return domain.LoyaltyBalance{}, fmt.Errorf("failed to fetch loyalty balance: %w", err)
	}
	return decodeData[domain.LoyaltyBalance](raw)
}

func (s *LoyaltyService) History(ctx context.Context) ([]domain.LoyaltyTransaction, error) {
	raw, err := s.api.Get(ctx, "/loyalty/history")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch loyalty history: %w", err)
	}
	return decodeData[[]domain.LoyaltyTransaction](raw)
}

// Redeem applies points to a booking and returns the new balance.
func (s *LoyaltyService) Redeem(ctx context.Context, points int, bookingID string) (domain.LoyaltyBalance, error) {
	if points <= 0 {
		return domain.LoyaltyBalance{}, fmt.Errorf("points must be positive")
	}
	if bookingID == "" {
		return domain.LoyaltyBalance{}, fmt.Errorf("booking id is required")
	}
	body := map[string]any{"points": points, "bookingId": bookingID}
	raw, err := s.api.Post(ctx, "/loyalty/redeem", body)
	if err != nil {
		return domain.LoyaltyBalance{}, fmt.Errorf("failed to redeem points: %w", err)
	}
	return decodeData[domain.LoyaltyBalance](raw)
}
