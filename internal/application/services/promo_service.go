package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

type PromoService struct {
	api apiclient.Requester
}

func NewPromoService(api apiclient.Requester) *PromoService {
	return &PromoService{api: api}
}

// Validate asks the backend whether code applies to an order of amount.
// An invalid code is a result, not an error.
func (s *PromoService) Validate(ctx context.Context, code string, amount float64) (domain.PromoResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.PromoResult{}, fmt.Errorf("promo code is required")
	}
	if amount <= 0 {
		return domain.PromoResult{}, fmt.Errorf("order amount must be positive")
	}
	body := map[string]any{"code": code, "amount": amount}
	raw, err := s.api.Post(ctx, "/promo/validate", body)
	if err != nil {
		if status := apiclient.StatusOf(err); status == 400 || status == 404 {
			return domain.PromoResult{Code: code, Message: errorMessage(err)}, nil
		}
		return domain.PromoResult{}, fmt.Errorf("failed to validate promo code: %w", err)
	}
	res, err := decodeData[domain.PromoResult](raw)
	if err != nil {
		return domain.PromoResult{}, err
	}
	if res.Code == "" {
		res.Code = code
	}
	return res, nil
}

func errorMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
