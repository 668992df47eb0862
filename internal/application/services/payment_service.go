package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// PaymentService creates provider orders, verifies completed payments and
// orchestrates checkout.
type PaymentService struct {
	api      apiclient.Requester
	bookings *BookingService
	logger   *zap.Logger
}

// NewPaymentService creates a payment service. A nil logger is replaced by a no-op.
func NewPaymentService(api apiclient.Requester, bookings *BookingService, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bookings == nil {
		bookings = NewBookingService(api)
	}
	return &PaymentService{api: api, bookings: bookings, logger: logger}
}

// CreateOrder opens a provider order for a booking.
func (s *PaymentService) CreateOrder(ctx context.Context, bookingID string, amount float64) (domain.PaymentOrder, error) {
	if bookingID == "" {
		return domain.PaymentOrder{}, fmt.Errorf("booking id is required")
	}
	if amount <= 0 {
		return domain.PaymentOrder{}, fmt.Errorf("amount must be positive")
	}
	body := map[string]any{"bookingId": bookingID, "amount": amount}
	raw, err := s.api.Post(ctx, "/payments/create-order", body)
	if err != nil {
		return domain.PaymentOrder{}, fmt.Errorf("failed to create payment order: %w", err)
	}
	order, err := decodeData[domain.PaymentOrder](raw)
	if err != nil {
		return domain.PaymentOrder{}, err
	}
	if order.OrderID == "" {
		return domain.PaymentOrder{}, fmt.Errorf("payment order response has no order id")
	}
	return order, nil
}

// Verify submits the provider's signed result and returns the paid booking.
func (s *PaymentService) Verify(ctx context.Context, v domain.PaymentVerification) (domain.Booking, error) {
	if v.OrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return domain.Booking{}, fmt.Errorf("order id, payment id and signature are required")
	}
	raw, err := s.api.Post(ctx, "/payments/verify", v)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("payment verification failed: %w", err)
	}
	return decodeData[domain.Booking](raw)
}

// Checkout places the booking and, for online payment, opens an order.
// If the order cannot be created the booking is switched to cash rather
// than abandoned. An expired session is returned as-is.
func (s *PaymentService) Checkout(ctx context.Context, req domain.BookingRequest) (domain.CheckoutResult, error) {
	booking, err := s.bookings.Create(ctx, req)
	if err != nil {
		return domain.CheckoutResult{}, err
	}
	result := domain.CheckoutResult{Booking: booking}
	if req.PaymentMethod != domain.PaymentOnline {
		return result, nil
	}

	order, err := s.CreateOrder(ctx, booking.ID, booking.Total)
	if err == nil {
		result.Order = &order
		return result, nil
	}
	if apiclient.IsSessionExpired(err) {
		return result, err
	}

	s.logger.Warn("online payment unavailable, falling back to cash",
		zap.String("booking_id", booking.ID), zap.Error(err))
	if err := s.bookings.SetPaymentMethod(ctx, booking.ID, domain.PaymentCash); err != nil {
		return result, err
	}
	result.Booking.PaymentMethod = domain.PaymentCash
	result.FellBackToCash = true
	return result, nil
}
