package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/core/domain"
)

// BookingService manages the customer's bookings.
type BookingService struct {
	api apiclient.Requester
}

// NewBookingService creates a booking service over the given requester.
func NewBookingService(api apiclient.Requester) *BookingService {
	return &BookingService{api: api}
}

func bookingPath(id string, suffix ...string) string {
	parts := append([]string{"/bookings", url.PathEscape(id)}, suffix...)
	return strings.Join(parts, "/")
}

// List returns the customer's bookings, newest first as the backend orders them.
func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	raw, err := s.api.Get(ctx, "/bookings")
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return decodeData[[]domain.Booking](raw)
}

// Get fetches one booking.
func (s *BookingService) Get(ctx context.Context, id string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, fmt.Errorf("booking id is required")
	}
	raw, err := s.api.Get(ctx, bookingPath(id))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return decodeData[domain.Booking](raw)
}

// Create places a booking after local validation.
func (s *BookingService) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return domain.Booking{}, fmt.Errorf("invalid booking: %w", err)
	}
	raw, err := s.api.Post(ctx, "/bookings", req)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}
	return decodeData[domain.Booking](raw)
}

// Cancel cancels a booking with an optional reason.
func (s *BookingService) Cancel(ctx context.Context, id, reason string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, fmt.Errorf("booking id is required")
	}
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	raw, err := s.api.Patch(ctx, bookingPath(id, "cancel"), body)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	return decodeData[domain.Booking](raw)
}

// Reschedule moves a booking to another date and slot.
func (s *BookingService) Reschedule(ctx context.Context, id, date, slot string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, fmt.Errorf("booking id is required")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.Booking{}, fmt.Errorf("date %q must be YYYY-MM-DD", date)
	}
	if slot == "" {
		return domain.Booking{}, fmt.Errorf("time slot is required")
	}
	body := map[string]string{"date": date, "timeSlot": slot}
	raw, err := s.api.Patch(ctx, bookingPath(id, "reschedule"), body)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to reschedule booking %s: %w", id, err)
	}
	return decodeData[domain.Booking](raw)
}

// SetPaymentMethod switches how a booking will be settled.
func (s *BookingService) SetPaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) error {
	body := map[string]domain.PaymentMethod{"paymentMethod": method}
	if _, err := s.api.Patch(ctx, bookingPath(id, "payment-method"), body); err != nil {
		return fmt.Errorf("failed to update payment method for %s: %w", id, err)
	}
	return nil
}

// AvailableSlots lists the visit windows for a date.
func (s *BookingService) AvailableSlots(ctx context.Context, date string) ([]domain.TimeSlot, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("date %q must be YYYY-MM-DD", date)
	}
	raw, err := s.api.Get(ctx, "/bookings/slots?"+url.Values{"date": {date}}.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots for %s: %w", date, err)
	}
	return decodeData[[]domain.TimeSlot](raw)
}
