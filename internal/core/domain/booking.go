package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// PaymentMethod is how the customer settles a booking.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// ParsePaymentMethod accepts the CLI spelling of a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentOnline:
		return PaymentOnline, nil
	}
	return "", fmt.Errorf("unknown payment method %q (want cash or online)", s)
}

// BookingStatus is the backend's lifecycle state for a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// CartItem is one service line in a checkout.
type CartItem struct {
	ServiceID string `json:"serviceId"`
	Quantity  int    `json:"quantity"`
}

// Address is where the professional visits.
type Address struct {
	Line1     string  `json:"line1"`
	Line2     string  `json:"line2,omitempty"`
	City      string  `json:"city"`
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lng,omitempty"`
}

// BookingRequest is the checkout payload.
type BookingRequest struct {
	Items          []CartItem    `json:"items"`
	Address        Address       `json:"address"`
	Date           string        `json:"date"`
	TimeSlot       string        `json:"timeSlot"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	PromoCode      string        `json:"promoCode,omitempty"`
	RedeemPoints   int           `json:"redeemPoints,omitempty"`
	SpecialRequest string        `json:"notes,omitempty"`
}

// Validate checks the request is complete before checkout.
func (r BookingRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("cart is empty")
	}
	for i, item := range r.Items {
		if item.ServiceID == "" {
			return fmt.Errorf("item[%d]: service id is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item[%d]: quantity must be positive", i)
		}
	}
	if strings.TrimSpace(r.Address.Line1) == "" || strings.TrimSpace(r.Address.City) == "" {
		return fmt.Errorf("address line1 and city are required")
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", r.Date)
	}
	if r.TimeSlot == "" {
		return fmt.Errorf("time slot is required")
	}
	if r.RedeemPoints < 0 {
		return fmt.Errorf("redeem points cannot be negative")
	}
	if _, err := ParsePaymentMethod(string(r.PaymentMethod)); err != nil {
		return err
	}
	return nil
}

// Booking is a booking as the backend reports it.
type Booking struct {
	ID            string        `json:"id"`
	Status        BookingStatus `json:"status"`
	Items         []CartItem    `json:"items"`
	Address       Address       `json:"address"`
	Date          string        `json:"date"`
	TimeSlot      string        `json:"timeSlot"`
	Total         float64       `json:"total"`
	Discount      float64       `json:"discount,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaymentStatus string        `json:"paymentStatus,omitempty"`
}

// Cancellable reports whether the customer may still cancel.
func (b Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// TimeSlot is an available visit window for a date.
type TimeSlot struct {
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
}
