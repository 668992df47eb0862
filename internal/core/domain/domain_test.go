package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() BookingRequest {
	return BookingRequest{
		Items:         []CartItem{{ServiceID: "svc-facial", Quantity: 1}},
		Address:       Address{Line1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
		Date:          "2026-10-20",
		TimeSlot:      "10:00-11:00",
		PaymentMethod: PaymentCash,
	}
}

func TestBookingRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BookingRequest)
		wantErr string
	}{
		{"Valid", func(*BookingRequest) {}, ""},
		{"EmptyCart", func(r *BookingRequest) { r.Items = nil }, "cart is empty"},
		{"MissingService", func(r *BookingRequest) { r.Items[0].ServiceID = "" }, "service id is required"},
		{"ZeroQuantity", func(r *BookingRequest) { r.Items[0].Quantity = 0 }, "quantity must be positive"},
		{"MissingCity", func(r *BookingRequest) { r.Address.City = " " }, "address line1 and city are required"},
		{"BadDate", func(r *BookingRequest) { r.Date = "20/10/2026" }, "must be YYYY-MM-DD"},
		{"MissingSlot", func(r *BookingRequest) { r.TimeSlot = "" }, "time slot is required"},
		{"NegativePoints", func(r *BookingRequest) { r.RedeemPoints = -5 }, "cannot be negative"},
		{"BadPayment", func(r *BookingRequest) { r.PaymentMethod = "cheque" }, "unknown payment method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validBooking()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" Online ")
	require.NoError(t, err)
	assert.Equal(t, PaymentOnline, m)

	_, err = ParsePaymentMethod("upi")
	assert.Error(t, err)
}

func TestBooking_Cancellable(t *testing.T) {
	assert.True(t, Booking{Status: BookingPending}.Cancellable())
	assert.True(t, Booking{Status: BookingConfirmed}.Cancellable())
	assert.False(t, Booking{Status: BookingCompleted}.Cancellable())
	assert.False(t, Booking{Status: BookingCancelled}.Cancellable())
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "asha@example.com", Password: "pw"}.Validate())
	assert.Error(t, Credentials{Email: "", Password: "pw"}.Validate())
	assert.Error(t, Credentials{Email: "asha", Password: "pw"}.Validate())
	assert.Error(t, Credentials{Email: "asha@example.com"}.Validate())
}

func TestRegistration_Validate(t *testing.T) {
	ok := Registration{Name: "Asha", Email: "asha@example.com", Password: "longenough"}
	assert.NoError(t, ok.Validate())

	short := ok
	short.Password = "short"
	assert.Error(t, short.Validate())

	noName := ok
	noName.Name = ""
	assert.Error(t, noName.Validate())
}

func TestService_EffectivePrice(t *testing.T) {
	assert.Equal(t, 799.0, Service{Price: 999, DiscountedPrice: 799}.EffectivePrice())
	assert.Equal(t, 999.0, Service{Price: 999}.EffectivePrice())
	assert.Equal(t, 999.0, Service{Price: 999, DiscountedPrice: 1200}.EffectivePrice())
}

func TestLoyaltyBalance_RedeemableValue(t *testing.T) {
	assert.Equal(t, 125.0, LoyaltyBalance{Points: 250, PointValue: 0.5}.RedeemableValue())
}
