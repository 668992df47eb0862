package domain

// PaymentOrder is the provider order created for online payment.
type PaymentOrder struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId,omitempty"`
}

// PaymentVerification is what the provider's checkout hands back.
type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	BookingID string `json:"bookingId,omitempty"`
}

// CheckoutResult summarises a checkout: the booking, and an order when the
// customer still has to pay online.
type CheckoutResult struct {
	Booking        Booking       `json:"booking"`
	Order          *PaymentOrder `json:"order,omitempty"`
	FellBackToCash bool          `json:"fellBackToCash,omitempty"`
}
