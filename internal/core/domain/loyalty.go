package domain

// LoyaltyBalance is the customer's points summary.
type LoyaltyBalance struct {
	Points         int     `json:"points"`
	PointValue     float64 `json:"pointValue"`
	Tier           string  `json:"tier,omitempty"`
	LifetimeEarned int     `json:"lifetimeEarned,omitempty"`
}

// RedeemableValue is the currency value of the current points.
func (b LoyaltyBalance) RedeemableValue() float64 {
	return float64(b.Points) * b.PointValue
}

// LoyaltyTransaction is one ledger line.
type LoyaltyTransaction struct {
	ID        string `json:"id"`
	Points    int    `json:"points"`
	Type      string `json:"type"`
	BookingID string `json:"bookingId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// PromoResult is the backend's verdict on a promo code.
type PromoResult struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

// Location is a geocoded place.
type Location struct {
	Address     string  `json:"address"`
	City        string  `json:"city,omitempty"`
	Pincode     string  `json:"pincode,omitempty"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	Serviceable bool    `json:"serviceable"`
}
