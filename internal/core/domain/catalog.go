package domain

// Category groups services in the catalog (e.g. "facial", "waxing").
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Service is a bookable treatment.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discountedPrice,omitempty"`
	DurationMinutes int     `json:"duration"`
	Description     string  `json:"description,omitempty"`
}

// EffectivePrice is the price a customer pays before promos.
func (s Service) EffectivePrice() float64 {
	if s.DiscountedPrice > 0 && s.DiscountedPrice < s.Price {
		return s.DiscountedPrice
	}
	return s.Price
}
