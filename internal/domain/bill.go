package domain

// Bill is the derived pricing breakdown for a cart at a point in time.
// It has no lifecycle of its own: every read recomputes it.
type Bill struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	ShippingCost   float64 `json:"shipping_cost"`
	Total          float64 `json:"total"`
}
