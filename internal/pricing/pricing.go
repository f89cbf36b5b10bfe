package pricing

import (
	"errors"
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrInvalidDiscountCode = errors.New("invalid discount code")

const (
	// DiscountRate is the flat reduction a valid code grants. Codes do
	// not stack and there are no tiers.
	DiscountRate = 0.10

	// FreeShippingThreshold is compared against the pre-discount
	// subtotal; a discount never moves a cart across the free-shipping
	// line.
	FreeShippingThreshold = 999.0

	FlatShippingCost = 50.0

	defaultDiscountCode = "10%discount"
)

// Engine computes bills from cart snapshots. It holds no cart state:
// calling it twice with the same snapshot and code yields the same bill.
type Engine struct {
	discountCode string
}

// NewEngine recognizes exactly one discount code; an empty argument
// keeps the stock code.
func NewEngine(discountCode string) *Engine {
	if discountCode == "" {
		discountCode = defaultDiscountCode
	}
	return &Engine{discountCode: normalizeCode(discountCode)}
}

// ComputeBill runs the subtotal -> discount -> shipping -> total stages
// over the snapshot. The returned bill is always usable: an unrecognized
// non-empty code reports ErrInvalidDiscountCode alongside a full-price
// bill, so checkout can proceed without the discount.
func (e *Engine) ComputeBill(items []domain.LineItem, discountCode string) (domain.Bill, error) {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	var discountAmount float64
	var err error
	if code := normalizeCode(discountCode); code != "" {
		if code == e.discountCode {
			discountAmount = subtotal * DiscountRate
		} else {
			err = ErrInvalidDiscountCode
		}
	}

	shippingCost := FlatShippingCost
	if subtotal >= FreeShippingThreshold {
		shippingCost = 0
	}

	total := subtotal - discountAmount + shippingCost
	if total < 0 {
		total = 0
	}

	return domain.Bill{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		ShippingCost:   shippingCost,
		Total:          total,
	}, err
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
