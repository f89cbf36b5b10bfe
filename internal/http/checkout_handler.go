package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/pricing"
)

type CheckoutHandler struct {
	carts    *cart.Manager
	checkout *checkout.Service
	engine   *pricing.Engine
	timeout  time.Duration
}

func NewCheckoutHandler(carts *cart.Manager, checkoutSvc *checkout.Service, engine *pricing.Engine, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkoutSvc,
		engine:   engine,
		timeout:  timeout,
	}
}

type QuoteRequestDTO struct {
	DiscountCode string `json:"discount_code"`
}

type QuoteResponseDTO struct {
	Bill            domain.Bill `json:"bill"`
	DiscountApplied bool        `json:"discount_applied"`
	DiscountError   string      `json:"discount_error,omitempty"`
}

// Quote prices the current cart without committing anything. An invalid
// discount code is reported in the response, not as an HTTP failure:
// the buyer may still check out at full price.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req QuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.carts.Store(ctx, getSessionID(r.Context()))
	bill, err := h.engine.ComputeBill(store.Snapshot(), req.DiscountCode)

	resp := QuoteResponseDTO{
		Bill:            bill,
		DiscountApplied: bill.DiscountAmount > 0,
	}
	if err != nil {
		resp.DiscountError = err.Error()
	}

	respondJSON(w, http.StatusOK, resp)
}

type PlaceOrderRequestDTO struct {
	DiscountCode string `json:"discount_code"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.carts.Store(ctx, getSessionID(r.Context()))
	store.SetUser(getUserID(r.Context()))

	order, err := h.checkout.PlaceOrder(ctx, store, req.DiscountCode)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			handleDomainError(w, err)
			return
		}
		respondError(w, http.StatusServiceUnavailable, "order_handoff_failed", "could not hand the order off, try again")
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
