package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/pricing"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
	engine  *pricing.Engine
	timeout time.Duration
}

func NewCartHandler(carts *cart.Manager, catalogSvc *catalog.Service, engine *pricing.Engine, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogSvc,
		engine:  engine,
		timeout: timeout,
	}
}

// AddItemRequestDTO identifies a catalog row by (kind, id), or carries
// the full entity inline. Recommended outfits are not catalog rows; the
// client sends them back exactly as the recommender returned them.
type AddItemRequestDTO struct {
	Kind     string                `json:"kind"`
	ID       string                `json:"id"`
	Size     string                `json:"size"`
	Quantity int                   `json:"quantity"`
	Entity   *domain.CatalogEntity `json:"entity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartViewDTO is the cart as the UI reads it: the ordered items plus the
// derived aggregates, recomputed on every read.
type CartViewDTO struct {
	SessionID       string            `json:"session_id"`
	Items           []domain.LineItem `json:"items"`
	Count           int               `json:"count"`
	Bill            domain.Bill       `json:"bill"`
	DiscountApplied bool              `json:"discount_applied"`
	DiscountError   string            `json:"discount_error,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store := h.sessionStore(ctx, r)
	respondJSON(w, http.StatusOK, h.cartView(store, r.URL.Query().Get("code")))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	entity := req.Entity
	if entity == nil {
		kind, ok := domain.ParseKind(req.Kind)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be top, bottom or outfit")
			return
		}
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "invalid_id", "id must not be empty")
			return
		}

		var err error
		entity, err = h.catalog.GetEntity(ctx, kind, req.ID)
		if err != nil {
			handleDomainError(w, err)
			return
		}
	}

	store := h.sessionStore(ctx, r)
	// Size and quantity are coerced, not rejected; a broken entity
	// rejects the add and leaves the cart unchanged.
	if _, err := store.AddItem(ctx, *entity, domain.ParseSize(req.Size), req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartView(store, ""))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key, ok := itemKeyFromURL(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.sessionStore(ctx, r)
	store.UpdateQuantity(ctx, key, req.Quantity)

	respondJSON(w, http.StatusOK, h.cartView(store, ""))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key, ok := itemKeyFromURL(w, r)
	if !ok {
		return
	}

	store := h.sessionStore(ctx, r)
	store.RemoveItem(ctx, key)

	respondJSON(w, http.StatusOK, h.cartView(store, ""))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store := h.sessionStore(ctx, r)
	store.Clear(ctx)

	respondJSON(w, http.StatusOK, h.cartView(store, ""))
}

func (h *CartHandler) sessionStore(ctx context.Context, r *http.Request) *cart.Store {
	store := h.carts.Store(ctx, getSessionID(r.Context()))
	store.SetUser(getUserID(r.Context()))
	return store
}

func (h *CartHandler) cartView(store *cart.Store, discountCode string) CartViewDTO {
	items := store.Snapshot()
	bill, err := h.engine.ComputeBill(items, discountCode)

	view := CartViewDTO{
		SessionID:       store.SessionID(),
		Items:           items,
		Count:           store.Count(),
		Bill:            bill,
		DiscountApplied: bill.DiscountAmount > 0,
	}
	if err != nil {
		view.DiscountError = err.Error()
	}
	return view
}

func itemKeyFromURL(w http.ResponseWriter, r *http.Request) (domain.ItemKey, bool) {
	kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be top, bottom or outfit")
		return domain.ItemKey{}, false
	}

	size := domain.Size(chi.URLParam(r, "size"))
	if !domain.ValidSize(size) {
		respondError(w, http.StatusBadRequest, "invalid_size", "size must be one of S, M, L, XL, 2XL, 3XL")
		return domain.ItemKey{}, false
	}

	return domain.ItemKey{
		Kind: kind,
		ID:   chi.URLParam(r, "id"),
		Size: size,
	}, true
}
