package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/pricing"
	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

// Order is what leaves the storefront when a buyer commits: the line
// items as the buyer saw them plus the recomputed bill. Recording it is
// the order collaborator's job.
type Order struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Items     []domain.LineItem `json:"items"`
	Bill      domain.Bill       `json:"bill"`
	PlacedAt  time.Time         `json:"placed_at"`
}

// OrderPublisher hands a placed order to the external order collaborator.
type OrderPublisher interface {
	Publish(ctx context.Context, order *Order) error
}

type Service struct {
	engine    *pricing.Engine
	publisher OrderPublisher
}

func NewService(engine *pricing.Engine, publisher OrderPublisher) *Service {
	return &Service{engine: engine, publisher: publisher}
}

// PlaceOrder guards against empty carts, prices the snapshot, and hands
// the order off. The cart is cleared only after a successful hand-off;
// a publish failure leaves it intact for a retry. Pricing an empty cart
// is legal elsewhere, placing an empty order is not.
func (s *Service) PlaceOrder(ctx context.Context, store *cart.Store, discountCode string) (*Order, error) {
	items := store.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	bill, err := s.engine.ComputeBill(items, discountCode)
	if err != nil {
		// An invalid code must not block checkout; the buyer proceeds
		// at full price.
		log.Printf("discount code rejected at checkout for session %s: %v", store.SessionID(), err)
	}

	order := &Order{
		ID:        uuid.NewString(),
		SessionID: store.SessionID(),
		UserID:    store.UserID(),
		Items:     items,
		Bill:      bill,
		PlacedAt:  time.Now(),
	}

	if errPublish := s.publisher.Publish(ctx, order); errPublish != nil {
		return nil, fmt.Errorf("failed to publish order: %w", errPublish)
	}

	store.Clear(ctx)
	return order, nil
}
