package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
)

// Store owns the line items of one session. The in-memory state is
// authoritative for the session; the repository write after each mutation
// is best-effort for cross-session resumption. A failed write is logged
// and never rolls back or fails the mutation itself.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart
	repo repository.CartRepository
}

func NewStore(sessionID string, items []domain.LineItem, repo repository.CartRepository) *Store {
	return &Store{
		cart: domain.Cart{
			SessionID: sessionID,
			Items:     items,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		repo: repo,
	}
}

func (s *Store) SessionID() string {
	return s.cart.SessionID
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.UserID
}

// SetUser records an optional user identifier for attribution.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID != "" {
		s.cart.UserID = userID
	}
}

// AddItem projects the entity into a line item and merges it into the
// cart: an existing (kind, id, size) line gains quantity, keeping its
// original price and display snapshot; otherwise the item is appended,
// preserving insertion order. A malformed entity rejects the add and
// leaves the cart untouched.
func (s *Store) AddItem(ctx context.Context, entity domain.CatalogEntity, size domain.Size, quantity int) (domain.LineItem, error) {
	item, err := domain.NewLineItem(entity, size, quantity)
	if err != nil {
		return domain.LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.Key()
	merged := false
	for i := range s.cart.Items {
		if s.cart.Items[i].Key() == key {
			// First add wins for the price and display snapshot.
			s.cart.Items[i].Quantity += item.Quantity
			item = s.cart.Items[i]
			merged = true
			break
		}
	}
	if !merged {
		s.cart.Items = append(s.cart.Items, item)
	}

	s.persistLocked(ctx)
	return item, nil
}

// RemoveItem deletes the line item matching the key. Removing an absent
// key is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, key domain.ItemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.cart.Items {
		if item.Key() == key {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// UpdateQuantity sets the quantity directly. A quantity below 1 removes
// the item instead.
func (s *Store) UpdateQuantity(ctx context.Context, key domain.ItemKey, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, key)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart.Items {
		if s.cart.Items[i].Key() == key {
			s.cart.Items[i].Quantity = quantity
			s.persistLocked(ctx)
			return
		}
	}
}

// Count returns the total quantity across all line items, recomputed per
// call.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.cart.Items {
		count += item.Quantity
	}
	return count
}

// Snapshot returns a copy of the ordered line items for read-only use by
// the pricing pipeline and the UI.
func (s *Store) Snapshot() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	s.cart.UpdatedAt = time.Now()
	if s.repo == nil {
		return
	}

	snapshot := s.cart
	snapshot.Items = make([]domain.LineItem, len(s.cart.Items))
	copy(snapshot.Items, s.cart.Items)

	if err := s.repo.Save(ctx, &snapshot); err != nil {
		log.Printf("cart persist failed for session %s: %v", s.cart.SessionID, err)
	}
}
