package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Manager hands out the one Store per session, resuming persisted items
// on first access. A failed load degrades to an empty cart: persisted
// state is best-effort resumption, not a durability guarantee.
type Manager struct {
	repo repository.CartRepository

	mu     sync.RWMutex
	stores map[string]*Store
	sfg    singleflight.Group // Prevents duplicate loads for the same session
}

func NewManager(repo repository.CartRepository) *Manager {
	return &Manager{
		repo:   repo,
		stores: make(map[string]*Store),
	}
}

func (m *Manager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.RLock()
	store, ok := m.stores[sessionID]
	m.mu.RUnlock()
	if ok {
		return store
	}

	v, _, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		m.mu.RLock()
		existing, found := m.stores[sessionID]
		m.mu.RUnlock()
		if found {
			return existing, nil
		}

		items := m.loadItems(ctx, sessionID)
		created := NewStore(sessionID, items, m.repo)

		m.mu.Lock()
		m.stores[sessionID] = created
		m.mu.Unlock()

		return created, nil
	})

	return v.(*Store)
}

func (m *Manager) loadItems(ctx context.Context, sessionID string) []domain.LineItem {
	if m.repo == nil {
		return nil
	}

	persisted, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			log.Printf("cart load failed for session %s, starting empty: %v", sessionID, err)
		}
		return nil
	}

	return persisted.Items
}
