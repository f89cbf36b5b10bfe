package cart

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ResumesPersistedCart(t *testing.T) {
	mockRepo := &mockRepository{
		cart: &domain.Cart{
			SessionID: "session-1",
			Items: []domain.LineItem{
				{ID: "top-1", Kind: domain.KindTop, Size: domain.SizeM, Quantity: 2, UnitPrice: 500},
			},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	sut := NewManager(mockRepo)
	store := sut.Store(context.Background(), "session-1")

	items := store.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "top-1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestManager_ReturnsSameStorePerSession(t *testing.T) {
	sut := NewManager(&mockRepository{})
	ctx := context.Background()

	first := sut.Store(ctx, "session-1")
	second := sut.Store(ctx, "session-1")
	other := sut.Store(ctx, "session-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestManager_LoadFailureStartsEmpty(t *testing.T) {
	sut := NewManager(&mockRepository{err: assert.AnError})

	store := sut.Store(context.Background(), "session-1")

	assert.Empty(t, store.Snapshot()) // degraded resumption, usable cart
}

func TestManager_MissingCartStartsEmpty(t *testing.T) {
	sut := NewManager(&mockRepository{})

	store := sut.Store(context.Background(), "session-1")

	assert.Empty(t, store.Snapshot())
	assert.Equal(t, "session-1", store.SessionID())
}
