package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m     sync.RWMutex
	cart  *domain.Cart
	err   error
	saves int
}

func (m *mockRepository) Load(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) Save(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.cart = cart
	return nil
}

func (m *mockRepository) savedCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func (m *mockRepository) saveCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.saves
}

func topEntity() domain.CatalogEntity {
	return domain.CatalogEntity{
		Kind:     domain.KindTop,
		ID:       "top-1",
		Name:     "Linen Shirt",
		Price:    500,
		ImageURL: "/images/linen.jpg",
		Color:    "white",
	}
}

func outfitEntity() domain.CatalogEntity {
	return domain.CatalogEntity{
		Kind:       domain.KindOutfit,
		ID:         "outfit-1",
		Name:       "Office Classic",
		TotalPrice: 1200,
		Top:        &domain.OutfitComponent{ID: "top-2", Color: "blue", ImageURL: "/images/oxford.jpg"},
		Bottom:     &domain.OutfitComponent{ID: "bottom-2", Color: "charcoal"},
	}
}

func TestAddItem_MergesSameKey(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 2)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, topEntity(), domain.SizeM, 3)
	require.NoError(t, err)

	items := sut.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_FirstAddWinsForPriceSnapshot(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)

	repriced := topEntity()
	repriced.Price = 999
	repriced.Name = "Renamed Shirt"
	_, err = sut.AddItem(ctx, repriced, domain.SizeM, 1)
	require.NoError(t, err)

	items := sut.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 500.0, items[0].UnitPrice)
	assert.Equal(t, "Linen Shirt", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItem_DifferentSizesAreDifferentLines(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, topEntity(), domain.SizeL, 1)
	require.NoError(t, err)

	assert.Len(t, sut.Snapshot(), 2)
}

func TestAddItem_InvalidEntityLeavesCartUnchanged(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)

	_, err = sut.AddItem(ctx, domain.CatalogEntity{Kind: domain.KindTop}, domain.SizeM, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidEntity)

	items := sut.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, mockRepo.saveCount()) // rejected add never persisted
}

func TestAddItem_PersistFailureDoesNotFailMutation(t *testing.T) {
	mockRepo := &mockRepository{err: assert.AnError}
	sut := NewStore("session-1", nil, mockRepo)

	_, err := sut.AddItem(context.Background(), topEntity(), domain.SizeM, 1)

	require.NoError(t, err)
	assert.Len(t, sut.Snapshot(), 1) // in-memory state stays authoritative
}

func TestRemoveItem_Idempotent(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)

	key := domain.ItemKey{Kind: domain.KindTop, ID: "top-1", Size: domain.SizeM}
	sut.RemoveItem(ctx, key)
	assert.Empty(t, sut.Snapshot())

	savesAfterFirst := mockRepo.saveCount()
	sut.RemoveItem(ctx, key) // second removal is a no-op
	assert.Empty(t, sut.Snapshot())
	assert.Equal(t, savesAfterFirst, mockRepo.saveCount())
}

func TestUpdateQuantity_BelowOneRemovesItem(t *testing.T) {
	for _, quantity := range []int{0, -3} {
		mockRepo := &mockRepository{}
		sut := NewStore("session-1", nil, mockRepo)
		ctx := context.Background()

		_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 2)
		require.NoError(t, err)

		sut.UpdateQuantity(ctx, domain.ItemKey{Kind: domain.KindTop, ID: "top-1", Size: domain.SizeM}, quantity)

		assert.Empty(t, sut.Snapshot())
	}
}

func TestUpdateQuantity_SetsDirectly(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 2)
	require.NoError(t, err)

	sut.UpdateQuantity(ctx, domain.ItemKey{Kind: domain.KindTop, ID: "top-1", Size: domain.SizeM}, 7)

	items := sut.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity) // set, not incremented
}

func TestCount_SumsQuantities(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	assert.Equal(t, 0, sut.Count())

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 2)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, outfitEntity(), domain.SizeL, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, sut.Count())
}

func TestSnapshot_PreservesInsertionOrderAndIsolation(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, outfitEntity(), domain.SizeL, 1)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)

	items := sut.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "outfit-1", items[0].ID)
	assert.Equal(t, "top-1", items[1].ID)

	items[0].Quantity = 99 // mutating the snapshot must not reach the store
	assert.Equal(t, 1, sut.Snapshot()[0].Quantity)
}

func TestClear_PersistsEmptyState(t *testing.T) {
	mockRepo := &mockRepository{}
	sut := NewStore("session-1", nil, mockRepo)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, topEntity(), domain.SizeM, 1)
	require.NoError(t, err)

	sut.Clear(ctx)

	assert.Empty(t, sut.Snapshot())
	require.NotNil(t, mockRepo.savedCart())
	assert.Empty(t, mockRepo.savedCart().Items)
}
