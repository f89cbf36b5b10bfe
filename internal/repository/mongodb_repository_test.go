package repository

import (
	"context"
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (*MongoRepository, *mongo.Database, func()) {
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	// Get connection string
	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Connect to MongoDB
	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	// Create repository
	repo := NewMongoRepository(db)

	// Create indexes
	err = repo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, db, cleanup
}

func TestLoad_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.Load(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cart := &domain.Cart{
		SessionID: "session-1",
		UserID:    "user-1",
		Items: []domain.LineItem{
			{ID: "top-1", Kind: domain.KindTop, Size: domain.SizeM, Quantity: 2, UnitPrice: 500, Name: "Linen Shirt"},
			{ID: "outfit-1", Kind: domain.KindOutfit, Size: domain.SizeL, Quantity: 1, UnitPrice: 1200, TopColor: "blue", BottomColor: "charcoal"},
		},
	}

	err := repo.Save(ctx, cart)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "top-1", loaded.Items[0].ID)
	assert.Equal(t, 500.0, loaded.Items[0].UnitPrice)
	assert.Equal(t, "outfit-1", loaded.Items[1].ID)
	assert.Equal(t, "blue", loaded.Items[1].TopColor)
	assert.Equal(t, "user-1", loaded.UserID)
}

func TestSave_OverwritesExistingDocument(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	first := &domain.Cart{
		SessionID: "session-1",
		Items: []domain.LineItem{
			{ID: "top-1", Kind: domain.KindTop, Size: domain.SizeM, Quantity: 1, UnitPrice: 500},
		},
	}
	require.NoError(t, repo.Save(ctx, first))

	second := &domain.Cart{
		SessionID: "session-1",
		Items: []domain.LineItem{
			{ID: "bottom-1", Kind: domain.KindBottom, Size: domain.SizeS, Quantity: 3, UnitPrice: 600},
		},
	}
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "bottom-1", loaded.Items[0].ID)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
}

func TestSave_PersistsEmptyCart(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cart := &domain.Cart{
		SessionID: "session-1",
		Items: []domain.LineItem{
			{ID: "top-1", Kind: domain.KindTop, Size: domain.SizeM, Quantity: 1, UnitPrice: 500},
		},
	}
	require.NoError(t, repo.Save(ctx, cart))

	cart.Items = nil
	require.NoError(t, repo.Save(ctx, cart))

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestLoad_DropsMalformedItems(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Write a document with damaged records directly, bypassing the
	// repository: one item lost its id, one its kind, one its size.
	_, err := db.Collection("carts").InsertOne(ctx, bson.M{
		"session_id": "session-1",
		"items": bson.A{
			bson.M{"id": "top-1", "kind": "top", "size": "M", "quantity": 2, "unit_price": 500.0},
			bson.M{"kind": "top", "size": "L", "quantity": 1, "unit_price": 100.0},
			bson.M{"id": "ghost-1", "kind": "hat", "size": "M", "quantity": 1, "unit_price": 100.0},
			bson.M{"id": "ghost-2", "kind": "bottom", "size": "XXS", "quantity": 1, "unit_price": 100.0},
		},
	})
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "top-1", loaded.Items[0].ID)
}
