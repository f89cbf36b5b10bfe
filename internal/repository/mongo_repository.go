package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *MongoRepository) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"session_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart.Items = repairItems(sessionID, cart.Items)
	return &cart, nil
}

// repairItems drops persisted records that lost their identifying triple.
// A damaged record degrades to a missing item, never to a failed load.
func repairItems(sessionID string, items []domain.LineItem) []domain.LineItem {
	kept := items[:0]
	for _, item := range items {
		if item.ID == "" {
			log.Printf("dropping persisted item without id for session %s", sessionID)
			continue
		}
		if _, ok := domain.ParseKind(string(item.Kind)); !ok {
			log.Printf("dropping persisted item %s with unknown kind %q", item.ID, item.Kind)
			continue
		}
		if !domain.ValidSize(item.Size) {
			log.Printf("dropping persisted item %s with unknown size %q", item.ID, item.Size)
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// Save upserts the whole cart document. The in-memory cart is the source
// of truth for the session, so there is no point patching individual items.
func (m *MongoRepository) Save(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	doc := bson.M{
		"session_id": cart.SessionID,
		"user_id":    cart.UserID,
		"items":      cart.Items,
		"created_at": cart.CreatedAt,
		"updated_at": cart.UpdatedAt,
	}

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
