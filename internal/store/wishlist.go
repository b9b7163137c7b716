package store

import (
	"context"
	"fmt"
	"time"

	"storefront_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WishlistStore struct {
	coll *mongo.Collection
}

func NewWishlistStore(db *mongo.Database) *WishlistStore {
	return &WishlistStore{coll: db.Collection("wishlist")}
}

func (s *WishlistStore) ListByUser(ctx context.Context, email string) ([]models.WishedProduct, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("liste favoris: %w", err)
	}
	defer cursor.Close(ctx)

	wished := []models.WishedProduct{}
	if err := cursor.All(ctx, &wished); err != nil {
		return nil, fmt.Errorf("décodage favoris: %w", err)
	}
	return wished, nil
}

func (s *WishlistStore) Remove(ctx context.Context, email, productID string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"userEmail": email, "productId": productID})
	if err != nil {
		return false, fmt.Errorf("suppression favori: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *WishlistStore) Add(ctx context.Context, email, productID string) error {
	doc := models.WishedProduct{
		ID:        primitive.NewObjectID(),
		UserEmail: email,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("ajout favori: %w", err)
	}
	return nil
}
