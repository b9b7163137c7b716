package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderStore struct {
	coll *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection("orders")}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.OrderedAt.IsZero() {
		order.OrderedAt = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insertion commande: %w", err)
	}
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var order models.Order
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lecture commande %s: %w", id, err)
	}
	return &order, nil
}

// ListByEmail retourne toutes les commandes d'un client, plus récentes d'abord.
func (s *OrderStore) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("liste commandes: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("décodage commandes: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) SetStatus(ctx context.Context, ids []string, status string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := s.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("mise à jour statut: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *OrderStore) Update(ctx context.Context, id string, upd OrderUpdate) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.LineItems != nil {
		set["lineItems"] = upd.LineItems
	}
	if upd.Total != nil {
		set["total"] = *upd.Total
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mise à jour commande %s: %w", id, err)
	}
	return &order, nil
}

func (s *OrderStore) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	return s.setFields(ctx, id, bson.M{"paymentIntentId": intentID})
}

func (s *OrderStore) MarkPaid(ctx context.Context, id string) error {
	return s.setFields(ctx, id, bson.M{"paid": true})
}

func (s *OrderStore) setFields(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	set["updatedAt"] = time.Now()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mise à jour commande %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
