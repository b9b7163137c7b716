package store

import (
	"context"
	"fmt"

	"storefront_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EmployeeStore struct {
	coll *mongo.Collection
}

func NewEmployeeStore(db *mongo.Database) *EmployeeStore {
	return &EmployeeStore{coll: db.Collection("employees")}
}

func (s *EmployeeStore) ListByStatus(ctx context.Context, status string) ([]models.Employee, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("liste employés: %w", err)
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("décodage employés: %w", err)
	}
	return employees, nil
}
