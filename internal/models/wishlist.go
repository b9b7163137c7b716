package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishedProduct struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserEmail string             `json:"userEmail" bson:"userEmail"`
	ProductID string             `json:"productId" bson:"productId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
