package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending   = "En attente"
	StatusCancelled = "Annulée"
	StatusDelivered = "Livrée"
	StatusReady     = "Prête"
	StatusDeleted   = "Supprimée"
)

// HistoryStatuses sont les statuts qui rangent une commande dans l'historique.
var HistoryStatuses = []string{StatusCancelled, StatusDelivered, StatusReady}

type LineItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Title     string  `json:"title" bson:"title"`
	Reference string  `json:"reference" bson:"reference"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"userId,omitempty" bson:"userId,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone" bson:"phone"`
	StreetAddress   string             `json:"streetAddress" bson:"streetAddress"`
	Country         string             `json:"country" bson:"country"`
	OrderedAt       time.Time          `json:"orderedAt" bson:"orderedAt"`
	LineItems       []LineItem         `json:"lineItems" bson:"lineItems"`
	Total           float64            `json:"total" bson:"total"`
	Paid            bool               `json:"paid" bson:"paid"`
	Status          string             `json:"status" bson:"status"`
	PaymentIntentID string             `json:"paymentIntentId,omitempty" bson:"paymentIntentId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsHistorical indique si la commande appartient à l'historique.
func (o Order) IsHistorical() bool {
	for _, s := range HistoryStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// IsActive indique si la commande apparaît dans la liste des commandes en cours.
func (o Order) IsActive() bool {
	return o.Status != StatusDeleted && !o.IsHistorical()
}

// LineItemsTotal calcule Σ prix unitaire × quantité, arrondi au centime.
func LineItemsTotal(items []LineItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}
