// Package store contient l'accès aux collections MongoDB de la boutique.
package store

import (
	"context"
	"errors"

	"storefront_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("document introuvable")

type ProductFilter struct {
	Category string
	Limit    int64
}

type Products interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, query string, limit int64) ([]models.Product, error)
}

type Categories interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

// OrderUpdate décrit une modification partielle ; les champs nil restent inchangés.
type OrderUpdate struct {
	Status    *string
	LineItems []models.LineItem
	Total     *float64
}

type Orders interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	SetStatus(ctx context.Context, ids []string, status string) (int64, error)
	Update(ctx context.Context, id string, upd OrderUpdate) (*models.Order, error)
	SetPaymentIntent(ctx context.Context, id, intentID string) error
	MarkPaid(ctx context.Context, id string) error
}

type Employees interface {
	ListByStatus(ctx context.Context, status string) ([]models.Employee, error)
}

type Reviews interface {
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

type Wishlist interface {
	ListByUser(ctx context.Context, email string) ([]models.WishedProduct, error)
	// Remove retourne false si le produit n'était pas en favori.
	Remove(ctx context.Context, email, productID string) (bool, error)
	Add(ctx context.Context, email, productID string) error
}

// objectIDs convertit des identifiants hexadécimaux ; les identifiants invalides sont ignorés.
func objectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out
}

var (
	_ Products   = (*ProductStore)(nil)
	_ Categories = (*CategoryStore)(nil)
	_ Orders     = (*OrderStore)(nil)
	_ Employees  = (*EmployeeStore)(nil)
	_ Reviews    = (*ReviewStore)(nil)
	_ Wishlist   = (*WishlistStore)(nil)
)
