package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ColorVariant struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Color      string             `json:"color" bson:"color"`
	Image      string             `json:"image" bson:"image"`
	OutOfStock bool               `json:"outOfStock" bson:"outOfStock"`
}

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Reference   string             `json:"reference" bson:"reference"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Images      []string           `json:"images" bson:"images"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Colors      []ColorVariant     `json:"colors,omitempty" bson:"colors,omitempty"`
	OutOfStock  bool               `json:"outOfStock" bson:"outOfStock"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PrimaryImage retourne la première image du produit, ou "".
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// FindColor cherche une variante par identifiant hexadécimal.
func (p Product) FindColor(colorID string) (ColorVariant, bool) {
	for _, v := range p.Colors {
		if v.ID.Hex() == colorID {
			return v, true
		}
	}
	return ColorVariant{}, false
}
