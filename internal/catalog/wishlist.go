package catalog

import (
	"context"
	"errors"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

type Wishlist struct {
	wishlist store.Wishlist
	products store.Products
}

func NewWishlist(wishlist store.Wishlist, products store.Products) *Wishlist {
	return &Wishlist{wishlist: wishlist, products: products}
}

// Products retourne les produits favoris encore présents au catalogue.
func (w *Wishlist) Products(ctx context.Context, email string) ([]models.Product, error) {
	wished, err := w.wishlist.ListByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(wished))
	for _, it := range wished {
		ids = append(ids, it.ProductID)
	}

	found, err := w.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID.Hex()] = p
	}

	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Toggle ajoute ou retire le produit. Retourne true s'il est désormais en favori.
// Un favori existant se retire même si le produit a quitté le catalogue.
func (w *Wishlist) Toggle(ctx context.Context, email, productID string) (bool, error) {
	removed, err := w.wishlist.Remove(ctx, email, productID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	if _, err := w.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}
	if err := w.wishlist.Add(ctx, email, productID); err != nil {
		return false, err
	}
	return true, nil
}
