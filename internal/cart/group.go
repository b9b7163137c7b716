package cart

import "storefront_back_end/internal/models"

type groupKey struct {
	productID string
	colorID   string
}

// Group fusionne les lignes identiques (produit + couleur) en conservant l'ordre d'apparition.
func Group(items []models.CartItem) []models.GroupedCartItem {
	index := make(map[groupKey]int, len(items))
	out := []models.GroupedCartItem{}

	for _, it := range items {
		k := groupKey{it.ProductID, it.ColorID}
		if i, ok := index[k]; ok {
			out[i].Quantity++
			continue
		}
		index[k] = len(out)
		out = append(out, models.GroupedCartItem{
			ProductID: it.ProductID,
			ColorID:   it.ColorID,
			ColorName: it.ColorName,
			Quantity:  1,
		})
	}
	return out
}

// Ungroup déplie les quantités en autant de lignes brutes.
func Ungroup(grouped []models.GroupedCartItem) []models.CartItem {
	out := []models.CartItem{}
	for _, g := range grouped {
		for i := 0; i < g.Quantity; i++ {
			out = append(out, models.CartItem{
				ProductID: g.ProductID,
				ColorID:   g.ColorID,
				ColorName: g.ColorName,
			})
		}
	}
	return out
}
