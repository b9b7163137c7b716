package models

// CartItem est une ligne brute du panier. Le prix est une copie côté client, jamais utilisée pour facturer.
type CartItem struct {
	ProductID  string  `json:"productId"`
	ColorID    string  `json:"colorId,omitempty"`
	ColorName  string  `json:"colorName,omitempty"`
	Title      string  `json:"title,omitempty"`
	Image      string  `json:"image,omitempty"`
	Price      float64 `json:"price"`
	OutOfStock bool    `json:"outOfStock,omitempty"`
}

// MaxLineQuantity borne la quantité d'une ligne de commande.
const MaxLineQuantity = 99

// GroupedCartItem regroupe les lignes identiques (produit + couleur).
type GroupedCartItem struct {
	ProductID string `json:"productId" binding:"required"`
	ColorID   string `json:"colorId,omitempty"`
	ColorName string `json:"colorName,omitempty"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=99"`
}
