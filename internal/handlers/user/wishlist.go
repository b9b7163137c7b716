package user

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	wishlist *catalog.Wishlist
}

func NewWishlistHandler(w *catalog.Wishlist) *WishlistHandler {
	return &WishlistHandler{wishlist: w}
}

type toggleRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// GetWishlist récupère les produits favoris de l'utilisateur
func (h *WishlistHandler) Get(c *gin.Context) {
	products, err := h.wishlist.Products(c.Request.Context(), c.GetString(middleware.CtxEmail))
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture wishlist"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *WishlistHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}

	wished, err := h.wishlist.Toggle(c.Request.Context(), c.GetString(middleware.CtxEmail), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur mise à jour wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour wishlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wished": wished})
}
