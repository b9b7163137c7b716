package product

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ⭐ Avis d'un produit : /api/reviews?productId=...
func (h *Handler) ListReviews(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}

	summary, err := h.reviews.ForProduct(c.Request.Context(), productID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture avis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération avis"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CreateReview(c *gin.Context) {
	author, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var in catalog.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avis invalide : note de 1 à 5 et commentaire requis"})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), author, in)
	switch {
	case errors.Is(err, catalog.ErrInvalidReview):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le commentaire doit contenir entre 3 et 500 caractères"})
		return
	case errors.Is(err, catalog.ErrProductNotFound):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	case err != nil:
		c.Set(middleware.AuditError, err.Error())
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur création avis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création avis"})
		return
	}

	c.Set(middleware.AuditResourceID, review.ID.Hex())
	c.JSON(http.StatusCreated, review)
}
