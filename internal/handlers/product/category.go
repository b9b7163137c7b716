package product

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 🔵 Lister les catégories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture catégories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catégories"})
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	c.JSON(http.StatusOK, cats)
}

// 🟢 Créer une catégorie : pas encore disponible
func (h *Handler) CreateCategory(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Création de catégorie non disponible"})
}

func (h *Handler) GetCategory(c *gin.Context) {
	cat, err := h.catalog.Category(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture catégorie", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catégorie"})
		return
	}
	c.JSON(http.StatusOK, cat)
}
