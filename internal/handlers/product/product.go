package product

import (
	"errors"
	"net/http"
	"strconv"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func productList(list []models.Product) []models.Product {
	if list == nil {
		return []models.Product{}
	}
	return list
}

// ListProducts accepte ?category=<id> pour filtrer.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context(), c.Query("category"))
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture produits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	c.JSON(http.StatusOK, productList(products))
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur lecture produit", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produit"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// 🔍 Recherche : /api/products/search?q=lampe&limit=10
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.catalog.Search(c.Request.Context(), c.Query("q"), limit)
	if errors.Is(err, catalog.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur recherche", zap.String("q", c.Query("q")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}
	c.JSON(http.StatusOK, productList(results))
}
