package user

import (
	"net/http"
	"strings"

	"storefront_back_end/internal/cart"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CartSessionHeader identifie le panier d'un visiteur non connecté.
	CartSessionHeader = "X-Cart-Session"
	// CartSessionParam remplace l'en-tête là où le client ne peut pas en poser (WebSocket navigateur).
	CartSessionParam = "session"
)

type CartHandler struct {
	storage cart.Storage
}

func NewCartHandler(storage cart.Storage) *CartHandler {
	return &CartHandler{storage: storage}
}

type removeItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	ColorID   string `json:"colorId"`
}

// cartIdentity retourne "" quand la requête n'a ni utilisateur ni session invité.
func cartIdentity(c *gin.Context) string {
	session := c.GetHeader(CartSessionHeader)
	if strings.TrimSpace(session) == "" {
		session = c.Query(CartSessionParam)
	}
	return cart.IdentityKey(c.GetString(middleware.CtxEmail), session)
}

// cartKey attribue une nouvelle session, renvoyée dans X-Cart-Session, au visiteur qui n'en a pas.
func cartKey(c *gin.Context) string {
	if key := cartIdentity(c); key != "" {
		return key
	}
	session := uuid.NewString()
	c.Header(CartSessionHeader, session)
	return cart.IdentityKey("", session)
}

// holder charge le panier de l'identité courante. Répond 500 et retourne nil en cas d'échec.
func (h *CartHandler) holder(c *gin.Context) *cart.Holder {
	holder := cart.NewHolder(h.storage)
	if err := holder.SwitchIdentity(c.Request.Context(), cartKey(c)); err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur chargement panier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération panier"})
		return nil
	}
	return holder
}

func cartBody(holder *cart.Holder) gin.H {
	return gin.H{
		"items": holder.Items(),
		"total": holder.Total(),
		"count": holder.Count(),
	}
}

// 🛒 Panier brut
func (h *CartHandler) Get(c *gin.Context) {
	holder := h.holder(c)
	if holder == nil {
		return
	}
	c.JSON(http.StatusOK, cartBody(holder))
}

// Grouped regroupe les lignes par produit et couleur, prêt pour /api/checkout.
func (h *CartHandler) Grouped(c *gin.Context) {
	holder := h.holder(c)
	if holder == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": holder.Grouped(),
		"total": holder.Total(),
		"count": holder.Count(),
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.ProductID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article invalide"})
		return
	}

	holder := h.holder(c)
	if holder == nil {
		return
	}
	added, err := holder.AddItem(c.Request.Context(), item)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur sauvegarde panier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	body := cartBody(holder)
	body["added"] = added
	c.JSON(http.StatusOK, body)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId requis"})
		return
	}

	holder := h.holder(c)
	if holder == nil {
		return
	}
	removed, err := holder.RemoveItem(c.Request.Context(), req.ProductID, req.ColorID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur sauvegarde panier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	body := cartBody(holder)
	body["removed"] = removed
	c.JSON(http.StatusOK, body)
}

func (h *CartHandler) Clear(c *gin.Context) {
	holder := h.holder(c)
	if holder == nil {
		return
	}
	if err := holder.ClearAll(c.Request.Context()); err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur suppression panier", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}
	c.JSON(http.StatusOK, cartBody(holder))
}
