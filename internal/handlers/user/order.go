package user

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

func orderList(list []models.Order) []models.Order {
	if list == nil {
		return []models.Order{}
	}
	return list
}

// ✅ Commandes en cours de l'utilisateur connecté
func (h *OrderHandler) ListActive(c *gin.Context) {
	email := c.GetString(middleware.CtxEmail)
	list, err := h.orders.ListActive(c.Request.Context(), email)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur récupération commandes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orderList(list)})
}

// ✅ Une commande de l'utilisateur
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxEmail))
	if err != nil {
		h.fail(c, err, "Erreur récupération commande")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ❌ Annulation : la commande passe à « Annulée », quel que soit son statut
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxEmail))
	if err != nil {
		c.Set(middleware.AuditError, err.Error())
		h.fail(c, err, "Erreur annulation commande")
		return
	}
	c.Set(middleware.AuditNewValue, gin.H{"status": order.Status})
	c.JSON(http.StatusOK, gin.H{"message": "Commande annulée", "order": order})
}

// 📜 Historique : annulées, livrées, prêtes
func (h *OrderHandler) ListHistory(c *gin.Context) {
	list, err := h.orders.ListHistory(c.Request.Context(), c.GetString(middleware.CtxEmail))
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur récupération historique", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération historique"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orderList(list)})
}

// 🗑️ Vider l'historique : les commandes passent à « Supprimée »
func (h *OrderHandler) ClearHistory(c *gin.Context) {
	n, err := h.orders.ClearHistory(c.Request.Context(), c.GetString(middleware.CtxEmail))
	if err != nil {
		c.Set(middleware.AuditError, err.Error())
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur suppression historique", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression historique"})
		return
	}
	c.Set(middleware.AuditNewValue, gin.H{"deleted": n})
	c.JSON(http.StatusOK, gin.H{"message": "Historique supprimé", "deleted": n})
}

func (h *OrderHandler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, orders.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	logger.FromCtx(c.Request.Context()).Error("❌ "+msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
