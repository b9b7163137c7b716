package admin

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/orders"
	"storefront_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

// updateOrderRequest : les champs absents restent inchangés.
type updateOrderRequest struct {
	Status    *string           `json:"status"`
	LineItems []models.LineItem `json:"lineItems"`
	Total     *float64          `json:"total"`
}

// UpdateOrder modifie le statut, les lignes ou le total d'une commande.
// Un changement de statut déclenche un e-mail au client.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), store.OrderUpdate{
		Status:    req.Status,
		LineItems: req.LineItems,
		Total:     req.Total,
	})
	switch {
	case errors.Is(err, orders.ErrInvalidUpdate):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Modification invalide"})
		return
	case errors.Is(err, orders.ErrOrderNotFound):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	case err != nil:
		c.Set(middleware.AuditError, err.Error())
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur mise à jour commande", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	c.Set(middleware.AuditNewValue, req)
	c.JSON(http.StatusOK, gin.H{"message": "Commande mise à jour", "order": order})
}
