package payement

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/checkout"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// Checkout crée la commande à partir du panier groupé envoyé par le client.
// Les prix sont ceux du catalogue ; les e-mails partent après la réponse.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if user, ok := middleware.CurrentUser(c); ok && user.ID != "" {
		req.UserID = user.ID
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), req)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	case errors.Is(err, checkout.ErrNoLineItems):
		c.Set(middleware.AuditError, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun produit du panier n'est disponible"})
		return
	case err != nil:
		c.Set(middleware.AuditError, err.Error())
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur création commande", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	c.Set(middleware.AuditResourceID, order.ID.Hex())
	c.Set(middleware.AuditNewValue, gin.H{"total": order.Total, "items": len(order.LineItems)})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Commande créée avec succès",
		"order":   order,
	})
}
