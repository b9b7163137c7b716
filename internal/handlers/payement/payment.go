package payement

import (
	"errors"
	"net/http"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/orders"
	"storefront_back_end/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = int64(65536)

type PaymentHandler struct {
	payments *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

// ✅ Crée un PaymentIntent Stripe pour une commande du client
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	intent, err := h.payments.CreateIntent(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxEmail))
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	case errors.Is(err, payment.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà payée"})
		return
	case errors.Is(err, payment.ErrNothingToPay):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commande sans montant à payer"})
		return
	case err != nil:
		c.Set(middleware.AuditError, err.Error())
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur Stripe", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	c.Set(middleware.AuditNewValue, gin.H{"paymentId": intent.ID, "amount": intent.Amount})
	c.JSON(http.StatusCreated, intent)
}

// ✅ Webhook Stripe
func (h *PaymentHandler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes)

	payload, err := c.GetRawData()
	if err != nil {
		logger.FromCtx(c.Request.Context()).Warn("❌ Lecture payload échouée", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	event, err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	case errors.Is(err, payment.ErrInvalidEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
		return
	case errors.Is(err, orders.ErrOrderNotFound):
		// Stripe réessaierait indéfiniment : on acquitte.
		logger.FromCtx(c.Request.Context()).Warn("⚠️ Paiement pour une commande inconnue", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	case err != nil:
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur traitement webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement webhook"})
		return
	}

	if event.OrderID != "" {
		c.Set(middleware.AuditResourceID, event.OrderID)
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "type": event.Type})
}
