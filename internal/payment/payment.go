// Package payment relie les commandes aux paiements Stripe.
package payment

import (
	"context"
	"errors"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidSignature = errors.New("signature Stripe invalide")
	ErrInvalidEvent     = errors.New("événement Stripe illisible")
	ErrAlreadyPaid      = errors.New("commande déjà payée")
	ErrNothingToPay     = errors.New("commande sans montant à payer")
)

// Orders est la partie du service commandes utilisée pour les paiements.
type Orders interface {
	Get(ctx context.Context, id, email string) (*models.Order, error)
	AttachPaymentIntent(ctx context.Context, id, intentID string) error
	MarkPaid(ctx context.Context, id string) error
}

type Service struct {
	gateway Gateway
	orders  Orders
}

func NewService(gateway Gateway, orders Orders) *Service {
	return &Service{gateway: gateway, orders: orders}
}

// CreateIntent ouvre un paiement pour une commande non payée du client.
func (s *Service) CreateIntent(ctx context.Context, orderID, email string) (*Intent, error) {
	order, err := s.orders.Get(ctx, orderID, email)
	if err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, ErrAlreadyPaid
	}
	if AmountInCents(order.Total) <= 0 {
		return nil, ErrNothingToPay
	}

	intent, err := s.gateway.CreateIntent(*order)
	if err != nil {
		return nil, err
	}
	if err := s.orders.AttachPaymentIntent(ctx, orderID, intent.ID); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("💳 PaymentIntent créé",
		zap.String("order_id", orderID),
		zap.String("payment_intent", intent.ID),
		zap.Int64("amount", intent.Amount))
	return intent, nil
}

// HandleWebhook marque la commande payée sur payment_intent.succeeded. Les autres événements sont ignorés.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*Event, error) {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(zap.String("event", event.Type))
	if event.Type != EventIntentSucceeded {
		log.Info("ℹ️ Événement Stripe ignoré")
		return event, nil
	}
	if event.OrderID == "" {
		log.Warn("⚠️ PaymentIntent sans commande associée", zap.String("payment_intent", event.IntentID))
		return event, nil
	}

	if err := s.orders.MarkPaid(ctx, event.OrderID); err != nil {
		return nil, err
	}
	log.Info("✅ Commande payée", zap.String("order_id", event.OrderID))
	return event, nil
}
