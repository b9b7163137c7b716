package payment

import (
	"encoding/json"
	"fmt"

	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

const EventIntentSucceeded = "payment_intent.succeeded"

type Intent struct {
	ID           string `json:"paymentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Event est la partie d'un événement Stripe utile à la boutique.
type Event struct {
	Type     string
	IntentID string
	OrderID  string
}

type Gateway interface {
	CreateIntent(order models.Order) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*Event, error)
}

type StripeGateway struct {
	webhookSecret string
	allowUnsigned bool
}

// NewStripeGateway : allowUnsigned n'a d'effet que sans secret de webhook,
// et ne doit être vrai qu'hors production.
func NewStripeGateway(secretKey, webhookSecret string, allowUnsigned bool) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret, allowUnsigned: allowUnsigned}
}

// AmountInCents convertit un total en euros vers le montant entier attendu par Stripe.
func AmountInCents(total float64) int64 {
	return decimal.NewFromFloat(total).Shift(2).Round(0).IntPart()
}

func (g *StripeGateway) CreateIntent(order models.Order) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(AmountInCents(order.Total)),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(order.Email),
		Metadata: map[string]string{
			"order_id": order.ID.Hex(),
			"email":    order.Email,
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("création PaymentIntent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// ParseEvent vérifie la signature avec le secret de webhook.
// Sans secret, le corps n'est accepté tel quel qu'en mode test (allowUnsigned).
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	var event stripe.Event
	if g.webhookSecret == "" {
		if !g.allowUnsigned {
			return nil, fmt.Errorf("%w: secret de webhook non configuré", ErrInvalidSignature)
		}
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
	} else {
		var err error
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}

	out := &Event{Type: string(event.Type)}
	if out.Type != EventIntentSucceeded || event.Data == nil {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	out.IntentID = pi.ID
	out.OrderID = pi.Metadata["order_id"]
	return out, nil
}
