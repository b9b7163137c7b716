package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(order models.Order) (*Intent, error) {
	args := m.Called(order)
	intent, _ := args.Get(0).(*Intent)
	return intent, args.Error(1)
}

func (m *mockGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	args := m.Called(payload, signature)
	evt, _ := args.Get(0).(*Event)
	return evt, args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) Get(ctx context.Context, id, email string) (*models.Order, error) {
	args := m.Called(ctx, id, email)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) AttachPaymentIntent(ctx context.Context, id, intentID string) error {
	return m.Called(ctx, id, intentID).Error(0)
}

func (m *mockOrders) MarkPaid(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestAmountInCents(t *testing.T) {
	assert.EqualValues(t, 2000, AmountInCents(20))
	assert.EqualValues(t, 1999, AmountInCents(19.99))
	assert.EqualValues(t, 6027, AmountInCents(60.27))
	assert.EqualValues(t, 0, AmountInCents(0))
}

func TestService_CreateIntent(t *testing.T) {
	ctx := context.Background()
	order := &models.Order{ID: primitive.NewObjectID(), Email: "a@example.com", Total: 20}
	id := order.ID.Hex()

	t.Run("Creates and attaches intent", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		ord.On("Get", ctx, id, "a@example.com").Return(order, nil)
		gw.On("CreateIntent", *order).Return(&Intent{ID: "pi_1", ClientSecret: "secret", Amount: 2000}, nil)
		ord.On("AttachPaymentIntent", ctx, id, "pi_1").Return(nil)

		intent, err := NewService(gw, ord).CreateIntent(ctx, id, "a@example.com")

		require.NoError(t, err)
		assert.Equal(t, "secret", intent.ClientSecret)
		gw.AssertExpectations(t)
		ord.AssertExpectations(t)
	})

	t.Run("Refuses paid order", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		paid := *order
		paid.Paid = true
		ord.On("Get", ctx, id, "a@example.com").Return(&paid, nil)

		_, err := NewService(gw, ord).CreateIntent(ctx, id, "a@example.com")

		assert.ErrorIs(t, err, ErrAlreadyPaid)
		gw.AssertNotCalled(t, "CreateIntent", mock.Anything)
	})

	t.Run("Foreign order", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		ord.On("Get", ctx, id, "b@example.com").Return(nil, orders.ErrOrderNotFound)

		_, err := NewService(gw, ord).CreateIntent(ctx, id, "b@example.com")

		assert.ErrorIs(t, err, orders.ErrOrderNotFound)
	})
}

func TestService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks order paid", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		gw.On("ParseEvent", []byte("{}"), "sig").Return(&Event{Type: EventIntentSucceeded, IntentID: "pi_1", OrderID: "o1"}, nil)
		ord.On("MarkPaid", ctx, "o1").Return(nil)

		evt, err := NewService(gw, ord).HandleWebhook(ctx, []byte("{}"), "sig")

		require.NoError(t, err)
		assert.Equal(t, "o1", evt.OrderID)
		ord.AssertExpectations(t)
	})

	t.Run("Ignores other events", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		gw.On("ParseEvent", mock.Anything, mock.Anything).Return(&Event{Type: "charge.refunded"}, nil)

		_, err := NewService(gw, ord).HandleWebhook(ctx, []byte("{}"), "")

		require.NoError(t, err)
		ord.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Propagates signature errors", func(t *testing.T) {
		gw, ord := new(mockGateway), new(mockOrders)
		gw.On("ParseEvent", mock.Anything, mock.Anything).Return(nil, ErrInvalidSignature)

		_, err := NewService(gw, ord).HandleWebhook(ctx, []byte("{}"), "bad")

		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})
}

const succeededPayload = `{
	"id": "evt_1",
	"object": "event",
	"type": "payment_intent.succeeded",
	"data": {"object": {"id": "pi_1", "object": "payment_intent", "metadata": {"order_id": "6650f1c2a1b2c3d4e5f60718"}}}
}`

func TestStripeGateway_ParseEvent(t *testing.T) {
	t.Run("Without webhook secret, unsigned payloads are refused", func(t *testing.T) {
		g := NewStripeGateway("sk_live_x", "", false)

		evt, err := g.ParseEvent([]byte(succeededPayload), "")

		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, evt)
	})

	t.Run("Without webhook secret in test mode", func(t *testing.T) {
		g := &StripeGateway{allowUnsigned: true}

		evt, err := g.ParseEvent([]byte(succeededPayload), "")

		require.NoError(t, err)
		assert.Equal(t, EventIntentSucceeded, evt.Type)
		assert.Equal(t, "pi_1", evt.IntentID)
		assert.Equal(t, "6650f1c2a1b2c3d4e5f60718", evt.OrderID)
	})

	t.Run("With valid signature", func(t *testing.T) {
		g := &StripeGateway{webhookSecret: "whsec_test"}
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload:   []byte(succeededPayload),
			Secret:    "whsec_test",
			Timestamp: time.Now(),
		})

		evt, err := g.ParseEvent(signed.Payload, signed.Header)

		require.NoError(t, err)
		assert.Equal(t, "pi_1", evt.IntentID)
	})

	t.Run("With bad signature", func(t *testing.T) {
		g := &StripeGateway{webhookSecret: "whsec_test"}

		_, err := g.ParseEvent([]byte(succeededPayload), "t=1,v1=deadbeef")

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Malformed body", func(t *testing.T) {
		_, err := (&StripeGateway{allowUnsigned: true}).ParseEvent([]byte("{"), "")

		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}
