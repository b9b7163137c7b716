package payement

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront_back_end/internal/checkout"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/orders"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/store/storetest"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	case nil:
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type placedRecorder struct {
	placed []models.Order
}

func (p *placedRecorder) OrderPlaced(_ context.Context, o models.Order) {
	p.placed = append(p.placed, o)
}

func validBody(productID string) gin.H {
	return gin.H{
		"name":          "Zoé Martin",
		"email":         "Zoe@Example.com",
		"phone":         "+33 6 12 34 56 78",
		"streetAddress": "1 rue de la Paix",
		"country":       "France",
		"userId":        "client-forged",
		"cartProducts": []gin.H{
			{"productId": productID, "colorId": "", "quantity": 2},
		},
	}
}

func TestCheckoutHandler(t *testing.T) {
	products := storetest.NewProducts()
	p1 := products.Put(models.Product{Title: "Lampe", Price: 10})
	store := storetest.NewOrders()
	notifier := &placedRecorder{}
	h := NewCheckoutHandler(checkout.NewService(products, store, notifier, nil))

	r := gin.New()
	r.POST("/api/checkout", func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			c.Set(middleware.CtxUserID, c.GetHeader("X-Test-User"))
			c.Set(middleware.CtxEmail, "zoe@example.com")
		}
	}, h.Checkout)

	t.Run("Creates the order at catalog price", func(t *testing.T) {
		w := post(r, "/api/checkout", validBody(p1.ID.Hex()))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var body struct {
			Order models.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 20.0, body.Order.Total)
		assert.Equal(t, models.StatusPending, body.Order.Status)
		assert.False(t, body.Order.Paid)
		assert.Equal(t, "zoe@example.com", body.Order.Email)
		require.Len(t, body.Order.LineItems, 1)
		assert.Equal(t, 2, body.Order.LineItems[0].Quantity)
		assert.Equal(t, 10.0, body.Order.LineItems[0].Price)
		assert.Len(t, notifier.placed, 1)
	})

	t.Run("Signed-in user id wins over the body", func(t *testing.T) {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(validBody(p1.ID.Hex()))
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", "google:42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"google:42"`)
	})

	tests := []struct {
		name string
		body any
	}{
		{"Empty cart", func() gin.H { b := validBody(p1.ID.Hex()); b["cartProducts"] = []gin.H{}; return b }()},
		{"Unknown products", validBody("000000000000000000000000")},
		{"Invalid phone", func() gin.H { b := validBody(p1.ID.Hex()); b["phone"] = "abc"; return b }()},
		{"Invalid name", func() gin.H { b := validBody(p1.ID.Hex()); b["name"] = "R2D2"; return b }()},
		{"Zero quantity", func() gin.H {
			b := validBody(p1.ID.Hex())
			b["cartProducts"] = []gin.H{{"productId": p1.ID.Hex(), "quantity": 0}}
			return b
		}()},
		{"Quantity above the line limit", func() gin.H {
			b := validBody(p1.ID.Hex())
			b["cartProducts"] = []gin.H{{"productId": p1.ID.Hex(), "quantity": 1_000_000_000}}
			return b
		}()},
		{"Malformed JSON", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := store.Len()
			w := post(r, "/api/checkout", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, before, store.Len())
		})
	}

	t.Run("Store failure", func(t *testing.T) {
		store.Err = storetest.ErrInjected
		defer func() { store.Err = nil }()
		assert.Equal(t, http.StatusInternalServerError, post(r, "/api/checkout", validBody(p1.ID.Hex())).Code)
	})
}

type fakeGateway struct {
	event *payment.Event
	err   error
}

func (g *fakeGateway) CreateIntent(order models.Order) (*payment.Intent, error) {
	return &payment.Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Amount: payment.AmountInCents(order.Total), Currency: "eur"}, nil
}

func (g *fakeGateway) ParseEvent([]byte, string) (*payment.Event, error) {
	return g.event, g.err
}

func paymentRouter(gw payment.Gateway, store *storetest.Orders) *gin.Engine {
	svc := payment.NewService(gw, orders.NewService(store, nil, nil, nil))
	h := NewPaymentHandler(svc)
	r := gin.New()
	r.POST("/api/orders/:id/payment-intent", func(c *gin.Context) {
		c.Set(middleware.CtxEmail, "alice@example.com")
	}, h.CreateIntent)
	r.POST("/api/webhooks/stripe", h.Webhook)
	return r
}

func TestPaymentHandler_CreateIntent(t *testing.T) {
	store := storetest.NewOrders()
	unpaid := store.Put(models.Order{Email: "alice@example.com", Total: 20, Status: models.StatusPending})
	paid := store.Put(models.Order{Email: "alice@example.com", Total: 20, Paid: true})
	empty := store.Put(models.Order{Email: "alice@example.com"})
	foreign := store.Put(models.Order{Email: "bob@example.com", Total: 20})
	r := paymentRouter(&fakeGateway{}, store)

	w := post(r, "/api/orders/"+unpaid.ID.Hex()+"/payment-intent", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"paymentId":"pi_123","clientSecret":"pi_123_secret","amount":2000,"currency":"eur"}`, w.Body.String())
	got, _ := store.Get(unpaid.ID.Hex())
	assert.Equal(t, "pi_123", got.PaymentIntentID)

	assert.Equal(t, http.StatusConflict, post(r, "/api/orders/"+paid.ID.Hex()+"/payment-intent", nil).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/orders/"+empty.ID.Hex()+"/payment-intent", nil).Code)
	assert.Equal(t, http.StatusNotFound, post(r, "/api/orders/"+foreign.ID.Hex()+"/payment-intent", nil).Code)
}

func TestPaymentHandler_Webhook(t *testing.T) {
	t.Run("Marks order paid", func(t *testing.T) {
		store := storetest.NewOrders()
		o := store.Put(models.Order{Email: "alice@example.com", Total: 20})
		gw := &fakeGateway{event: &payment.Event{Type: payment.EventIntentSucceeded, IntentID: "pi_1", OrderID: o.ID.Hex()}}

		w := post(paymentRouter(gw, store), "/api/webhooks/stripe", "{}")

		require.Equal(t, http.StatusOK, w.Code)
		got, _ := store.Get(o.ID.Hex())
		assert.True(t, got.Paid)
	})

	t.Run("Bad signature", func(t *testing.T) {
		gw := &fakeGateway{err: payment.ErrInvalidSignature}
		w := post(paymentRouter(gw, storetest.NewOrders()), "/api/webhooks/stripe", "{}")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown order is acknowledged", func(t *testing.T) {
		gw := &fakeGateway{event: &payment.Event{Type: payment.EventIntentSucceeded, OrderID: "000000000000000000000000"}}
		w := post(paymentRouter(gw, storetest.NewOrders()), "/api/webhooks/stripe", "{}")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Store failure", func(t *testing.T) {
		store := storetest.NewOrders()
		store.Err = storetest.ErrInjected
		gw := &fakeGateway{event: &payment.Event{Type: payment.EventIntentSucceeded, OrderID: "000000000000000000000000"}}
		w := post(paymentRouter(gw, store), "/api/webhooks/stripe", "{}")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
