package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(t *testing.T, issuer *auth.TokenIssuer, c *cache.Store) *gin.Engine {
	t.Helper()
	a := NewAuthenticator(issuer, c)
	r := gin.New()

	whoami := func(c *gin.Context) {
		u, ok := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"signedIn": ok, "email": u.Email, "role": u.Role})
	}
	r.GET("/private", a.AuthRequired(), whoami)
	r.GET("/optional", a.OptionalAuth(), whoami)
	r.GET("/admin", a.AuthRequired(), RequireAdmin, whoami)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", "admin@example.com", time.Hour)
	r := newAuthRouter(t, issuer, nil)
	customer, err := issuer.Generate(models.User{ID: "g:1", Email: "a@example.com"})
	require.NoError(t, err)
	admin, err := issuer.Generate(models.User{ID: "g:2", Email: "admin@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"Missing token", "/private", "", http.StatusUnauthorized},
		{"Garbage token", "/private", "not-a-jwt", http.StatusUnauthorized},
		{"Valid token", "/private", customer, http.StatusOK},
		{"Optional without token", "/optional", "", http.StatusOK},
		{"Optional with bad token", "/optional", "bad", http.StatusOK},
		{"Customer on admin route", "/admin", customer, http.StatusForbidden},
		{"Admin on admin route", "/admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, http.MethodGet, "/optional", customer)
	assert.JSONEq(t, `{"signedIn":true,"email":"a@example.com","role":"customer"}`, w.Body.String())
}

func TestTokenFromQuery(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", "", time.Hour)
	token, err := issuer.Generate(models.User{ID: "g:1", Email: "a@example.com"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ws", TokenFromQuery("token"), NewAuthenticator(issuer, nil).OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxEmail))
	})

	w := do(r, http.MethodGet, "/ws?token="+token, "")
	assert.Equal(t, "a@example.com", w.Body.String())

	w = do(r, http.MethodGet, "/ws?token=garbage", token)
	assert.Equal(t, "a@example.com", w.Body.String(), "the Authorization header wins over the query")

	w = do(r, http.MethodGet, "/ws", "")
	assert.Empty(t, w.Body.String())
}

func TestAuthRequired_Blacklisted(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := cache.New(client)

	issuer := auth.NewTokenIssuer("secret", "", time.Hour)
	token, err := issuer.Generate(models.User{ID: "g:1", Email: "a@example.com"})
	require.NoError(t, err)
	claims, err := issuer.Parse(token)
	require.NoError(t, err)

	r := newAuthRouter(t, issuer, store)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/private", token).Code)

	require.NoError(t, store.BlacklistToken(context.Background(), claims.ID, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/private", token).Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter("checkout", 0.0001, 2)
	r := gin.New()
	r.POST("/checkout", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/checkout", "").Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/checkout", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/checkout", "").Code)
}

type chanRecorder chan audit.Entry

func (c chanRecorder) Record(_ context.Context, e audit.Entry) error {
	c <- e
	return nil
}

func TestAudit(t *testing.T) {
	rec := make(chanRecorder, 2)
	r := gin.New()
	r.DELETE("/orders/:id", Audit(rec, audit.ActionOrderCancel, audit.ResourceOrder), func(c *gin.Context) {
		c.Set(CtxEmail, "a@example.com")
		c.Status(http.StatusOK)
	})
	r.POST("/checkout", Audit(rec, audit.ActionOrderCreate, audit.ResourceOrder), func(c *gin.Context) {
		c.Set(AuditResourceID, "new-id")
		c.Set(AuditError, "le panier est vide")
		c.Status(http.StatusBadRequest)
	})

	do(r, http.MethodDelete, "/orders/abc", "")
	do(r, http.MethodPost, "/checkout", "")

	got := map[string]audit.Entry{}
	for i := 0; i < 2; i++ {
		select {
		case e := <-rec:
			got[e.Action] = e
		case <-time.After(2 * time.Second):
			t.Fatal("entrée d'audit manquante")
		}
	}

	cancel := got[audit.ActionOrderCancel]
	assert.Equal(t, "abc", cancel.ResourceID)
	assert.Equal(t, "a@example.com", cancel.UserEmail)
	assert.True(t, cancel.Success)

	create := got[audit.ActionOrderCreate]
	assert.Equal(t, "new-id", create.ResourceID)
	assert.False(t, create.Success)
	assert.Equal(t, "le panier est vide", create.ErrorMsg)
}
