package auth

import (
	"testing"
	"time"

	"storefront_back_end/internal/models"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "Admin@Example.com", time.Hour)

	t.Run("Round trip keeps identity", func(t *testing.T) {
		token, err := issuer.Generate(models.User{ID: "google:42", Email: "Client@Example.com", Name: "Chloé"})
		require.NoError(t, err)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "google:42", claims.UserID)
		assert.Equal(t, "client@example.com", claims.Email)
		assert.Equal(t, models.RoleCustomer, claims.Role)
		assert.NotEmpty(t, claims.ID)
		assert.Equal(t, "Chloé", claims.User().Name)
	})

	t.Run("Admin email gets admin role", func(t *testing.T) {
		token, err := issuer.Generate(models.User{ID: "google:1", Email: "admin@example.com"})
		require.NoError(t, err)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("Rejects other secret", func(t *testing.T) {
		token, err := NewTokenIssuer("other", "", time.Hour).Generate(models.User{ID: "x", Email: "a@example.com"})
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Rejects expired token", func(t *testing.T) {
		past := NewTokenIssuer("test-secret", "", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Generate(models.User{ID: "x", Email: "a@example.com"})
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Missing secret", func(t *testing.T) {
		_, err := NewTokenIssuer("", "", 0).Generate(models.User{ID: "x", Email: "a@example.com"})
		assert.Error(t, err)
	})
}

func TestUserFromGoth(t *testing.T) {
	u := UserFromGoth(goth.User{Provider: "google", UserID: "123", Email: "a@example.com", FirstName: "Ana", LastName: "Roy"})

	assert.Equal(t, "google:123", u.ID)
	assert.Equal(t, "Ana Roy", u.Name)
	assert.Equal(t, "google", u.Provider)
}
