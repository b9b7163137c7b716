package middleware

import (
	"net/http"
	"strings"
	"time"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxName     = "name"
	CtxRole     = "role"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

// Authenticator valide le jeton Bearer et place l'identité dans le contexte gin.
type Authenticator struct {
	issuer *auth.TokenIssuer
	cache  *cache.Store
}

func NewAuthenticator(issuer *auth.TokenIssuer, c *cache.Store) *Authenticator {
	return &Authenticator{issuer: issuer, cache: c}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// TokenFromQuery reprend le jeton passé en paramètre d'URL quand l'en-tête Authorization est absent.
// Réservé aux routes WebSocket, où le navigateur ne peut pas poser d'en-tête.
func TokenFromQuery(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := strings.TrimSpace(c.Query(param)); token != "" && c.GetHeader("Authorization") == "" {
			c.Request.Header.Set("Authorization", "Bearer "+token)
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string) (*auth.Claims, bool) {
	claims, err := a.issuer.Parse(token)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Debug("❌ Token refusé", zap.Error(err))
		return nil, false
	}
	if a.cache.IsTokenBlacklisted(c.Request.Context(), claims.ID) {
		return nil, false
	}

	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxName, claims.Name)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
	}
	return claims, true
}

// AuthRequired rejette la requête en 401 sans jeton valide.
func (a *Authenticator) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token manquant"})
			return
		}
		if _, ok := a.authenticate(c, token); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
			return
		}
		c.Next()
	}
}

// OptionalAuth renseigne l'identité si un jeton valide est présent, sans jamais bloquer.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			a.authenticate(c, token)
		}
		c.Next()
	}
}

// CurrentUser lit l'identité posée par AuthRequired ou OptionalAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	email := c.GetString(CtxEmail)
	if email == "" {
		return models.User{}, false
	}
	return models.User{
		ID:    c.GetString(CtxUserID),
		Email: email,
		Name:  c.GetString(CtxName),
		Role:  c.GetString(CtxRole),
	}, true
}

// TokenExpiry retourne l'identifiant et l'expiration du jeton courant.
func TokenExpiry(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(CtxTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(CtxTokenID), t
}
