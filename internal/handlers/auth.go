package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"
)

type AuthHandler struct {
	issuer      *auth.TokenIssuer
	cache       *cache.Store
	frontendURL string
}

func NewAuthHandler(issuer *auth.TokenIssuer, c *cache.Store, frontendURL string) *AuthHandler {
	return &AuthHandler{issuer: issuer, cache: c, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// withProvider vérifie que le fournisseur est configuré et le place dans la requête pour gothic.
func withProvider(c *gin.Context) bool {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return false
	}
	if _, err := goth.GetProvider(provider); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider inconnu: " + provider})
		return false
	}
	c.Request = gothic.GetContextWithProvider(c.Request, provider)
	return true
}

// BeginAuth redirige vers la page de connexion du fournisseur.
func (h *AuthHandler) BeginAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth émet le JWT et renvoie vers le front, le jeton dans le fragment d'URL.
func (h *AuthHandler) CallbackAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}

	gu, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Warn("❌ Échec connexion OAuth", zap.String("provider", c.Param("provider")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Connexion refusée par le fournisseur"})
		return
	}
	if gu.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le fournisseur n'a pas transmis d'adresse e-mail"})
		return
	}

	user := auth.UserFromGoth(gu)
	token, err := h.issuer.Generate(user)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("❌ Erreur génération token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	logger.FromCtx(c.Request.Context()).Info("🔓 Connexion OAuth", zap.String("provider", gu.Provider), zap.String("email", user.Email))
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback#token="+url.QueryEscape(token))
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout invalide le jeton courant jusqu'à son expiration.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := middleware.TokenExpiry(c)
	if jti == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ttl := time.Until(exp)
	if exp.IsZero() {
		ttl = auth.DefaultTokenTTL
	}
	if ttl > 0 {
		if err := h.cache.BlacklistToken(c.Request.Context(), jti, ttl); err != nil {
			logger.FromCtx(c.Request.Context()).Error("❌ Erreur révocation token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur déconnexion"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}
