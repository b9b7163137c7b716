// Package auth gère la connexion OAuth et les jetons de session JWT.
package auth

import (
	"net/http"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"go.uber.org/zap"
)

const sessionMaxAge = 10 * 60

// SetupProviders enregistre les fournisseurs OAuth configurés et le magasin de session gothic.
// Retourne les noms des fournisseurs actifs.
func SetupProviders(cfg *config.Config) []string {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(sessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProduction()
	store.Options.SameSite = http.SameSiteLaxMode
	gothic.Store = store

	var providers []goth.Provider
	var names []string

	if cfg.GoogleClientID != "" {
		providers = append(providers, google.New(cfg.GoogleClientID, cfg.GoogleClientSecret,
			callbackURL(cfg, "google"), "email", "profile"))
		names = append(names, "google")
	}
	if cfg.FacebookClientID != "" {
		providers = append(providers, facebook.New(cfg.FacebookClientID, cfg.FacebookClientSecret,
			callbackURL(cfg, "facebook"), "email", "public_profile"))
		names = append(names, "facebook")
	}

	goth.ClearProviders()
	goth.UseProviders(providers...)

	logger.L().Info("🔑 Fournisseurs OAuth configurés", zap.Strings("providers", names))
	return names
}

func callbackURL(cfg *config.Config, provider string) string {
	return cfg.BaseURL + "/api/auth/" + provider + "/callback"
}

// UserFromGoth convertit le profil du fournisseur en identité de la boutique.
func UserFromGoth(u goth.User) models.User {
	name := u.Name
	if name == "" {
		name = u.FirstName + " " + u.LastName
	}
	return models.User{
		ID:       u.Provider + ":" + u.UserID,
		Name:     name,
		Email:    u.Email,
		Provider: u.Provider,
	}
}
