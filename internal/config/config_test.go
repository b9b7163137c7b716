package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from env", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", "9090")
		t.Setenv("BASE_URL", "https://boutique.example.com/")
		t.Setenv("ADMIN_EMAIL", "admin@example.com")
		t.Setenv("MONGO_URI", "mongodb://mongo:27017")
		t.Setenv("MONGO_DATABASE", "shop")
		t.Setenv("SCYLLA_HOSTS", "10.0.0.1, 10.0.0.2,,")
		t.Setenv("SMTP_PORT", "465")
		t.Setenv("SMTP_USERNAME", "noreply@example.com")
		t.Setenv("MINIO_USE_SSL", "TRUE")

		cfg := Load()

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "https://boutique.example.com", cfg.BaseURL)
		assert.Equal(t, "admin@example.com", cfg.AdminEmail)
		assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
		assert.Equal(t, "shop", cfg.MongoDatabase)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.ScyllaHosts)
		assert.Equal(t, 465, cfg.SMTPPort)
		assert.Equal(t, "noreply@example.com", cfg.SMTPFrom)
		assert.True(t, cfg.MinIOUseSSL)
	})

	t.Run("Falls back to defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("PORT", "")
		t.Setenv("SMTP_PORT", "not-a-number")
		t.Setenv("ORDER_EXCHANGE", "")
		t.Setenv("MONGO_DATABASE", "")

		cfg := Load()

		assert.False(t, cfg.IsProduction())
		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 587, cfg.SMTPPort)
		assert.Equal(t, "orders", cfg.OrderExchange)
		assert.Equal(t, "boutique", cfg.MongoDatabase)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{AppEnv: "production", JWTSecret: "jwt", SessionSecret: "session", StripeWebhookSecret: "whsec_x"}
	}

	assert.NoError(t, base().Validate())

	t.Run("Production refuses unsigned webhooks", func(t *testing.T) {
		cfg := base()
		cfg.StripeWebhookSecret = ""

		err := cfg.Validate()

		assert.ErrorContains(t, err, "STRIPE_WEBHOOK_SECRET")
		assert.False(t, cfg.AllowUnsignedWebhooks())
	})

	t.Run("Development accepts a missing webhook secret", func(t *testing.T) {
		cfg := base()
		cfg.AppEnv = "development"
		cfg.StripeWebhookSecret = ""

		assert.NoError(t, cfg.Validate())
		assert.True(t, cfg.AllowUnsignedWebhooks())
	})

	t.Run("Secrets are required", func(t *testing.T) {
		err := (&Config{}).Validate()

		assert.ErrorContains(t, err, "JWT_SECRET")
		assert.ErrorContains(t, err, "SESSION_SECRET")
	})
}
