// Package routes déclare l'API HTTP de la boutique.
package routes

import (
	"context"
	"net/http"

	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps regroupe les handlers et middlewares construits au démarrage.
type Deps struct {
	Auth           *middleware.Authenticator
	Audit          audit.Recorder
	StrictLimiter  *middleware.RateLimiter
	GeneralLimiter *middleware.RateLimiter

	AuthHandler   *handlers.AuthHandler
	Cart          *user.CartHandler
	CartSync      *user.CartSync
	Orders        *user.OrderHandler
	Wishlist      *user.WishlistHandler
	Catalog       *product.Handler
	Checkout      *payement.CheckoutHandler
	Payments      *payement.PaymentHandler
	AdminOrders   *admin.OrderHandler
	AdminAudit    *admin.AuditHandler
	AdminArchives *admin.ArchiveHandler
	HealthCheck   func(ctx context.Context) map[string]string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if d.HealthCheck != nil {
			body["services"] = d.HealthCheck(c.Request.Context())
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rec := d.Audit
	if rec == nil {
		rec = audit.Noop{}
	}
	strict := d.StrictLimiter.Middleware()

	api := r.Group("/api", d.GeneralLimiter.Middleware())

	// Catalogue
	api.GET("/categories", d.Catalog.ListCategories)
	api.POST("/categories", d.Catalog.CreateCategory)
	api.GET("/categories/:id", d.Catalog.GetCategory)
	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/search", d.Catalog.Search)
	api.GET("/products/:id", d.Catalog.GetProduct)
	api.GET("/reviews", d.Catalog.ListReviews)
	api.POST("/reviews", d.Auth.AuthRequired(), strict,
		middleware.Audit(rec, audit.ActionReviewCreate, audit.ResourceReview), d.Catalog.CreateReview)

	// Panier : connecté ou invité
	cart := api.Group("/cart", d.Auth.OptionalAuth())
	{
		cart.GET("", d.Cart.Get)
		cart.GET("/grouped", d.Cart.Grouped)
		cart.POST("/items", d.Cart.AddItem)
		cart.DELETE("/items", d.Cart.RemoveItem)
		cart.DELETE("", d.Cart.Clear)
	}
	if d.CartSync != nil {
		api.GET("/cart/ws", middleware.TokenFromQuery("token"), d.Auth.OptionalAuth(), d.CartSync.Serve)
	}

	// Commande : ouverte aux invités
	placeOrder := []gin.HandlerFunc{
		d.Auth.OptionalAuth(), strict,
		middleware.Audit(rec, audit.ActionOrderCreate, audit.ResourceOrder),
		d.Checkout.Checkout,
	}
	api.POST("/checkout", placeOrder...)
	api.POST("/orders", placeOrder...)

	// Auth
	api.GET("/auth/me", d.Auth.AuthRequired(), d.AuthHandler.Me)
	api.POST("/auth/logout", d.Auth.AuthRequired(), d.AuthHandler.Logout)
	api.GET("/auth/:provider", d.AuthHandler.BeginAuth)
	api.GET("/auth/:provider/callback", d.AuthHandler.CallbackAuth)

	// Stripe appelle sans jeton : la signature fait foi.
	api.POST("/webhooks/stripe",
		middleware.Audit(rec, audit.ActionOrderPaid, audit.ResourceOrder), d.Payments.Webhook)

	// Espace client
	private := api.Group("", d.Auth.AuthRequired())
	{
		private.GET("/orders", d.Orders.ListActive)
		private.GET("/orders/:id", d.Orders.Get)
		private.DELETE("/orders/:id",
			middleware.Audit(rec, audit.ActionOrderCancel, audit.ResourceOrder), d.Orders.Cancel)
		private.POST("/orders/:id/payment-intent",
			middleware.Audit(rec, audit.ActionPaymentIntent, audit.ResourceOrder), d.Payments.CreateIntent)

		private.GET("/historique", d.Orders.ListHistory)
		private.DELETE("/historique",
			middleware.Audit(rec, audit.ActionHistoryClear, audit.ResourceOrder), d.Orders.ClearHistory)

		private.GET("/wishlist", d.Wishlist.Get)
		private.POST("/wishlist", d.Wishlist.Toggle)
	}

	// Administration
	adminGroup := api.Group("", d.Auth.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.PUT("/orders/:id",
			middleware.Audit(rec, audit.ActionOrderUpdate, audit.ResourceOrder), d.AdminOrders.UpdateOrder)
		adminGroup.GET("/admin/audit", d.AdminAudit.GetAuditLogs)
		adminGroup.GET("/admin/archives", d.AdminArchives.ListArchives)
	}
}
