package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_back_end/internal/archive"
	"storefront_back_end/internal/audit"
	"storefront_back_end/internal/auth"
	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/cart"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/checkout"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/events"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/notify"
	"storefront_back_end/internal/orders"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if !cfg.EnvFileLoaded {
		log.Info("ℹ️ Pas de fichier .env, lecture des variables système uniquement")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration invalide", zap.Error(err))
	}
	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("❌ Enregistrement des validateurs", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	conns, err := database.Connect(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal("❌ Connexion aux bases de données", zap.Error(err))
	}
	defer conns.Close()

	// Dépôts
	productStore := store.NewProductStore(conns.Mongo)
	orderStore := store.NewOrderStore(conns.Mongo)
	cacheStore := cache.New(conns.Redis)

	// Services optionnels
	var searcher catalog.Searcher
	if conns.Elastic != nil {
		searcher = search.NewIndex(conns.Elastic, search.DefaultIndex)
	}

	var recorder audit.Recorder = audit.Noop{}
	var auditReader audit.Reader = audit.Noop{}
	if conns.Scylla != nil {
		rec := audit.NewScyllaRecorder(conns.Scylla)
		if err := rec.EnsureSchema(ctx); err != nil {
			log.Warn("⚠️ Table audit_logs non créée", zap.Error(err))
		}
		recorder, auditReader = rec, rec
	}

	var archiver archive.Archiver = archive.Noop{}
	var archives archive.Browser = archive.Noop{}
	if conns.MinIO != nil {
		a := archive.NewMinioArchiver(conns.MinIO, cfg.MinIOBucket)
		if err := a.EnsureBucket(ctx); err != nil {
			log.Warn("⚠️ Bucket d'archive indisponible, archivage désactivé", zap.Error(err))
		} else {
			archiver, archives = a, a
			log.Info("🪣 Bucket d'archive prêt", zap.String("bucket", cfg.MinIOBucket))
		}
	}

	var publisher events.Publisher = events.Noop{}
	if conns.Rabbit != nil {
		publisher = conns.Rabbit
	}

	var sender notify.Sender = notify.Disabled{}
	if mailer, err := notify.NewMailer(cfg); err != nil {
		log.Warn("⚠️ E-mails désactivés", zap.Error(err))
	} else {
		sender = mailer
	}
	dispatcher := notify.NewDispatcher(sender)
	notifier := notify.NewOrderNotifier(dispatcher, store.NewEmployeeStore(conns.Mongo), cfg.AdminEmail, cfg.FrontendURL)

	if cfg.StripeSecretKey == "" {
		log.Warn("⚠️ STRIPE_SECRET_KEY manquant, les paiements échoueront")
	}
	if cfg.AllowUnsignedWebhooks() {
		log.Warn("⚠️ STRIPE_WEBHOOK_SECRET absent : webhooks non signés acceptés (hors production uniquement)")
	}

	// Métier
	checkoutSvc := checkout.NewService(productStore, orderStore, notifier, publisher)
	orderSvc := orders.NewService(orderStore, archiver, publisher, notifier)
	catalogSvc := catalog.NewService(productStore, store.NewCategoryStore(conns.Mongo), searcher, cacheStore)
	reviews := catalog.NewReviews(store.NewReviewStore(conns.Mongo), productStore)
	wishlist := catalog.NewWishlist(store.NewWishlistStore(conns.Mongo), productStore)
	paymentSvc := payment.NewService(payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.AllowUnsignedWebhooks()), orderSvc)

	// Auth
	auth.SetupProviders(cfg)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AdminEmail, auth.DefaultTokenTTL)

	strict := middleware.NewRateLimiter("strict", middleware.LimitStrict, middleware.BurstStrict)
	general := middleware.NewRateLimiter("general", middleware.LimitGeneral, middleware.BurstGeneral)
	go strict.Cleanup(ctx)
	go general.Cleanup(ctx)

	cartStorage := cart.NewRedisStorage(conns.Redis)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		logger.RequestID(),
		logger.GinMiddleware(),
		logger.Recovery(),
		middleware.CORS(cfg.FrontendURL),
		middleware.Prometheus(),
	)

	routes.RegisterRoutes(r, routes.Deps{
		Auth:           middleware.NewAuthenticator(issuer, cacheStore),
		Audit:          recorder,
		StrictLimiter:  strict,
		GeneralLimiter: general,
		AuthHandler:    handlers.NewAuthHandler(issuer, cacheStore, cfg.FrontendURL),
		Cart:           user.NewCartHandler(cartStorage),
		CartSync:       user.NewCartSync(cartStorage, cartStorage, cfg.FrontendURL),
		Orders:         user.NewOrderHandler(orderSvc),
		Wishlist:       user.NewWishlistHandler(wishlist),
		Catalog:        product.NewHandler(catalogSvc, reviews),
		Checkout:       payement.NewCheckoutHandler(checkoutSvc),
		Payments:       payement.NewPaymentHandler(paymentSvc),
		AdminOrders:    admin.NewOrderHandler(orderSvc),
		AdminAudit:     admin.NewAuditHandler(auditReader),
		AdminArchives:  admin.NewArchiveHandler(archives),
		HealthCheck:    conns.Status,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Serveur HTTP", zap.Error(err))
		}
	}()
	log.Info("🚀 Serveur lancé", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	<-ctx.Done()
	log.Info("🛑 Arrêt demandé, fin des requêtes en cours")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Arrêt du serveur", zap.Error(err))
	}

	dispatcher.Wait()
	log.Info("👋 Serveur arrêté")
}
