// Commande reindex : pousse tout le catalogue MongoDB dans l'index Elasticsearch.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/store"

	"go.uber.org/zap"
)

func main() {
	index := flag.String("index", search.DefaultIndex, "nom de l'index Elasticsearch")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if cfg.ElasticURL == "" {
		log.Fatal("❌ ELASTIC_URL manquant")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	conns, err := database.Connect(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal("❌ Connexion aux bases de données", zap.Error(err))
	}
	defer conns.Close()
	if conns.Elastic == nil {
		log.Fatal("❌ Elasticsearch injoignable")
	}

	products, err := store.NewProductStore(conns.Mongo).List(ctx, store.ProductFilter{})
	if err != nil {
		log.Fatal("❌ Lecture du catalogue", zap.Error(err))
	}

	idx := search.NewIndex(conns.Elastic, *index)
	failed := 0
	for _, p := range products {
		if err := idx.IndexProduct(ctx, p); err != nil {
			failed++
			log.Warn("⚠️ Produit non indexé", zap.String("product_id", p.ID.Hex()), zap.Error(err))
		}
	}
	if err := idx.Refresh(ctx); err != nil {
		log.Warn("⚠️ Refresh de l'index échoué", zap.Error(err))
	}

	log.Info("✅ Réindexation terminée",
		zap.String("index", *index),
		zap.Int("indexed", len(products)-failed),
		zap.Int("failed", failed))
}
