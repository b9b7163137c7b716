// Package database ouvre les connexions aux services externes du back-end.
package database

import (
	"context"
	"fmt"
	"time"

	"storefront_back_end/internal/archive"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/events"
	"storefront_back_end/internal/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connections regroupe les clients ouverts. MongoDB et Redis sont obligatoires,
// les autres restent nil quand ils ne sont pas configurés.
type Connections struct {
	MongoClient *mongo.Client
	Mongo       *mongo.Database
	Redis       *redis.Client
	Elastic     *elasticsearch.Client
	Scylla      *gocql.Session
	MinIO       *minio.Client
	Rabbit      *events.RabbitPublisher
}

// Connect ouvre toutes les connexions. Un service optionnel injoignable est
// journalisé puis ignoré.
func Connect(ctx context.Context, cfg *config.Config) (*Connections, error) {
	log := logger.L()
	conns := &Connections{}

	// 1. MongoDB
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	conns.MongoClient = client
	conns.Mongo = client.Database(cfg.MongoDatabase)
	log.Info("✅ Connecté à MongoDB", zap.String("database", cfg.MongoDatabase))

	// 2. Redis
	conns.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := conns.Redis.Ping(ctx).Err(); err != nil {
		conns.Close()
		return nil, fmt.Errorf("connexion Redis: %w", err)
	}
	log.Info("✅ Connecté à Redis")

	// 3. Elasticsearch
	if cfg.ElasticURL != "" {
		es, err := connectElastic(cfg)
		if err != nil {
			log.Warn("⚠️ Elasticsearch indisponible, recherche via MongoDB", zap.Error(err))
		} else {
			conns.Elastic = es
			log.Info("✅ Connecté à Elasticsearch")
		}
	}

	// 4. ScyllaDB (journal d'audit)
	if len(cfg.ScyllaHosts) > 0 && cfg.ScyllaKeyspace != "" {
		session, err := scyllaCluster(cfg).CreateSession()
		if err != nil {
			log.Warn("⚠️ ScyllaDB indisponible, audit désactivé", zap.Error(err))
		} else {
			conns.Scylla = session
			log.Info("✅ Session ScyllaDB ouverte", zap.String("keyspace", cfg.ScyllaKeyspace))
		}
	}

	// 5. MinIO (archives de commandes)
	if cfg.MinIOEndpoint != "" {
		mc, err := archive.NewMinioClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Warn("⚠️ MinIO indisponible, archivage désactivé", zap.Error(err))
		} else {
			conns.MinIO = mc
			log.Info("✅ Client MinIO prêt", zap.String("endpoint", cfg.MinIOEndpoint))
		}
	}

	// 6. RabbitMQ
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			log.Warn("⚠️ RabbitMQ indisponible, événements désactivés", zap.Error(err))
		} else {
			conns.Rabbit = pub
			log.Info("✅ Connecté à RabbitMQ", zap.String("exchange", cfg.OrderExchange))
		}
	}

	return conns, nil
}

func connectElastic(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.Status())
	}
	return client, nil
}

func scyllaCluster(cfg *config.Config) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = time.Second
	if cfg.ScyllaUser != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.ScyllaUser,
			Password: cfg.ScyllaPassword,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// Status indique l'état de chaque service pour /health : "up", "down" ou "disabled".
func (c *Connections) Status(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	state := func(configured bool, ping func() error) string {
		if !configured {
			return "disabled"
		}
		if ping != nil && ping() != nil {
			return "down"
		}
		return "up"
	}

	return map[string]string{
		"mongo": state(c.MongoClient != nil, func() error { return c.MongoClient.Ping(ctx, nil) }),
		"redis": state(c.Redis != nil, func() error { return c.Redis.Ping(ctx).Err() }),
		"elasticsearch": state(c.Elastic != nil, func() error {
			res, err := c.Elastic.Ping(c.Elastic.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return fmt.Errorf("elasticsearch: %s", res.Status())
			}
			return nil
		}),
		"scylla":   state(c.Scylla != nil, func() error { return c.Scylla.Query("SELECT now() FROM system.local").WithContext(ctx).Exec() }),
		"minio":    state(c.MinIO != nil, nil),
		"rabbitmq": state(c.Rabbit != nil, nil),
	}
}

// Close ferme chaque connexion ouverte.
func (c *Connections) Close() {
	log := logger.L()
	if c.Rabbit != nil {
		if err := c.Rabbit.Close(); err != nil {
			log.Warn("⚠️ Fermeture RabbitMQ", zap.Error(err))
		}
	}
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			log.Warn("⚠️ Déconnexion MongoDB", zap.Error(err))
		}
	}
	log.Info("🔌 Connexions fermées")
}
