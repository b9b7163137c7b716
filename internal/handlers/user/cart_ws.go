package user

import (
	"context"
	"net/http"
	"time"

	"storefront_back_end/internal/cart"
	"storefront_back_end/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingInterval = 30 * time.Second

// Subscriber est implémenté par cart.RedisStorage.
type Subscriber interface {
	Subscribe(ctx context.Context, key string) *redis.PubSub
}

// CartSync pousse le panier au client websocket à chaque modification publiée sur Redis.
type CartSync struct {
	storage    cart.Storage
	subscriber Subscriber
	upgrader   websocket.Upgrader
}

// NewCartSync n'accepte que les connexions venant des origines autorisées.
func NewCartSync(storage cart.Storage, subscriber Subscriber, allowedOrigins ...string) *CartSync {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &CartSync{
		storage:    storage,
		subscriber: subscriber,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (s *CartSync) snapshot(ctx context.Context, key string) gin.H {
	holder := cart.NewHolder(s.storage)
	if err := holder.SwitchIdentity(ctx, key); err != nil {
		logger.FromCtx(ctx).Warn("⚠️ Lecture panier pour synchro échouée", zap.String("key", key), zap.Error(err))
	}
	return gin.H{
		"type":  "cart_updated",
		"items": holder.Items(),
		"total": holder.Total(),
		"count": holder.Count(),
	}
}

// 🔄 Synchronisation temps réel du panier
// Un navigateur ne pouvant pas poser d'en-tête, la session passe aussi par ?session=.
func (s *CartSync) Serve(c *gin.Context) {
	key := cartIdentity(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session panier requise"})
		return
	}
	log := logger.FromCtx(c.Request.Context()).With(zap.String("cart", key))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("❌ Erreur upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := s.subscriber.Subscribe(ctx, key)
	defer pubsub.Close()
	// Attend la confirmation d'abonnement : aucune modification postérieure au premier envoi n'est perdue.
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Warn("❌ Abonnement panier échoué", zap.Error(err))
		return
	}
	messages := pubsub.Channel()

	// Le client ne parle pas ; on lit seulement pour détecter la fermeture.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.snapshot(ctx, key)); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.Payload != cart.EventUpdated && msg.Payload != cart.EventCleared {
				continue
			}
			if err := conn.WriteJSON(s.snapshot(ctx, key)); err != nil {
				log.Debug("🔌 Client WebSocket parti", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
