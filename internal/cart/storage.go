package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "cart:"
	cartTTL   = 30 * 24 * time.Hour
)

// RedisStorage stocke chaque panier en JSON sous "cart:<identité>" pendant 30 jours.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]models.CartItem, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture panier %s: %w", key, err)
	}
	return decodeItems(data)
}

func (s *RedisStorage) Save(ctx context.Context, key string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("sauvegarde panier %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("suppression panier %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Publish(ctx context.Context, key, event string) error {
	return s.client.Publish(ctx, keyPrefix+key, event).Err()
}

// Subscribe ouvre un abonnement aux changements du panier de key.
func (s *RedisStorage) Subscribe(ctx context.Context, key string) *redis.PubSub {
	return s.client.Subscribe(ctx, keyPrefix+key)
}

// MemoryStorage sérialise aussi en JSON, pour se comporter comme le stockage réel.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]models.CartItem, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return []models.CartItem{}, nil
	}
	return decodeItems(raw)
}

func (s *MemoryStorage) Save(_ context.Context, key string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

// Raw expose le contenu stocké sous key.
func (s *MemoryStorage) Raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return raw, ok
}

func decodeItems(data []byte) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return items, nil
}
