// Package cache regroupe les accès Redis annexes : cache JSON et liste noire des jetons.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CategoriesKey   = "categories:all"
	CategoriesTTL   = time.Hour
	ProductCacheTTL = 10 * time.Minute
)

// ErrMiss signale une clé absente ou illisible.
var ErrMiss = errors.New("absent du cache")

func ProductKey(id string) string {
	return "product:" + id
}

// Store est nil-safe : sans client Redis, toutes les lectures sont des absences et les écritures sont ignorées.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) enabled() bool {
	return s != nil && s.client != nil
}

func (s *Store) GetJSON(ctx context.Context, key string, dst any) error {
	if !s.enabled() {
		return ErrMiss
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return ErrMiss
	}
	return nil
}

func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !s.enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if !s.enabled() || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// BlacklistToken invalide un jeton jusqu'à son expiration.
func (s *Store) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if !s.enabled() {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, "blacklist:"+tokenID, "1", ttl).Err()
}

func (s *Store) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	if !s.enabled() || tokenID == "" {
		return false
	}
	n, err := s.client.Exists(ctx, "blacklist:"+tokenID).Result()
	return err == nil && n > 0
}
