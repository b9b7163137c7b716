package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestStore_JSON(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	var got []string
	assert.ErrorIs(t, s.GetJSON(ctx, CategoriesKey, &got), ErrMiss)

	require.NoError(t, s.SetJSON(ctx, CategoriesKey, []string{"robes", "sacs"}, CategoriesTTL))
	assert.Equal(t, time.Hour, mr.TTL(CategoriesKey))

	require.NoError(t, s.GetJSON(ctx, CategoriesKey, &got))
	assert.Equal(t, []string{"robes", "sacs"}, got)

	require.NoError(t, s.Delete(ctx, CategoriesKey))
	assert.False(t, mr.Exists(CategoriesKey))
}

func TestStore_CorruptValueIsMiss(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set(ProductKey("p1"), "{oops"))

	var v map[string]any
	assert.ErrorIs(t, s.GetJSON(context.Background(), ProductKey("p1"), &v), ErrMiss)
}

func TestStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	assert.False(t, s.IsTokenBlacklisted(ctx, "jti-1"))
	require.NoError(t, s.BlacklistToken(ctx, "jti-1", time.Minute))
	assert.True(t, s.IsTokenBlacklisted(ctx, "jti-1"))
}

func TestStore_NilIsSafe(t *testing.T) {
	var s *Store
	ctx := context.Background()

	var v []string
	assert.ErrorIs(t, s.GetJSON(ctx, "k", &v), ErrMiss)
	assert.NoError(t, s.SetJSON(ctx, "k", v, time.Minute))
	assert.False(t, s.IsTokenBlacklisted(ctx, "jti"))
	assert.NoError(t, New(nil).BlacklistToken(ctx, "jti", time.Minute))
}
