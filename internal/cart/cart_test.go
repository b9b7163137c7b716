package cart

import (
	"context"
	"testing"

	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedHolder(t *testing.T, storage Storage, key string) *Holder {
	t.Helper()
	h := NewHolder(storage)
	require.NoError(t, h.SwitchIdentity(context.Background(), key))
	return h
}

func TestIdentityKey(t *testing.T) {
	assert.Equal(t, "alice@example.com", IdentityKey(" Alice@Example.com ", "abc"))
	assert.Equal(t, "guest:abc", IdentityKey("", "abc"))
	assert.Empty(t, IdentityKey(" ", ""))
}

func TestHolder_CountFollowsAddsAndRemoves(t *testing.T) {
	ctx := context.Background()
	h := newLoadedHolder(t, NewMemoryStorage(), "a@example.com")

	p1 := models.CartItem{ProductID: "p1", ColorID: "c1", Price: 10}
	p2 := models.CartItem{ProductID: "p2", Price: 5}

	for _, it := range []models.CartItem{p1, p1, p2} {
		added, err := h.AddItem(ctx, it)
		require.NoError(t, err)
		assert.True(t, added)
	}
	assert.Equal(t, 3, h.Count())

	removed, err := h.RemoveItem(ctx, "p1", "c1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = h.RemoveItem(ctx, "p1", "other-color")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = h.RemoveItem(ctx, "unknown", "")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, 2, h.Count())
	assert.Equal(t, 15.0, h.Total())
}

func TestHolder_RemoveTakesFirstMatch(t *testing.T) {
	ctx := context.Background()
	h := newLoadedHolder(t, NewMemoryStorage(), GuestKey)

	_, _ = h.AddItem(ctx, models.CartItem{ProductID: "p1", Title: "first"})
	_, _ = h.AddItem(ctx, models.CartItem{ProductID: "p2"})
	_, _ = h.AddItem(ctx, models.CartItem{ProductID: "p1", Title: "second"})

	_, err := h.RemoveItem(ctx, "p1", "")
	require.NoError(t, err)

	items := h.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "second", items[1].Title)
}

func TestHolder_OutOfStockIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	h := newLoadedHolder(t, storage, "a@example.com")

	added, err := h.AddItem(ctx, models.CartItem{ProductID: "p1", OutOfStock: true})

	require.NoError(t, err)
	assert.False(t, added)
	assert.Zero(t, h.Count())
	_, stored := storage.Raw("a@example.com")
	assert.False(t, stored)
}

func TestHolder_PersistsAndReloadsByIdentity(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	alice := newLoadedHolder(t, storage, "alice@example.com")
	_, err := alice.AddItem(ctx, models.CartItem{ProductID: "p1", Price: 12.5})
	require.NoError(t, err)

	raw, ok := storage.Raw("alice@example.com")
	require.True(t, ok)
	assert.JSONEq(t, `[{"productId":"p1","price":12.5}]`, string(raw))

	// Changing identity swaps the list without merging.
	require.NoError(t, alice.SwitchIdentity(ctx, GuestKey))
	assert.Zero(t, alice.Count())

	require.NoError(t, alice.SwitchIdentity(ctx, "alice@example.com"))
	assert.Equal(t, 1, alice.Count())
}

func TestHolder_ClearMemoryKeepsStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	h := newLoadedHolder(t, storage, "a@example.com")
	_, _ = h.AddItem(ctx, models.CartItem{ProductID: "p1"})

	h.ClearMemory()

	assert.Zero(t, h.Count())
	_, ok := storage.Raw("a@example.com")
	assert.True(t, ok)
}

func TestHolder_ClearAllDeletesStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	h := newLoadedHolder(t, storage, "a@example.com")
	_, _ = h.AddItem(ctx, models.CartItem{ProductID: "p1"})

	require.NoError(t, h.ClearAll(ctx))

	assert.Zero(t, h.Count())
	_, ok := storage.Raw("a@example.com")
	assert.False(t, ok)
}

func TestHolder_CorruptEntryLoadsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	storage.data["a@example.com"] = []byte("{not json")

	h := newLoadedHolder(t, storage, "a@example.com")

	assert.Zero(t, h.Count())
	assert.Equal(t, "a@example.com", h.Key())
}

func TestGroupUngroup(t *testing.T) {
	flat := []models.CartItem{
		{ProductID: "p1", ColorID: "c1", ColorName: "Rouge"},
		{ProductID: "p2"},
		{ProductID: "p1", ColorID: "c1", ColorName: "Rouge"},
		{ProductID: "p1", ColorID: "c2"},
		{ProductID: "p1", ColorID: "c1"},
	}

	grouped := Group(flat)

	require.Len(t, grouped, 3)
	assert.Equal(t, models.GroupedCartItem{ProductID: "p1", ColorID: "c1", ColorName: "Rouge", Quantity: 3}, grouped[0])
	assert.Equal(t, "p2", grouped[1].ProductID)
	assert.Equal(t, 1, grouped[2].Quantity)

	assert.Len(t, Ungroup(grouped), len(flat))
	assert.Empty(t, Group(nil))
}
