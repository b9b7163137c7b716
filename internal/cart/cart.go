// Package cart tient l'état du panier d'une identité et le persiste après chaque mutation.
package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GuestKey est la clé d'identité des visiteurs non connectés.
const GuestKey = "guest"

const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

var ErrCorruptCart = errors.New("panier stocké illisible")

// Storage persiste la liste brute des lignes sous une clé d'identité.
type Storage interface {
	Load(ctx context.Context, key string) ([]models.CartItem, error)
	Save(ctx context.Context, key string, items []models.CartItem) error
	Delete(ctx context.Context, key string) error
}

// Publisher est implémenté par les stockages capables de signaler les changements.
type Publisher interface {
	Publish(ctx context.Context, key, event string) error
}

// IdentityKey retourne l'email si l'utilisateur est connecté, sinon "guest:<session>".
// Sans l'un ni l'autre elle retourne "" : deux visiteurs anonymes ne partagent jamais un panier.
func IdentityKey(email, guestSession string) string {
	if e := strings.TrimSpace(email); e != "" {
		return strings.ToLower(e)
	}
	if s := strings.TrimSpace(guestSession); s != "" {
		return GuestKey + ":" + s
	}
	return ""
}

type Holder struct {
	mu      sync.Mutex
	storage Storage
	key     string
	items   []models.CartItem
}

func NewHolder(storage Storage) *Holder {
	return &Holder{storage: storage, key: GuestKey, items: []models.CartItem{}}
}

// SwitchIdentity remplace entièrement la liste courante par celle stockée sous key.
func (h *Holder) SwitchIdentity(ctx context.Context, key string) error {
	items, err := h.storage.Load(ctx, key)
	if errors.Is(err, ErrCorruptCart) {
		logger.FromCtx(ctx).Warn("⚠️ Panier illisible, on repart d'un panier vide", zap.String("key", key), zap.Error(err))
		items, err = nil, nil
	}
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.CartItem{}
	}

	h.mu.Lock()
	h.key = key
	h.items = items
	h.mu.Unlock()
	return nil
}

// AddItem ajoute la ligne telle quelle. Un article en rupture est ignoré.
func (h *Holder) AddItem(ctx context.Context, item models.CartItem) (bool, error) {
	if item.OutOfStock {
		return false, nil
	}

	h.mu.Lock()
	h.items = append(h.items, item)
	h.mu.Unlock()

	return true, h.persist(ctx)
}

// RemoveItem retire la première ligne correspondant au produit et à la couleur.
func (h *Holder) RemoveItem(ctx context.Context, productID, colorID string) (bool, error) {
	h.mu.Lock()
	idx := -1
	for i, it := range h.items {
		if it.ProductID == productID && it.ColorID == colorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		h.mu.Unlock()
		return false, nil
	}
	h.items = append(h.items[:idx], h.items[idx+1:]...)
	h.mu.Unlock()

	return true, h.persist(ctx)
}

// ClearMemory vide la liste sans toucher au stockage.
func (h *Holder) ClearMemory() {
	h.mu.Lock()
	h.items = []models.CartItem{}
	h.mu.Unlock()
}

func (h *Holder) ClearAll(ctx context.Context) error {
	h.mu.Lock()
	h.items = []models.CartItem{}
	key := h.key
	h.mu.Unlock()

	if err := h.storage.Delete(ctx, key); err != nil {
		return err
	}
	h.notify(ctx, key, EventCleared)
	return nil
}

// Total additionne les prix mis en cache. Indicatif uniquement.
func (h *Holder) Total() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := decimal.Zero
	for _, it := range h.items {
		total = total.Add(decimal.NewFromFloat(it.Price))
	}
	return total.Round(2).InexactFloat64()
}

func (h *Holder) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

func (h *Holder) Key() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.key
}

// Items retourne une copie de la liste brute.
func (h *Holder) Items() []models.CartItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.CartItem{}, h.items...)
}

func (h *Holder) Grouped() []models.GroupedCartItem {
	return Group(h.Items())
}

func (h *Holder) persist(ctx context.Context) error {
	h.mu.Lock()
	key := h.key
	snapshot := append([]models.CartItem{}, h.items...)
	h.mu.Unlock()

	if err := h.storage.Save(ctx, key, snapshot); err != nil {
		return err
	}
	h.notify(ctx, key, EventUpdated)
	return nil
}

func (h *Holder) notify(ctx context.Context, key, event string) {
	pub, ok := h.storage.(Publisher)
	if !ok {
		return
	}
	if err := pub.Publish(ctx, key, event); err != nil {
		logger.FromCtx(ctx).Warn("⚠️ Notification panier échouée", zap.String("key", key), zap.Error(err))
	}
}
