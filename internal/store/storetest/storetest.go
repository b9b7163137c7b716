// Package storetest fournit des implémentations en mémoire des dépôts pour les tests.
package storetest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInjected = errors.New("erreur injectée")

type Products struct {
	mu    sync.Mutex
	items map[string]models.Product
	Err   error
}

func NewProducts(products ...models.Product) *Products {
	p := &Products{items: make(map[string]models.Product)}
	for _, prod := range products {
		p.Put(prod)
	}
	return p
}

// Put ajoute ou remplace un produit ; un identifiant est généré si absent.
func (p *Products) Put(prod models.Product) models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prod.ID.IsZero() {
		prod.ID = primitive.NewObjectID()
	}
	p.items[prod.ID.Hex()] = prod
	return prod
}

func (p *Products) FindByID(_ context.Context, id string) (*models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	prod, ok := p.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &prod, nil
}

func (p *Products) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := []models.Product{}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if prod, ok := p.items[id]; ok {
			out = append(out, prod)
		}
	}
	return out, nil
}

func (p *Products) List(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	out := []models.Product{}
	for _, prod := range p.items {
		if filter.Category != "" && prod.Category != filter.Category {
			continue
		}
		out = append(out, prod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (p *Products) Search(ctx context.Context, query string, limit int64) ([]models.Product, error) {
	all, err := p.List(ctx, store.ProductFilter{})
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []models.Product{}
	for _, prod := range all {
		if strings.Contains(strings.ToLower(prod.Title), q) || strings.Contains(strings.ToLower(prod.Reference), q) {
			out = append(out, prod)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type Categories struct {
	Items []models.Category
	Err   error
	Calls int
}

func (c *Categories) List(context.Context) ([]models.Category, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]models.Category{}, c.Items...), nil
}

func (c *Categories) FindByID(_ context.Context, id string) (*models.Category, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for _, cat := range c.Items {
		if cat.ID.Hex() == id {
			return &cat, nil
		}
	}
	return nil, store.ErrNotFound
}

type Orders struct {
	mu    sync.Mutex
	items map[string]models.Order
	Err   error
}

func NewOrders(orders ...models.Order) *Orders {
	o := &Orders{items: make(map[string]models.Order)}
	for _, ord := range orders {
		o.Put(ord)
	}
	return o
}

func (o *Orders) Put(order models.Order) models.Order {
	o.mu.Lock()
	defer o.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	o.items[order.ID.Hex()] = order
	return order
}

// Len retourne le nombre de commandes stockées.
func (o *Orders) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// Get retourne la commande telle que stockée, sans passer par l'interface.
func (o *Orders) Get(id string) (models.Order, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ord, ok := o.items[id]
	return ord, ok
}

func (o *Orders) Create(_ context.Context, order *models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.OrderedAt.IsZero() {
		order.OrderedAt = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	o.items[order.ID.Hex()] = *order
	return nil
}

func (o *Orders) FindByID(_ context.Context, id string) (*models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	ord, ok := o.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ord, nil
}

func (o *Orders) ListByEmail(_ context.Context, email string) ([]models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	out := []models.Order{}
	for _, ord := range o.items {
		if ord.Email == email {
			out = append(out, ord)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o *Orders) SetStatus(_ context.Context, ids []string, status string) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return 0, o.Err
	}
	var n int64
	for _, id := range ids {
		ord, ok := o.items[id]
		if !ok || ord.Status == status {
			continue
		}
		ord.Status = status
		ord.UpdatedAt = time.Now()
		o.items[id] = ord
		n++
	}
	return n, nil
}

func (o *Orders) Update(_ context.Context, id string, upd store.OrderUpdate) (*models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	ord, ok := o.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if upd.Status != nil {
		ord.Status = *upd.Status
	}
	if upd.LineItems != nil {
		ord.LineItems = upd.LineItems
	}
	if upd.Total != nil {
		ord.Total = *upd.Total
	}
	ord.UpdatedAt = time.Now()
	o.items[id] = ord
	return &ord, nil
}

func (o *Orders) SetPaymentIntent(_ context.Context, id, intentID string) error {
	return o.mutate(id, func(ord *models.Order) { ord.PaymentIntentID = intentID })
}

func (o *Orders) MarkPaid(_ context.Context, id string) error {
	return o.mutate(id, func(ord *models.Order) { ord.Paid = true })
}

func (o *Orders) mutate(id string, fn func(*models.Order)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	ord, ok := o.items[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&ord)
	o.items[id] = ord
	return nil
}

type Employees struct {
	Items []models.Employee
	Err   error
}

func (e *Employees) ListByStatus(_ context.Context, status string) ([]models.Employee, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	out := []models.Employee{}
	for _, emp := range e.Items {
		if emp.Status == status {
			out = append(out, emp)
		}
	}
	return out, nil
}

type Reviews struct {
	mu    sync.Mutex
	Items []models.Review
	Err   error
}

func (r *Reviews) ListByProduct(_ context.Context, productID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []models.Review{}
	for i := len(r.Items) - 1; i >= 0; i-- {
		if r.Items[i].ProductID == productID {
			out = append(out, r.Items[i])
		}
	}
	return out, nil
}

func (r *Reviews) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = time.Now()
	r.Items = append(r.Items, *review)
	return nil
}

type Wishlist struct {
	mu    sync.Mutex
	Items []models.WishedProduct
	Err   error
}

func (w *Wishlist) ListByUser(_ context.Context, email string) ([]models.WishedProduct, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, w.Err
	}
	out := []models.WishedProduct{}
	for _, it := range w.Items {
		if it.UserEmail == email {
			out = append(out, it)
		}
	}
	return out, nil
}

func (w *Wishlist) Remove(_ context.Context, email, productID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return false, w.Err
	}
	for i, it := range w.Items {
		if it.UserEmail == email && it.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (w *Wishlist) Add(_ context.Context, email, productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	w.Items = append(w.Items, models.WishedProduct{
		ID:        primitive.NewObjectID(),
		UserEmail: email,
		ProductID: productID,
		CreatedAt: time.Now(),
	})
	return nil
}

var (
	_ store.Products   = (*Products)(nil)
	_ store.Categories = (*Categories)(nil)
	_ store.Orders     = (*Orders)(nil)
	_ store.Employees  = (*Employees)(nil)
	_ store.Reviews    = (*Reviews)(nil)
	_ store.Wishlist   = (*Wishlist)(nil)
)
