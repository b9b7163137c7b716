// Package checkout assemble une commande à partir d'un panier groupé.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront_back_end/internal/events"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/metrics"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart   = errors.New("le panier est vide")
	ErrNoLineItems = errors.New("aucun produit du panier n'est disponible")
)

type Request struct {
	Name          string                   `json:"name" binding:"required,personname"`
	Email         string                   `json:"email" binding:"required,email"`
	Phone         string                   `json:"phone" binding:"required,phone"`
	StreetAddress string                   `json:"streetAddress" binding:"required,max=200"`
	Country       string                   `json:"country" binding:"required,max=100"`
	UserID        string                   `json:"userId"`
	CartProducts  []models.GroupedCartItem `json:"cartProducts" binding:"dive"`
}

// Notifier est prévenu après la création d'une commande. Il ne doit pas bloquer.
type Notifier interface {
	OrderPlaced(ctx context.Context, order models.Order)
}

type Service struct {
	products store.Products
	orders   store.Orders
	notifier Notifier
	events   events.Publisher
}

func NewService(products store.Products, orders store.Orders, notifier Notifier, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{products: products, orders: orders, notifier: notifier, events: publisher}
}

// PlaceOrder recalcule les lignes avec les prix du catalogue et enregistre la commande « En attente ».
// Les notifications partent ensuite sans influencer le résultat.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*models.Order, error) {
	if len(req.CartProducts) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, 0, len(req.CartProducts))
	for _, g := range req.CartProducts {
		ids = append(ids, g.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		metrics.RecordOrderOperation("create", false)
		return nil, fmt.Errorf("chargement des produits: %w", err)
	}

	items := BuildLineItems(req.CartProducts, products)
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}

	order := &models.Order{
		UserID:        req.UserID,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		Country:       strings.TrimSpace(req.Country),
		OrderedAt:     time.Now(),
		LineItems:     items,
		Total:         models.LineItemsTotal(items),
		Paid:          false,
		Status:        models.StatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		metrics.RecordOrderOperation("create", false)
		return nil, fmt.Errorf("création de la commande: %w", err)
	}
	metrics.RecordOrderOperation("create", true)

	log := logger.FromCtx(ctx).With(zap.String("order_id", order.ID.Hex()))
	log.Info("✅ Commande créée", zap.Int("lines", len(items)), zap.Float64("total", order.Total))

	if err := s.events.Publish(ctx, events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: order.ID.Hex(),
		Email:   order.Email,
		Status:  order.Status,
		Total:   order.Total,
	}); err != nil {
		log.Warn("⚠️ Événement order.created non publié", zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, *order)
	}

	return order, nil
}

// BuildLineItems fige une ligne par entrée groupée dont le produit existe encore.
// Les quantités hors de 1..MaxLineQuantity sont ignorées.
func BuildLineItems(grouped []models.GroupedCartItem, products []models.Product) []models.LineItem {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}

	items := make([]models.LineItem, 0, len(grouped))
	for _, g := range grouped {
		p, ok := byID[g.ProductID]
		if !ok || g.Quantity < 1 || g.Quantity > models.MaxLineQuantity {
			continue
		}

		color, image := g.ColorName, p.PrimaryImage()
		if len(p.Colors) > 0 && g.ColorID != "" {
			if v, found := p.FindColor(g.ColorID); found {
				color = v.Color
				if v.Image != "" {
					image = v.Image
				}
			}
		}

		items = append(items, models.LineItem{
			ProductID: g.ProductID,
			Title:     p.Title,
			Reference: p.Reference,
			Color:     color,
			Quantity:  g.Quantity,
			Price:     p.Price,
			Image:     image,
		})
	}
	return items
}
