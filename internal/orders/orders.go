// Package orders gère le cycle de vie des commandes après leur création.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront_back_end/internal/archive"
	"storefront_back_end/internal/events"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/metrics"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"go.uber.org/zap"
)

var (
	ErrOrderNotFound = errors.New("commande introuvable")
	ErrInvalidUpdate = errors.New("modification de commande invalide")
)

// StatusNotifier prévient le client d'un changement de statut.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, order models.Order)
}

type Service struct {
	orders   store.Orders
	archiver archive.Archiver
	events   events.Publisher
	notifier StatusNotifier
}

func NewService(orders store.Orders, archiver archive.Archiver, publisher events.Publisher, notifier StatusNotifier) *Service {
	if archiver == nil {
		archiver = archive.Noop{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{orders: orders, archiver: archiver, events: publisher, notifier: notifier}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ListActive retourne les commandes du client ni historisées ni supprimées.
func (s *Service) ListActive(ctx context.Context, email string) ([]models.Order, error) {
	return s.list(ctx, email, models.Order.IsActive)
}

// ListHistory retourne les commandes annulées, livrées ou prêtes du client.
func (s *Service) ListHistory(ctx context.Context, email string) ([]models.Order, error) {
	return s.list(ctx, email, models.Order.IsHistorical)
}

func (s *Service) list(ctx context.Context, email string, keep func(models.Order) bool) ([]models.Order, error) {
	all, err := s.orders.ListByEmail(ctx, normalize(email))
	if err != nil {
		return nil, err
	}
	out := []models.Order{}
	for _, o := range all {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Get retourne la commande si elle appartient au client.
func (s *Service) Get(ctx context.Context, id, email string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(order.Email, strings.TrimSpace(email)) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Cancel passe la commande à « Annulée » quel que soit son statut courant.
// Une commande d'un autre client est traitée comme introuvable.
func (s *Service) Cancel(ctx context.Context, id, email string) (*models.Order, error) {
	if _, err := s.Get(ctx, id, email); err != nil {
		return nil, err
	}

	status := models.StatusCancelled
	order, err := s.orders.Update(ctx, id, store.OrderUpdate{Status: &status})
	if err != nil {
		metrics.RecordOrderOperation("cancel", false)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	metrics.RecordOrderOperation("cancel", true)

	s.publish(ctx, events.OrderCancelled, *order)
	return order, nil
}

// ClearHistory archive puis marque « Supprimée » toutes les commandes historisées du client.
func (s *Service) ClearHistory(ctx context.Context, email string) (int64, error) {
	history, err := s.ListHistory(ctx, email)
	if err != nil {
		return 0, err
	}
	if len(history) == 0 {
		return 0, nil
	}

	log := logger.FromCtx(ctx)
	ids := make([]string, 0, len(history))
	for _, o := range history {
		if err := s.archiver.Archive(ctx, o); err != nil {
			log.Warn("⚠️ Archivage de la commande impossible", zap.String("order_id", o.ID.Hex()), zap.Error(err))
		}
		ids = append(ids, o.ID.Hex())
	}

	n, err := s.orders.SetStatus(ctx, ids, models.StatusDeleted)
	if err != nil {
		metrics.RecordOrderOperation("clear_history", false)
		return 0, fmt.Errorf("effacement de l'historique: %w", err)
	}
	metrics.RecordOrderOperation("clear_history", true)
	log.Info("🗑️ Historique effacé", zap.Int64("orders", n))
	return n, nil
}

// Update est réservé aux administrateurs. Sans total explicite, il est recalculé depuis les lignes.
func (s *Service) Update(ctx context.Context, id string, upd store.OrderUpdate) (*models.Order, error) {
	if upd.Status == nil && upd.LineItems == nil && upd.Total == nil {
		return nil, ErrInvalidUpdate
	}
	if upd.Status != nil && strings.TrimSpace(*upd.Status) == "" {
		return nil, ErrInvalidUpdate
	}
	for _, it := range upd.LineItems {
		if it.Quantity < 1 || it.Price < 0 {
			return nil, ErrInvalidUpdate
		}
	}
	if upd.Total != nil && *upd.Total < 0 {
		return nil, ErrInvalidUpdate
	}
	if upd.LineItems != nil && upd.Total == nil {
		total := models.LineItemsTotal(upd.LineItems)
		upd.Total = &total
	}

	before, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Update(ctx, id, upd)
	if err != nil {
		metrics.RecordOrderOperation("update", false)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	metrics.RecordOrderOperation("update", true)

	s.publish(ctx, events.OrderUpdated, *order)
	if order.Status != before.Status && s.notifier != nil {
		s.notifier.StatusChanged(ctx, *order)
	}
	return order, nil
}

// MarkPaid est appelé par le webhook de paiement.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	if err := s.orders.MarkPaid(ctx, id); err != nil {
		metrics.RecordOrderOperation("paid", false)
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	metrics.RecordOrderOperation("paid", true)

	if order, err := s.orders.FindByID(ctx, id); err == nil {
		s.publish(ctx, events.OrderPaid, *order)
	}
	return nil
}

func (s *Service) AttachPaymentIntent(ctx context.Context, id, intentID string) error {
	if err := s.orders.SetPaymentIntent(ctx, id, intentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

func (s *Service) publish(ctx context.Context, kind string, o models.Order) {
	err := s.events.Publish(ctx, events.OrderEvent{
		Type:    kind,
		OrderID: o.ID.Hex(),
		Email:   o.Email,
		Status:  o.Status,
		Total:   o.Total,
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("⚠️ Événement non publié", zap.String("type", kind), zap.Error(err))
	}
}
