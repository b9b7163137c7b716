// Package catalog sert les produits, catégories, avis et favoris.
package catalog

import (
	"context"
	"errors"
	"strings"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/logger"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound  = errors.New("produit introuvable")
	ErrCategoryNotFound = errors.New("catégorie introuvable")
	ErrEmptyQuery       = errors.New("recherche vide")
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// Searcher retourne des identifiants de produits classés par pertinence.
type Searcher interface {
	SearchIDs(ctx context.Context, query string, limit int) ([]string, error)
}

type Service struct {
	products   store.Products
	categories store.Categories
	searcher   Searcher
	cache      *cache.Store
}

// NewService accepte un searcher nil : la recherche passe alors par MongoDB.
func NewService(products store.Products, categories store.Categories, searcher Searcher, c *cache.Store) *Service {
	return &Service{products: products, categories: categories, searcher: searcher, cache: c}
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.cache.GetJSON(ctx, cache.CategoriesKey, &cats); err == nil {
		return cats, nil
	}

	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cache.CategoriesKey, cats, cache.CategoriesTTL); err != nil {
		logger.FromCtx(ctx).Warn("⚠️ Cache catégories non écrit", zap.Error(err))
	}
	return cats, nil
}

func (s *Service) Category(ctx context.Context, id string) (*models.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return cat, err
}

func (s *Service) Products(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.List(ctx, store.ProductFilter{Category: category})
}

func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.cache.GetJSON(ctx, cache.ProductKey(id), &p); err == nil {
		return &p, nil
	}

	prod, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, cache.ProductKey(id), prod, cache.ProductCacheTTL)
	return prod, nil
}

// Search interroge Elasticsearch puis recharge les produits depuis MongoDB dans l'ordre de pertinence.
// Si Elasticsearch échoue, la recherche bascule sur une expression régulière MongoDB.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if s.searcher != nil {
		ids, err := s.searcher.SearchIDs(ctx, query, limit)
		if err == nil {
			return s.resolveInOrder(ctx, ids)
		}
		logger.FromCtx(ctx).Warn("⚠️ Elasticsearch indisponible, recherche MongoDB", zap.Error(err))
	}

	return s.products.Search(ctx, query, int64(limit))
}

// resolveInOrder charge les produits en un lot et conserve l'ordre de ids. Les absents sont ignorés.
func (s *Service) resolveInOrder(ctx context.Context, ids []string) ([]models.Product, error) {
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID.Hex()] = p
	}

	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}
