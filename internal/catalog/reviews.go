package catalog

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"

	"github.com/shopspring/decimal"
)

var ErrInvalidReview = errors.New("avis invalide")

const (
	MinCommentLength = 3
	MaxCommentLength = 500
)

type ReviewInput struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required"`
}

type ReviewSummary struct {
	Reviews []models.Review `json:"reviews"`
	Count   int             `json:"count"`
	Average float64         `json:"average"`
}

type Reviews struct {
	reviews  store.Reviews
	products store.Products
}

func NewReviews(reviews store.Reviews, products store.Products) *Reviews {
	return &Reviews{reviews: reviews, products: products}
}

// ForProduct retourne les avis du plus récent au plus ancien et la note moyenne arrondie au dixième.
func (r *Reviews) ForProduct(ctx context.Context, productID string) (*ReviewSummary, error) {
	list, err := r.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, rv := range list {
		sum += rv.Rating
	}
	summary := &ReviewSummary{Reviews: list, Count: len(list)}
	if len(list) > 0 {
		summary.Average = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(len(list)))).
			Round(1).InexactFloat64()
	}
	return summary, nil
}

func (r *Reviews) Create(ctx context.Context, author models.User, in ReviewInput) (*models.Review, error) {
	comment := strings.TrimSpace(in.Comment)
	n := utf8.RuneCountInString(comment)
	if in.Rating < 1 || in.Rating > 5 || n < MinCommentLength || n > MaxCommentLength {
		return nil, ErrInvalidReview
	}

	if _, err := r.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	review := &models.Review{
		ProductID: in.ProductID,
		UserEmail: author.Email,
		UserName:  author.Name,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := r.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
