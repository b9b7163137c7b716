package product

import (
	"storefront_back_end/internal/catalog"
)

type Handler struct {
	catalog *catalog.Service
	reviews *catalog.Reviews
}

func NewHandler(svc *catalog.Service, reviews *catalog.Reviews) *Handler {
	return &Handler{catalog: svc, reviews: reviews}
}
