package product

import (
	"context"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

type Repository interface {
	// ListProducts returns active products matching filter, ordered by sort,
	// restricted to rows [start, end), plus the unpaginated match count.
	ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
