package category

import (
	"context"

	"petrugs-storefront/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
