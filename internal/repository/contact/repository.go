package contact

import (
	"context"

	"petrugs-storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ContactMessage, error)
}
