package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type Store interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
}

type Options struct {
	Timeout       time.Duration
	Logger        *slog.Logger
	OnUnavailable catalog.Reporter
}

type Service struct {
	store   Store
	timeout time.Duration
	logger  *slog.Logger
	report  catalog.Reporter
}

func New(store Store, opts Options) *Service {
	s := &Service{
		store:   store,
		timeout: opts.Timeout,
		logger:  logging.OrDiscard(opts.Logger).With("component", "category_service"),
		report:  opts.OnUnavailable,
	}
	if s.timeout <= 0 {
		s.timeout = catalog.DefaultTimeout
	}
	if s.report == nil {
		s.report = func(op string, err error) {
			s.logger.Error("catalog data service unavailable", "op", op, "error", err)
		}
	}
	return s
}

// List returns active categories in display order. A failed or slow store
// yields an empty list; the failure goes to the reporter.
func (s *Service) List(ctx context.Context) []domain.Category {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	categories, err := s.store.ListActive(ctx)
	if err != nil {
		s.report("list_categories", fmt.Errorf("%w: %w", catalog.ErrDataServiceUnavailable, err))
		return []domain.Category{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories
}
