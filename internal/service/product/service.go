package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

// FeaturedLimit caps the featured strip.
const FeaturedLimit = 8

// Store is the subset of a product repository the storefront reads from.
type Store interface {
	ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Product, error)
}

type Options struct {
	Timeout  time.Duration
	PageSize int
	Logger   *slog.Logger
	// OnUnavailable is called for every degraded failure. Defaults to an
	// error-level log line.
	OnUnavailable catalog.Reporter
}

type Service struct {
	store    Store
	timeout  time.Duration
	pageSize int
	logger   *slog.Logger
	report   catalog.Reporter
}

func New(store Store, opts Options) *Service {
	s := &Service{
		store:    store,
		timeout:  opts.Timeout,
		pageSize: opts.PageSize,
		logger:   logging.OrDiscard(opts.Logger).With("component", "product_service"),
		report:   opts.OnUnavailable,
	}
	if s.timeout <= 0 {
		s.timeout = catalog.DefaultTimeout
	}
	if s.pageSize <= 0 {
		s.pageSize = catalog.DefaultPageSize
	}
	if s.report == nil {
		s.report = func(op string, err error) {
			s.logger.Error("catalog data service unavailable", "op", op, "error", err)
		}
	}
	return s
}

// PageSize is the listing page size fixed for the lifetime of the service.
func (s *Service) PageSize() int { return s.pageSize }

// Query builds a listing query with the service page size.
func (s *Service) Query(p catalog.Params) catalog.Query {
	return catalog.BuildQuery(p, s.pageSize)
}

// List never fails: store errors and timeouts yield an empty page with a
// zero total and are passed to the reporter.
func (s *Service) List(ctx context.Context, q catalog.Query) catalog.Page {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start, end := q.Range()
	products, total, err := s.store.ListProducts(ctx, q.Filter(), q.Sort, start, end)
	if err != nil {
		s.unavailable("list_products", err)
		return catalog.EmptyPage(q)
	}
	return catalog.NewPage(q, products, total)
}

// Get returns domain.ErrNotFound for unknown or inactive slugs and wraps every
// other failure in catalog.ErrDataServiceUnavailable.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.store.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, s.unavailable("get_product", err)
	}
	return p, nil
}

// Featured returns up to limit featured products, or none when the store fails.
func (s *Service) Featured(ctx context.Context, limit int) []domain.Product {
	if limit <= 0 {
		limit = FeaturedLimit
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	products, err := s.store.ListFeatured(ctx, limit)
	if err != nil {
		s.unavailable("list_featured", err)
		return []domain.Product{}
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products
}

func (s *Service) unavailable(op string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", catalog.ErrDataServiceUnavailable, op, err)
	s.report(op, wrapped)
	return wrapped
}
