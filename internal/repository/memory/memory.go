// Package memory serves a fixed catalog from process memory with the same
// filter, sort and window semantics as the Postgres repositories.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

var idNamespace = uuid.MustParse("8f5d7c1e-2b8a-4f0e-9a51-6d3c2e7b9f10")

type Store struct {
	mu         sync.RWMutex
	categories []domain.Category
	products   []domain.Product
}

// New copies the given catalog. Missing IDs are derived from slugs, and
// products are linked to their category by CategoryID or Category.Slug.
func New(categories []domain.Category, products []domain.Product) *Store {
	s := &Store{}
	bySlug := make(map[string]domain.Category, len(categories))
	byID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			c.ID = deriveID("category", c.Slug)
		}
		s.categories = append(s.categories, c)
		bySlug[c.Slug] = c
		byID[c.ID] = c
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = deriveID("product", p.Slug)
		}
		c, ok := byID[p.CategoryID]
		if !ok && p.Category != nil {
			c, ok = bySlug[p.Category.Slug]
		}
		if ok {
			p.CategoryID = c.ID
			p.Category = &domain.CategoryRef{Name: c.Name, Slug: c.Slug}
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		s.products = append(s.products, p)
	}
	return s
}

func deriveID(kind, slug string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+"/"+slug)).String()
}

func (s *Store) ListActive(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Category{}
	for _, c := range s.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) ListProducts(_ context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []domain.Product{}
	for _, p := range s.products {
		if matches(p, filter) {
			matched = append(matched, p)
		}
	}
	slices.SortStableFunc(matched, compareBy(sort))

	total := len(matched)
	if start < 0 {
		start = 0
	}
	if start >= total || end <= start {
		return []domain.Product{}, total, nil
	}
	end = min(end, total)
	return slices.Clone(matched[start:end]), total, nil
}

func (s *Store) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Slug == slug && p.IsActive {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range s.products {
		if p.IsActive && p.IsFeatured {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, compareBy(catalog.SortNewest))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(p domain.Product, f catalog.ProductFilter) bool {
	if !p.IsActive {
		return false
	}
	if f.CategorySlug != "" && (p.Category == nil || p.Category.Slug != f.CategorySlug) {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameContains)) {
		return false
	}
	return true
}

// compareBy orders on the base price, never the sale price, and breaks ties by id.
func compareBy(sort catalog.SortKey) func(a, b domain.Product) int {
	var primary func(a, b domain.Product) int
	switch sort {
	case catalog.SortName:
		primary = func(a, b domain.Product) int { return strings.Compare(a.Name, b.Name) }
	case catalog.SortPriceLow:
		primary = func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case catalog.SortPriceHigh:
		primary = func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	default:
		primary = func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	return func(a, b domain.Product) int {
		return cmp.Or(primary(a, b), strings.Compare(a.ID, b.ID))
	}
}
