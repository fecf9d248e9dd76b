package search

import (
	"context"
	"fmt"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

// Source is the catalog the index is rebuilt from.
type Source interface {
	ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error)
}

// Reindex copies every active product from src into the index, batch rows at
// a time, and returns the number indexed.
func (r *Repo) Reindex(ctx context.Context, src Source, batch int) (int, error) {
	if batch <= 0 {
		batch = 500
	}
	if err := r.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for start := 0; ; start += batch {
		products, total, err := src.ListProducts(ctx, catalog.ProductFilter{}, catalog.SortNewest, start, start+batch)
		if err != nil {
			return indexed, fmt.Errorf("read products [%d,%d): %w", start, start+batch, err)
		}
		if err := r.Index(ctx, products); err != nil {
			return indexed, err
		}
		indexed += len(products)
		if len(products) == 0 || start+batch >= total {
			break
		}
	}
	r.logger.Info("reindex complete", "indexed", indexed)
	return indexed, nil
}
