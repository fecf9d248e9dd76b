package category

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).With("component", "category_repo")}
}

const selectColumns = `id::text, name, slug, COALESCE(description, ''), COALESCE(image_url, ''), sort_order, is_active, created_at`

// ListActive returns active categories in display order.
func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT ` + selectColumns + `
FROM categories
WHERE is_active = true
ORDER BY sort_order ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list categories", "error", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list categories rows", "error", err)
		return nil, err
	}
	r.logger.Debug("listed categories", "count", len(result))
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const q = `
SELECT ` + selectColumns + `
FROM categories
WHERE slug = $1
`
	c, err := scanCategory(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, description, image_url, sort_order, is_active)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = COALESCE(EXCLUDED.description, categories.description),
    image_url = COALESCE(EXCLUDED.image_url, categories.image_url),
    sort_order = EXCLUDED.sort_order,
    is_active = EXCLUDED.is_active
RETURNING ` + selectColumns
	out, err := scanCategory(r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.Description, c.ImageURL, c.SortOrder, c.IsActive))
	if err != nil {
		r.logger.Error("upsert category", "slug", c.Slug, "error", err)
		return nil, err
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}
