package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).With("component", "product_repo")}
}

const selectColumns = `
p.id::text, p.category_id::text, p.name, p.slug, COALESCE(p.short_description, ''), COALESCE(p.description, ''),
COALESCE(p.sku, ''), p.price::text, p.sale_price::text, p.images, p.stock_quantity, p.is_featured, p.is_active,
p.created_at, c.name, c.slug`

const fromProducts = `
FROM products p
JOIN categories c ON c.id = p.category_id`

// ListProducts counts and fetches inside one read-only snapshot so the total
// and the page describe the same data.
func (r *postgresRepo) ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	qb := applyFilter(filter)
	where := qb.where()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := "SELECT COUNT(*)" + fromProducts + "\n" + where
	var total int
	if err := tx.QueryRow(ctx, countQuery, qb.args...).Scan(&total); err != nil {
		r.logger.Error("count products", "category", filter.CategorySlug, "search", filter.NameContains, "error", err)
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	products := []domain.Product{}
	limit := end - start
	if total == 0 || start >= total || limit <= 0 {
		r.logger.Debug("listed products", "total", total, "start", start, "count", 0)
		return products, total, nil
	}

	args := append(qb.args, limit, start)
	dataQuery := fmt.Sprintf("SELECT %s%s\n%s\n%s\nLIMIT $%d OFFSET $%d",
		selectColumns, fromProducts, where, orderBy(sort), len(args)-1, len(args))
	rows, err := tx.Query(ctx, dataQuery, args...)
	if err != nil {
		r.logger.Error("list products", "sort", sort, "start", start, "error", err)
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products rows: %w", err)
	}
	r.logger.Debug("listed products", "total", total, "start", start, "count", len(products))
	return products, total, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := "SELECT " + selectColumns + fromProducts + "\nWHERE p.slug = $1 AND p.is_active = true"
	p, err := scanProduct(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product not found", "slug", slug)
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get product", "slug", slug, "error", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	q := "SELECT " + selectColumns + fromProducts + `
WHERE p.is_active = true AND p.is_featured = true
ORDER BY p.created_at DESC, p.id ASC
LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Error("list featured", "error", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (category_id, name, slug, short_description, description, sku, price, sale_price, images, stock_quantity, is_featured, is_active)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7::numeric, $8::numeric, $9, $10, $11, $12)
ON CONFLICT (slug) DO UPDATE SET
    category_id = EXCLUDED.category_id,
    name = EXCLUDED.name,
    short_description = EXCLUDED.short_description,
    description = EXCLUDED.description,
    sku = EXCLUDED.sku,
    price = EXCLUDED.price,
    sale_price = EXCLUDED.sale_price,
    images = EXCLUDED.images,
    stock_quantity = EXCLUDED.stock_quantity,
    is_featured = EXCLUDED.is_featured,
    is_active = EXCLUDED.is_active
RETURNING id::text, created_at
`
	var salePrice *string
	if p.SalePrice != nil {
		s := p.SalePrice.String()
		salePrice = &s
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	res := p
	err := r.pool.QueryRow(ctx, q,
		p.CategoryID,
		p.Name,
		p.Slug,
		p.ShortDescription,
		p.Description,
		p.SKU,
		p.Price.String(),
		salePrice,
		images,
		p.StockQuantity,
		p.IsFeatured,
		p.IsActive,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("product %s: %w", p.Slug, domain.ErrAlreadyExists)
		}
		r.logger.Error("upsert product", "slug", p.Slug, "error", err)
		return nil, err
	}
	res.Images = images
	r.logger.Debug("upserted product", "slug", res.Slug, "id", res.ID)
	return &res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p         domain.Product
		price     string
		salePrice *string
		cat       domain.CategoryRef
	)
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description,
		&p.SKU, &price, &salePrice, &p.Images, &p.StockQuantity, &p.IsFeatured, &p.IsActive,
		&p.CreatedAt, &cat.Name, &cat.Slug,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return domain.Product{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	if salePrice != nil {
		sale, err := decimal.NewFromString(*salePrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("parse sale price %q: %w", *salePrice, err)
		}
		p.SalePrice = &sale
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Category = &cat
	return p, nil
}
