package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryStore interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads catalog CSV files and inserts or updates rows by slug.
// A file with a price column is a product file; otherwise it is a category file.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryStore
	logger     *slog.Logger

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryStore, logger *slog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		logger:      logging.OrDiscard(logger).With("component", "importer"),
		categoryIDs: map[string]string{},
	}
}

type productRow struct {
	Slug        string
	Name        string
	Category    string
	Price       string
	SalePrice   string
	Short       string
	Description string
	SKU         string
	Stock       string
	Featured    string
	Active      string
	ImageURLs   []string
}

// Run imports every row and returns the number of saved entities.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["price"]; !ok {
		return i.runCategories(ctx, index)
	}
	return i.runProducts(ctx, index)
}

func (i *CSVImporter) runProducts(ctx context.Context, index map[string]int) (int, error) {
	var (
		current  *productRow
		imported int
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseProductRow(record, index)
		if row == nil {
			continue
		}
		if row.Slug != "" {
			if current != nil {
				if err := i.saveProduct(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.saveProduct(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}
	i.logger.Info("imported products", "count", imported)
	return imported, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, row *productRow) error {
	if row.Name == "" || row.Category == "" || row.Price == "" {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", row.Slug)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("invalid price for slug %q: %s", row.Slug, row.Price)
	}
	p := domain.Product{
		Name:             row.Name,
		Slug:             row.Slug,
		ShortDescription: row.Short,
		Description:      row.Description,
		SKU:              row.SKU,
		Price:            price,
		Images:           row.ImageURLs,
		IsFeatured:       parseBool(row.Featured, false),
		IsActive:         parseBool(row.Active, true),
	}
	if row.SalePrice != "" {
		sale, err := decimal.NewFromString(row.SalePrice)
		if err != nil {
			return fmt.Errorf("invalid sale price for slug %q: %s", row.Slug, row.SalePrice)
		}
		if !sale.LessThan(price) {
			return fmt.Errorf("sale price for slug %q must be below price", row.Slug)
		}
		p.SalePrice = &sale
	}
	if row.Stock != "" {
		n, err := strconv.Atoi(row.Stock)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid stock quantity for slug %q: %s", row.Slug, row.Stock)
		}
		p.StockQuantity = n
	}
	if p.CategoryID, err = i.categoryID(ctx, row.Category); err != nil {
		return fmt.Errorf("resolve category for slug %q: %w", row.Slug, err)
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Slug, err)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	c, err := i.categories.GetBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("category %q: %w", slug, err)
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

func (i *CSVImporter) runCategories(ctx context.Context, index map[string]int) (int, error) {
	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		slug := pick(record, index, "slug")
		if slug == "" {
			continue
		}
		c := domain.Category{
			Name:        pick(record, index, "name"),
			Slug:        slug,
			Description: pick(record, index, "description"),
			ImageURL:    pick(record, index, "image_url"),
			IsActive:    parseBool(pick(record, index, "is_active"), true),
		}
		if c.Name == "" {
			return imported, fmt.Errorf("invalid category row (missing name) for slug %q", slug)
		}
		if raw := pick(record, index, "sort_order"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return imported, fmt.Errorf("invalid sort_order for slug %q: %s", slug, raw)
			}
			c.SortOrder = n
		}
		saved, err := i.categories.Upsert(ctx, c)
		if err != nil {
			return imported, fmt.Errorf("upsert category %q: %w", slug, err)
		}
		i.categoryIDs[slug] = saved.ID
		imported++
	}
	i.logger.Info("imported categories", "count", imported)
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseProductRow(record []string, index map[string]int) *productRow {
	slug := pick(record, index, "slug")
	imageURL := pick(record, index, "image_url")
	if slug == "" && imageURL == "" {
		return nil
	}
	row := &productRow{
		Slug:        slug,
		Name:        pick(record, index, "name"),
		Category:    pick(record, index, "category"),
		Price:       pick(record, index, "price"),
		SalePrice:   pick(record, index, "sale_price"),
		Short:       pick(record, index, "short_description"),
		Description: pick(record, index, "description"),
		SKU:         pick(record, index, "sku"),
		Stock:       pick(record, index, "stock_quantity"),
		Featured:    pick(record, index, "is_featured"),
		Active:      pick(record, index, "is_active"),
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return def
	}
	return v
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
