package search

import (
	"time"

	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/domain"
)

// document is the indexed shape of a product. Prices keep their decimal
// string in _source and are indexed as scaled_float for sorting.
type document struct {
	ID               string           `json:"id"`
	CategoryID       string           `json:"category_id"`
	CategoryName     string           `json:"category_name"`
	CategorySlug     string           `json:"category_slug"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"short_description,omitempty"`
	Description      string           `json:"description,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	Images           []string         `json:"images"`
	StockQuantity    int              `json:"stock_quantity"`
	IsFeatured       bool             `json:"is_featured"`
	IsActive         bool             `json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toDocument(p domain.Product) document {
	d := document{
		ID:               p.ID,
		CategoryID:       p.CategoryID,
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		SKU:              p.SKU,
		Price:            p.Price,
		SalePrice:        p.SalePrice,
		Images:           p.Images,
		StockQuantity:    p.StockQuantity,
		IsFeatured:       p.IsFeatured,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	if p.Category != nil {
		d.CategoryName = p.Category.Name
		d.CategorySlug = p.Category.Slug
	}
	return d
}

func (d document) product() domain.Product {
	p := domain.Product{
		ID:               d.ID,
		CategoryID:       d.CategoryID,
		Name:             d.Name,
		Slug:             d.Slug,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		SKU:              d.SKU,
		Price:            d.Price,
		SalePrice:        d.SalePrice,
		Images:           d.Images,
		StockQuantity:    d.StockQuantity,
		IsFeatured:       d.IsFeatured,
		IsActive:         d.IsActive,
		CreatedAt:        d.CreatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if d.CategorySlug != "" {
		p.Category = &domain.CategoryRef{Name: d.CategoryName, Slug: d.CategorySlug}
	}
	return p
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":                {"type": "keyword"},
      "category_id":       {"type": "keyword"},
      "category_name":     {"type": "keyword"},
      "category_slug":     {"type": "keyword"},
      "name":              {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "slug":              {"type": "keyword"},
      "short_description": {"type": "text"},
      "description":       {"type": "text"},
      "sku":               {"type": "keyword"},
      "price":             {"type": "scaled_float", "scaling_factor": 100},
      "sale_price":        {"type": "scaled_float", "scaling_factor": 100},
      "images":            {"type": "keyword", "index": false},
      "stock_quantity":    {"type": "integer"},
      "is_featured":       {"type": "boolean"},
      "is_active":         {"type": "boolean"},
      "created_at":        {"type": "date"}
    }
  }
}`
