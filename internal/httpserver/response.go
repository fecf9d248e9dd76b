package httpserver

import (
	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SortOrder   int    `json:"sortOrder"`
}

type categoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type productSummary struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	Price            string       `json:"price"`
	SalePrice        *string      `json:"salePrice,omitempty"`
	EffectivePrice   string       `json:"effectivePrice"`
	OnSale           bool         `json:"onSale"`
	Image            string       `json:"image,omitempty"`
	IsFeatured       bool         `json:"isFeatured"`
	Category         *categoryRef `json:"category,omitempty"`
}

type productDetail struct {
	productSummary
	Description    string   `json:"description,omitempty"`
	SKU            string   `json:"sku,omitempty"`
	StockQuantity  int      `json:"stockQuantity"`
	InStock        bool     `json:"inStock"`
	Images         []string `json:"images"`
	SavingsAmount  string   `json:"savingsAmount,omitempty"`
	SavingsPercent int64    `json:"savingsPercent,omitempty"`
}

type listQuery struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Sort     string `json:"sort"`
}

type productListResponse struct {
	Query      listQuery              `json:"query"`
	Products   []productSummary       `json:"products"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"pageSize"`
	Pagination catalog.PaginationView `json:"pagination"`
}

type homeResponse struct {
	Categories []categoryResponse `json:"categories"`
	Featured   []productSummary   `json:"featured"`
}

type contactResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func toCategoryResponses(categories []domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			SortOrder:   c.SortOrder,
		})
	}
	return out
}

func toProductSummary(p domain.Product) productSummary {
	s := productSummary{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Price:            p.Price.StringFixed(2),
		EffectivePrice:   p.EffectivePrice().StringFixed(2),
		OnSale:           p.OnSale(),
		IsFeatured:       p.IsFeatured,
	}
	if p.SalePrice != nil {
		sale := p.SalePrice.StringFixed(2)
		s.SalePrice = &sale
	}
	if len(p.Images) > 0 {
		s.Image = p.Images[0]
	}
	if p.Category != nil {
		s.Category = &categoryRef{Name: p.Category.Name, Slug: p.Category.Slug}
	}
	return s
}

func toProductSummaries(products []domain.Product) []productSummary {
	out := make([]productSummary, 0, len(products))
	for _, p := range products {
		out = append(out, toProductSummary(p))
	}
	return out
}

func toProductDetail(p domain.Product) productDetail {
	d := productDetail{
		productSummary: toProductSummary(p),
		Description:    p.Description,
		SKU:            p.SKU,
		StockQuantity:  p.StockQuantity,
		InStock:        p.StockQuantity > 0,
		Images:         p.Images,
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	if amount, percent := p.Savings(); amount.IsPositive() {
		d.SavingsAmount = amount.StringFixed(2)
		d.SavingsPercent = percent
	}
	return d
}

func toProductListResponse(q catalog.Query, page catalog.Page) productListResponse {
	return productListResponse{
		Query: listQuery{
			Category: q.CategorySlug,
			Search:   q.SearchTerm,
			Sort:     string(q.Sort),
		},
		Products:   toProductSummaries(page.Products),
		Total:      page.TotalCount,
		PageSize:   page.PageSize,
		Pagination: page.Pagination(),
	}
}
