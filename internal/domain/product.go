package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string           `json:"id"`
	CategoryID       string           `json:"-"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	Description      string           `json:"description,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	SalePrice        *decimal.Decimal `json:"salePrice,omitempty"`
	Images           []string         `json:"images"`
	StockQuantity    int              `json:"stockQuantity"`
	IsFeatured       bool             `json:"isFeatured"`
	IsActive         bool             `json:"-"`
	Category         *CategoryRef     `json:"category,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// CategoryRef is the slice of a category embedded in product reads.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// OnSale reports whether the sale price is set and undercuts the base price.
func (p Product) OnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.Price)
}

// EffectivePrice is the price shown to shoppers. Catalog sorting never uses it.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale() {
		return *p.SalePrice
	}
	return p.Price
}

// Savings returns the discount amount and its whole-number percentage of the base price.
func (p Product) Savings() (decimal.Decimal, int64) {
	if !p.OnSale() || p.Price.IsZero() {
		return decimal.Zero, 0
	}
	amount := p.Price.Sub(*p.SalePrice)
	percent := amount.Div(p.Price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return amount, percent
}
