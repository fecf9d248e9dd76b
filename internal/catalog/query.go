// Package catalog turns storefront listing selections into a deterministic
// product query and shapes the returned page into pagination metadata.
package catalog

import (
	"math"
	"strings"
)

const (
	// AllCategories is the category slug meaning "no category filter".
	AllCategories = "all"
	// DefaultPageSize matches the storefront grid of 12 products.
	DefaultPageSize = 12
	// MaxPageLinks bounds the number of numbered page links.
	MaxPageLinks = 5
)

// SortKey names a listing order. Every order ends with id ascending.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps an empty value to SortName and anything unrecognized to SortNewest.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.TrimSpace(raw)); key {
	case "":
		return SortName
	case SortName, SortPriceLow, SortPriceHigh, SortNewest:
		return key
	default:
		return SortNewest
	}
}

// Params are the raw listing selections: URL query values plus page state.
type Params struct {
	Category string
	Search   string
	Sort     string
	Page     int
}

// Query is the value object sent to a product store.
type Query struct {
	CategorySlug string
	SearchTerm   string
	Sort         SortKey
	Page         int
	PageSize     int
}

// BuildQuery applies listing defaults. pageSize <= 0 falls back to DefaultPageSize.
// Page is clamped to [1, MaxPage(pageSize)] so its row window never overflows.
func BuildQuery(p Params, pageSize int) Query {
	category := p.Category
	if category == "" {
		category = AllCategories
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := min(max(p.Page, 1), MaxPage(pageSize))
	return Query{
		CategorySlug: category,
		SearchTerm:   p.Search,
		Sort:         ParseSortKey(p.Sort),
		Page:         page,
		PageSize:     pageSize,
	}
}

// MaxPage is the largest page whose row window fits in an int.
func MaxPage(pageSize int) int {
	return math.MaxInt / pageSize
}

// ProductFilter is the store-side predicate. Stores always restrict to active
// products; empty fields are not applied.
type ProductFilter struct {
	CategorySlug string
	NameContains string
}

func (q Query) Filter() ProductFilter {
	var f ProductFilter
	if q.CategorySlug != AllCategories {
		f.CategorySlug = q.CategorySlug
	}
	if q.SearchTerm != "" {
		f.NameContains = q.SearchTerm
	}
	return f
}

// Range returns the half-open row window [start, end) for the query page.
func (q Query) Range() (start, end int) {
	start = (q.Page - 1) * q.PageSize
	return start, start + q.PageSize
}
