package catalog

import "petrugs-storefront/internal/domain"

// Page is one window of a filtered, sorted product listing.
type Page struct {
	Products    []domain.Product
	TotalCount  int
	CurrentPage int
	PageSize    int
}

// NewPage shapes a store result for q. A nil product slice becomes empty.
func NewPage(q Query, products []domain.Product, total int) Page {
	if products == nil {
		products = []domain.Product{}
	}
	if total < 0 {
		total = 0
	}
	return Page{
		Products:    products,
		TotalCount:  total,
		CurrentPage: q.Page,
		PageSize:    q.PageSize,
	}
}

// EmptyPage is what a listing degrades to when the data service fails.
func EmptyPage(q Query) Page {
	return NewPage(q, nil, 0)
}

// TotalPages is ceil(TotalCount / PageSize).
func (p Page) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// PaginationView is the page-link state rendered under a listing.
type PaginationView struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Links       []int `json:"links"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// Pagination builds the page-link window. Links always start at page 1 and
// never exceed MaxPageLinks, regardless of the current page.
func (p Page) Pagination() PaginationView {
	total := p.TotalPages()
	n := min(total, MaxPageLinks)
	links := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		links = append(links, i)
	}
	return PaginationView{
		CurrentPage: p.CurrentPage,
		TotalPages:  total,
		Links:       links,
		HasPrevious: p.CurrentPage > 1,
		HasNext:     p.CurrentPage < total,
	}
}
