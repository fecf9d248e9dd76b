package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/repository/memory"
)

type stubStore struct {
	products []domain.Product
	total    int
	err      error
	block    bool

	lastFilter catalog.ProductFilter
	lastSort   catalog.SortKey
	lastStart  int
	lastEnd    int
	lastLimit  int
	calls      int
}

func (s *stubStore) ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	s.calls++
	s.lastFilter, s.lastSort, s.lastStart, s.lastEnd = filter, sort, start, end
	if s.block {
		<-ctx.Done()
		return nil, 0, ctx.Err()
	}
	return s.products, s.total, s.err
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubStore) ListFeatured(_ context.Context, limit int) ([]domain.Product, error) {
	s.calls++
	s.lastLimit = limit
	return s.products, s.err
}

type reported struct {
	ops  []string
	errs []error
}

func (r *reported) report(op string, err error) {
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
}

func rug(name string, price string, created time.Time, category string) domain.Product {
	return domain.Product{
		Name:      name,
		Slug:      name,
		Price:     decimal.RequireFromString(price),
		IsActive:  true,
		CreatedAt: created,
		Category:  &domain.CategoryRef{Slug: category},
	}
}

func TestList_PassesFilterSortAndWindow(t *testing.T) {
	store := &stubStore{products: []domain.Product{{Name: "A"}}, total: 30}
	svc := New(store, Options{})

	q := svc.Query(catalog.Params{Category: "dogs", Search: "bone", Sort: "price_high", Page: 3})
	page := svc.List(context.Background(), q)

	if diff := cmp.Diff(catalog.ProductFilter{CategorySlug: "dogs", NameContains: "bone"}, store.lastFilter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if store.lastSort != catalog.SortPriceHigh || store.lastStart != 24 || store.lastEnd != 36 {
		t.Fatalf("unexpected sort/window: %s [%d,%d)", store.lastSort, store.lastStart, store.lastEnd)
	}
	if page.TotalCount != 30 || page.CurrentPage != 3 || page.TotalPages() != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestList_DegradesOnStoreError(t *testing.T) {
	var rep reported
	store := &stubStore{err: errors.New("connection refused")}
	svc := New(store, Options{OnUnavailable: rep.report})

	page := svc.List(context.Background(), svc.Query(catalog.Params{Page: 2}))

	if len(page.Products) != 0 || page.TotalCount != 0 || page.TotalPages() != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if page.Products == nil {
		t.Fatalf("expected non-nil empty product slice")
	}
	if len(rep.errs) != 1 || !errors.Is(rep.errs[0], catalog.ErrDataServiceUnavailable) {
		t.Fatalf("expected one ErrDataServiceUnavailable report, got %v", rep.errs)
	}
	if rep.ops[0] != "list_products" {
		t.Fatalf("unexpected op %q", rep.ops[0])
	}
	if store.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", store.calls)
	}
}

func TestList_TimesOut(t *testing.T) {
	var rep reported
	store := &stubStore{block: true}
	svc := New(store, Options{Timeout: 20 * time.Millisecond, OnUnavailable: rep.report})

	begin := time.Now()
	page := svc.List(context.Background(), svc.Query(catalog.Params{}))
	if elapsed := time.Since(begin); elapsed > time.Second {
		t.Fatalf("List did not honour timeout, took %s", elapsed)
	}
	if page.TotalCount != 0 || len(page.Products) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if len(rep.errs) != 1 || !errors.Is(rep.errs[0], context.DeadlineExceeded) {
		t.Fatalf("expected deadline report, got %v", rep.errs)
	}
}

func TestGet_NotFoundIsNotReported(t *testing.T) {
	var rep reported
	svc := New(&stubStore{}, Options{OnUnavailable: rep.report})

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(rep.errs) != 0 {
		t.Fatalf("not-found must not be reported, got %v", rep.errs)
	}
}

func TestGet_StoreFailure(t *testing.T) {
	var rep reported
	svc := New(&stubStore{err: errors.New("boom")}, Options{OnUnavailable: rep.report})

	_, err := svc.Get(context.Background(), "ace")
	if !errors.Is(err, catalog.ErrDataServiceUnavailable) {
		t.Fatalf("expected ErrDataServiceUnavailable, got %v", err)
	}
	if len(rep.errs) != 1 {
		t.Fatalf("expected one report, got %d", len(rep.errs))
	}
}

func TestFeatured_DefaultLimitAndDegrade(t *testing.T) {
	store := &stubStore{}
	svc := New(store, Options{})
	if got := svc.Featured(context.Background(), 0); len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if store.lastLimit != FeaturedLimit {
		t.Fatalf("expected default limit %d, got %d", FeaturedLimit, store.lastLimit)
	}

	var rep reported
	failing := New(&stubStore{err: errors.New("down")}, Options{OnUnavailable: rep.report})
	if got := failing.Featured(context.Background(), 3); len(got) != 0 {
		t.Fatalf("expected degraded empty list, got %d", len(got))
	}
	if len(rep.ops) != 1 || rep.ops[0] != "list_featured" {
		t.Fatalf("unexpected reports %v", rep.ops)
	}
}

func TestList_AgainstMemoryStore(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var products []domain.Product
	for i := 0; i < 25; i++ {
		products = append(products, rug(string(rune('a'+i)), "10", base.Add(time.Duration(i)*time.Hour), "dogs"))
	}
	store := memory.New([]domain.Category{{Slug: "dogs", Name: "Dogs", IsActive: true}}, products)
	svc := New(store, Options{})

	cases := []struct {
		name      string
		params    catalog.Params
		wantCount int
		wantTotal int
		wantFirst string
	}{
		{name: "first page", params: catalog.Params{}, wantCount: 12, wantTotal: 25, wantFirst: "a"},
		{name: "last page", params: catalog.Params{Page: 3}, wantCount: 1, wantTotal: 25, wantFirst: "y"},
		{name: "beyond range", params: catalog.Params{Page: 9}, wantCount: 0, wantTotal: 25},
		{name: "huge page", params: catalog.Params{Page: 1537228672809129302}, wantCount: 0, wantTotal: 25},
		{name: "newest", params: catalog.Params{Sort: "newest"}, wantCount: 12, wantTotal: 25, wantFirst: "y"},
		{name: "unknown category", params: catalog.Params{Category: "birds"}, wantCount: 0, wantTotal: 0},
		{name: "search literal percent", params: catalog.Params{Search: "%"}, wantCount: 0, wantTotal: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := svc.List(context.Background(), svc.Query(tc.params))
			if len(page.Products) != tc.wantCount || page.TotalCount != tc.wantTotal {
				t.Fatalf("got %d products total %d", len(page.Products), page.TotalCount)
			}
			if tc.wantFirst != "" && page.Products[0].Name != tc.wantFirst {
				t.Fatalf("first product %q, want %q", page.Products[0].Name, tc.wantFirst)
			}
		})
	}
}
