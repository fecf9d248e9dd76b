package search

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
)

type fakeES struct {
	t        *testing.T
	requests []recorded
	respond  func(r recorded) (int, string)
}

type recorded struct {
	Method string
	Path   string
	Body   []byte
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := recorded{Method: r.Method, Path: r.URL.Path, Body: body}
	f.requests = append(f.requests, rec)
	status, payload := f.respond(rec)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func newRepo(t *testing.T, respond func(r recorded) (int, string)) (*Repo, *fakeES) {
	t.Helper()
	fake := &fakeES{t: t, respond: respond}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return New(es, "rugs", nil), fake
}

const twoHits = `{
  "hits": {
    "total": {"value": 14, "relation": "eq"},
    "hits": [
      {"_source": {"id": "p1", "name": "Bone Rug", "slug": "bone-rug", "price": "39.99", "sale_price": "29.99",
                   "category_slug": "dogs", "category_name": "Dogs", "is_active": true,
                   "created_at": "2025-01-02T03:04:05Z", "images": ["a.jpg"]}},
      {"_source": {"id": "p2", "name": "Fish Mat", "slug": "fish-mat", "price": 25, "is_active": true,
                   "created_at": "2025-01-01T00:00:00Z"}}
    ]
  }
}`

func TestListProducts_DecodesHitsAndTotal(t *testing.T) {
	repo, fake := newRepo(t, func(r recorded) (int, string) { return http.StatusOK, twoHits })

	got, total, err := repo.ListProducts(context.Background(), catalog.ProductFilter{CategorySlug: "dogs"}, catalog.SortName, 12, 24)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if total != 14 || len(got) != 2 {
		t.Fatalf("got %d products total %d", len(got), total)
	}
	first := got[0]
	if !first.Price.Equal(decimal.RequireFromString("39.99")) || first.SalePrice == nil || !first.SalePrice.Equal(decimal.RequireFromString("29.99")) {
		t.Fatalf("unexpected prices %s %v", first.Price, first.SalePrice)
	}
	if first.Category == nil || first.Category.Name != "Dogs" {
		t.Fatalf("unexpected category %+v", first.Category)
	}
	if !first.CreatedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected created_at %s", first.CreatedAt)
	}
	if got[1].Category != nil || got[1].Images == nil {
		t.Fatalf("expected no category and empty images, got %+v", got[1])
	}

	last := fake.requests[len(fake.requests)-1]
	if last.Path != "/rugs/_search" {
		t.Fatalf("unexpected path %s", last.Path)
	}
	var sent map[string]any
	if err := json.Unmarshal(last.Body, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent["from"] != float64(12) || sent["size"] != float64(12) {
		t.Fatalf("unexpected window in %s", last.Body)
	}
}

func TestListProducts_ErrorStatus(t *testing.T) {
	repo, _ := newRepo(t, func(r recorded) (int, string) {
		return http.StatusServiceUnavailable, `{"error":"cluster unavailable"}`
	})
	_, _, err := repo.ListProducts(context.Background(), catalog.ProductFilter{}, catalog.SortName, 0, 12)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
}

// sortedHits renders hits for ids from..to-1 with their sort values.
func sortedHits(total, from, to int, source bool) string {
	var hits []string
	for n := from; n < to && n < total; n++ {
		id := fmt.Sprintf("p%03d", n)
		src := ""
		if source {
			src = fmt.Sprintf(`"_source": {"id": %q, "name": %q, "slug": %q, "price": 10, "is_active": true},`, id, id, id)
		}
		hits = append(hits, fmt.Sprintf(`{%s "sort": [%q, %q]}`, src, id, id))
	}
	return fmt.Sprintf(`{"hits":{"total":{"value":%d},"hits":[%s]}}`, total, strings.Join(hits, ","))
}

// afterIndex returns the row position following the search_after cursor.
func afterIndex(t *testing.T, sent map[string]any) int {
	t.Helper()
	after, ok := sent["search_after"].([]any)
	if !ok {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(after[1].(string), "p%03d", &n); err != nil {
		t.Fatalf("cursor %v: %v", after, err)
	}
	return n + 1
}

func TestListProducts_PagesPastResultWindow(t *testing.T) {
	const total = 23
	repo, fake := newRepo(t, func(r recorded) (int, string) {
		var sent map[string]any
		if err := json.Unmarshal(r.Body, &sent); err != nil {
			t.Fatalf("request body: %v", err)
		}
		size := int(sent["size"].(float64))
		from := afterIndex(t, sent)
		_, hasSource := sent["_source"]
		return http.StatusOK, sortedHits(total, from, from+size, !hasSource)
	})
	repo.window = 4

	got, n, err := repo.ListProducts(context.Background(), catalog.ProductFilter{}, catalog.SortName, 12, 18)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if n != total || len(got) != 6 {
		t.Fatalf("got %d products total %d", len(got), n)
	}
	if got[0].ID != "p012" || got[5].ID != "p017" {
		t.Fatalf("unexpected window %s..%s", got[0].ID, got[5].ID)
	}
	// count, three skip steps of 4, then the page itself
	if len(fake.requests) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(fake.requests))
	}
	for _, r := range fake.requests {
		if bytes.Contains(r.Body, []byte(`"from"`)) {
			t.Fatalf("deep page must not use from: %s", r.Body)
		}
	}

	got, n, err = repo.ListProducts(context.Background(), catalog.ProductFilter{}, catalog.SortName, 20, 26)
	if err != nil || n != total || len(got) != 3 {
		t.Fatalf("last page: got %d products total %d err %v", len(got), n, err)
	}

	before := len(fake.requests)
	got, n, err = repo.ListProducts(context.Background(), catalog.ProductFilter{}, catalog.SortName, 96, 108)
	if err != nil || n != total || got == nil || len(got) != 0 {
		t.Fatalf("out of range: got %v total %d err %v", got, n, err)
	}
	if len(fake.requests)-before != 1 {
		t.Fatalf("out-of-range page should only count, sent %d requests", len(fake.requests)-before)
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo, _ := newRepo(t, func(r recorded) (int, string) {
		return http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`
	})
	if _, err := repo.GetBySlug(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	repo, fake := newRepo(t, func(r recorded) (int, string) {
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ""
		}
		return http.StatusOK, `{"acknowledged":true}`
	})
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if len(fake.requests) != 2 {
		t.Fatalf("expected exists + create, got %d requests", len(fake.requests))
	}
	create := fake.requests[1]
	if create.Method != http.MethodPut || create.Path != "/rugs" || !bytes.Contains(create.Body, []byte("scaled_float")) {
		t.Fatalf("unexpected create request %s %s", create.Method, create.Path)
	}
}

func TestEnsureIndex_ExistingIsNoop(t *testing.T) {
	repo, fake := newRepo(t, func(r recorded) (int, string) { return http.StatusOK, "" })
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("expected only the exists check, got %d", len(fake.requests))
	}
}

func TestIndex_WritesBulkPairs(t *testing.T) {
	repo, fake := newRepo(t, func(r recorded) (int, string) { return http.StatusOK, `{"errors":false,"items":[]}` })
	products := []domain.Product{
		{ID: "p1", Name: "Bone Rug", Slug: "bone-rug", Price: decimal.RequireFromString("39.99"), IsActive: true,
			Category: &domain.CategoryRef{Name: "Dogs", Slug: "dogs"}},
		{ID: "p2", Name: "Fish Mat", Slug: "fish-mat", Price: decimal.RequireFromString("25"), IsActive: true},
	}
	if err := repo.Index(context.Background(), products); err != nil {
		t.Fatalf("Index: %v", err)
	}

	req := fake.requests[len(fake.requests)-1]
	if req.Path != "/rugs/_bulk" {
		t.Fatalf("unexpected path %s", req.Path)
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(req.Body))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 ndjson lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"_id":"p1"`) || !strings.Contains(lines[1], `"category_slug":"dogs"`) {
		t.Fatalf("unexpected bulk body:\n%s", req.Body)
	}
}

func TestIndex_ReportsRejectedDocuments(t *testing.T) {
	repo, _ := newRepo(t, func(r recorded) (int, string) { return http.StatusOK, `{"errors":true,"items":[]}` })
	err := repo.Index(context.Background(), []domain.Product{{ID: "p1", Slug: "x"}})
	if err == nil {
		t.Fatalf("expected error for rejected documents")
	}
}

type pagedSource struct {
	products []domain.Product
	windows  [][2]int
}

func (s *pagedSource) ListProducts(_ context.Context, _ catalog.ProductFilter, _ catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	s.windows = append(s.windows, [2]int{start, end})
	if start >= len(s.products) {
		return []domain.Product{}, len(s.products), nil
	}
	return s.products[start:min(end, len(s.products))], len(s.products), nil
}

func TestReindex_PagesThroughSource(t *testing.T) {
	bulkCalls := 0
	repo, _ := newRepo(t, func(r recorded) (int, string) {
		switch {
		case r.Method == http.MethodHead:
			return http.StatusOK, ""
		case strings.HasSuffix(r.Path, "/_bulk"):
			bulkCalls++
			return http.StatusOK, `{"errors":false}`
		}
		return http.StatusBadRequest, `{}`
	})

	src := &pagedSource{}
	for i := 0; i < 5; i++ {
		src.products = append(src.products, domain.Product{ID: string(rune('a' + i)), Slug: string(rune('a' + i))})
	}

	n, err := repo.Reindex(context.Background(), src, 2)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if n != 5 || bulkCalls != 3 {
		t.Fatalf("indexed %d in %d bulk calls", n, bulkCalls)
	}
	if len(src.windows) != 3 || src.windows[2] != [2]int{4, 6} {
		t.Fatalf("unexpected windows %v", src.windows)
	}
}
