package product

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"petrugs-storefront/internal/catalog"
)

func TestApplyFilter_NoSelections(t *testing.T) {
	qb := applyFilter(catalog.ProductFilter{})
	if got := qb.where(); got != "WHERE p.is_active = true" {
		t.Fatalf("unexpected where %q", got)
	}
	if len(qb.args) != 0 {
		t.Fatalf("expected no args, got %v", qb.args)
	}
}

func TestApplyFilter_CategoryAndSearch(t *testing.T) {
	qb := applyFilter(catalog.ProductFilter{CategorySlug: "dogs", NameContains: "50%_off"})

	want := `WHERE p.is_active = true AND c.slug = $1 AND p.name ILIKE $2 ESCAPE '\'`
	if got := qb.where(); got != want {
		t.Fatalf("where mismatch\n got: %s\nwant: %s", got, want)
	}
	if diff := cmp.Diff([]any{"dogs", `%50\%\_off%`}, qb.args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderBy(t *testing.T) {
	cases := map[catalog.SortKey]string{
		catalog.SortName:      "ORDER BY p.name ASC, p.id ASC",
		catalog.SortPriceLow:  "ORDER BY p.price ASC, p.id ASC",
		catalog.SortPriceHigh: "ORDER BY p.price DESC, p.id ASC",
		catalog.SortNewest:    "ORDER BY p.created_at DESC, p.id ASC",
		"bogus":               "ORDER BY p.created_at DESC, p.id ASC",
	}
	for key, want := range cases {
		if got := orderBy(key); got != want {
			t.Errorf("orderBy(%q) = %q, want %q", key, got, want)
		}
	}
}
