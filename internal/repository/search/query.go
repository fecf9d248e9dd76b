package search

import (
	"encoding/json"
	"strings"

	"petrugs-storefront/internal/catalog"
)

// maxResultWindow is the default index.max_result_window; from+size may not
// exceed it, so deeper pages are reached with search_after.
const maxResultWindow = 10000

type body map[string]any

func boolFilter(clauses ...body) body {
	return body{"bool": body{"filter": clauses}}
}

func term(field string, value any) body {
	return body{"term": body{field: value}}
}

func filterClauses(f catalog.ProductFilter) []body {
	clauses := []body{term("is_active", true)}
	if f.CategorySlug != "" {
		clauses = append(clauses, term("category_slug", f.CategorySlug))
	}
	if f.NameContains != "" {
		clauses = append(clauses, body{"wildcard": body{"name.keyword": body{
			"value":            "*" + escapeWildcard(f.NameContains) + "*",
			"case_insensitive": true,
		}}})
	}
	return clauses
}

// sortClauses orders on the base price, never the sale price, and always
// ends with id so equal keys page deterministically.
func sortClauses(sort catalog.SortKey) []body {
	var primary body
	switch sort {
	case catalog.SortName:
		primary = body{"name.keyword": "asc"}
	case catalog.SortPriceLow:
		primary = body{"price": "asc"}
	case catalog.SortPriceHigh:
		primary = body{"price": "desc"}
	default:
		primary = body{"created_at": "desc"}
	}
	return []body{primary, {"id": "asc"}}
}

// listBody builds the search for rows [start, end) when end fits inside the
// result window.
func listBody(f catalog.ProductFilter, sort catalog.SortKey, start, end int) body {
	return body{
		"query":            boolFilter(filterClauses(f)...),
		"sort":             sortClauses(sort),
		"from":             max(start, 0),
		"size":             max(end-start, 0),
		"track_total_hits": true,
	}
}

func countBody(f catalog.ProductFilter) body {
	return body{
		"query":            boolFilter(filterClauses(f)...),
		"size":             0,
		"track_total_hits": true,
	}
}

// afterBody continues a sorted scan after the hit whose sort values are after.
// Skip requests leave out _source; only the sort values are needed.
func afterBody(f catalog.ProductFilter, sort catalog.SortKey, size int, after json.RawMessage, source bool) body {
	b := body{
		"query": boolFilter(filterClauses(f)...),
		"sort":  sortClauses(sort),
		"size":  size,
	}
	if after != nil {
		b["search_after"] = after
	}
	if !source {
		b["_source"] = false
	}
	return b
}

func escapeWildcard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(s)
}
