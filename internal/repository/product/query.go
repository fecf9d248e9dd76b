package product

import (
	"fmt"
	"strings"

	"petrugs-storefront/internal/catalog"
)

type queryBuilder struct {
	conditions []string
	args       []any
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{conditions: []string{"p.is_active = true"}}
}

// add appends a condition whose single %d verb is the next placeholder index.
func (qb *queryBuilder) add(condition string, arg any) {
	qb.args = append(qb.args, arg)
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, len(qb.args)))
}

func (qb *queryBuilder) where() string {
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func applyFilter(f catalog.ProductFilter) *queryBuilder {
	qb := newQueryBuilder()
	if f.CategorySlug != "" {
		qb.add("c.slug = $%d", f.CategorySlug)
	}
	if f.NameContains != "" {
		qb.add(`p.name ILIKE $%d ESCAPE '\'`, "%"+escapeLike(f.NameContains)+"%")
	}
	return qb
}

// orderBy sorts on the base price column, never the sale price. Every key
// ends with the id so equal values keep a stable order across pages.
func orderBy(sort catalog.SortKey) string {
	switch sort {
	case catalog.SortName:
		return "ORDER BY p.name ASC, p.id ASC"
	case catalog.SortPriceLow:
		return "ORDER BY p.price ASC, p.id ASC"
	case catalog.SortPriceHigh:
		return "ORDER BY p.price DESC, p.id ASC"
	default:
		return "ORDER BY p.created_at DESC, p.id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a search term match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
