// Package search serves catalog listings from an Elasticsearch index and
// keeps that index in sync with the relational catalog.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

const DefaultIndex = "products"

type Repo struct {
	es     *elasticsearch.Client
	index  string
	window int
	logger *slog.Logger
}

func NewClient(url string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return es, nil
}

func New(es *elasticsearch.Client, index string, logger *slog.Logger) *Repo {
	if index == "" {
		index = DefaultIndex
	}
	return &Repo{es: es, index: index, window: maxResultWindow, logger: logging.OrDiscard(logger).With("component", "search_repo", "index", index)}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source document        `json:"_source"`
			Sort   json.RawMessage `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func (r *Repo) search(ctx context.Context, b body) (*searchResponse, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}
	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}

func (r *Repo) ListProducts(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	var (
		products []domain.Product
		total    int
		err      error
	)
	if end <= r.window {
		var resp *searchResponse
		if resp, err = r.search(ctx, listBody(filter, sort, start, end)); err == nil {
			products, total = hitsToProducts(resp), resp.Hits.Total.Value
		}
	} else {
		products, total, err = r.deepPage(ctx, filter, sort, start, end)
	}
	if err != nil {
		r.logger.Error("list products", "category", filter.CategorySlug, "search", filter.NameContains, "error", err)
		return nil, 0, err
	}
	r.logger.Debug("listed products", "total", total, "start", start, "count", len(products))
	return products, total, nil
}

// deepPage serves a window that ends past the result window. Rows before start
// are skipped with search_after in window-sized steps that fetch sort values only.
func (r *Repo) deepPage(ctx context.Context, filter catalog.ProductFilter, sort catalog.SortKey, start, end int) ([]domain.Product, int, error) {
	resp, err := r.search(ctx, countBody(filter))
	if err != nil {
		return nil, 0, err
	}
	total := resp.Hits.Total.Value
	if start >= total || end <= start {
		return []domain.Product{}, total, nil
	}

	var after json.RawMessage
	for skip := start; skip > 0; {
		step := min(skip, r.window)
		resp, err := r.search(ctx, afterBody(filter, sort, step, after, false))
		if err != nil {
			return nil, 0, err
		}
		hits := resp.Hits.Hits
		if len(hits) == 0 {
			return []domain.Product{}, total, nil
		}
		after = hits[len(hits)-1].Sort
		skip -= len(hits)
		if len(hits) < step {
			return []domain.Product{}, total, nil
		}
	}

	resp, err = r.search(ctx, afterBody(filter, sort, end-start, after, true))
	if err != nil {
		return nil, 0, err
	}
	return hitsToProducts(resp), total, nil
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	resp, err := r.search(ctx, body{
		"query": boolFilter(term("is_active", true), term("slug", slug)),
		"size":  1,
	})
	if err != nil {
		return nil, err
	}
	products := hitsToProducts(resp)
	if len(products) == 0 {
		return nil, domain.ErrNotFound
	}
	return &products[0], nil
}

func (r *Repo) ListFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	resp, err := r.search(ctx, body{
		"query": boolFilter(term("is_active", true), term("is_featured", true)),
		"sort":  sortClauses(catalog.SortNewest),
		"size":  limit,
	})
	if err != nil {
		return nil, err
	}
	return hitsToProducts(resp), nil
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	res, err := r.es.Indices.Exists([]string{r.index}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: status %d", r.index, res.StatusCode)
	}

	res, err = r.es.Indices.Create(r.index,
		r.es.Indices.Create.WithContext(ctx),
		r.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	r.logger.Info("created index")
	return nil
}

// Index upserts products by id in one bulk request and refreshes the index.
func (r *Repo) Index(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	payload, err := bulkBody(products)
	if err != nil {
		return err
	}
	res, err := r.es.Bulk(bytes.NewReader(payload),
		r.es.Bulk.WithContext(ctx),
		r.es.Bulk.WithIndex(r.index),
		r.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}

	var summary struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&summary); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if summary.Errors {
		return errors.New("bulk index: some documents were rejected")
	}
	r.logger.Info("indexed products", "count", len(products))
	return nil
}

func bulkBody(products []domain.Product) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		if err := enc.Encode(body{"index": body{"_id": p.ID}}); err != nil {
			return nil, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(toDocument(p)); err != nil {
			return nil, fmt.Errorf("encode product %s: %w", p.Slug, err)
		}
	}
	return buf.Bytes(), nil
}

func hitsToProducts(resp *searchResponse) []domain.Product {
	products := make([]domain.Product, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		products = append(products, h.Source.product())
	}
	return products
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
