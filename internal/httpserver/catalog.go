package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	productsvc "petrugs-storefront/internal/service/product"
)

func listCategoriesHandler(svc categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := svc.List(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"categories": toCategoryResponses(categories)})
	}
}

// listProductsHandler reads ?category=&search=&sort=&page=. A malformed page
// falls back to the first page.
func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		q := svc.Query(catalog.Params{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     c.Query("sort"),
			Page:     page,
		})
		result := svc.List(c.Request.Context(), q)
		c.JSON(http.StatusOK, toProductListResponse(q, result))
	}
}

func getProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("slug"))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		case errors.Is(err, catalog.ErrDataServiceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toProductDetail(*p))
	}
}

func featuredHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := productsvc.FeaturedLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, productsvc.FeaturedLimit)
		}
		products := svc.Featured(c.Request.Context(), limit)
		c.JSON(http.StatusOK, gin.H{"products": toProductSummaries(products)})
	}
}

// homeHandler loads categories and featured products concurrently. Both
// services degrade on their own, so neither half fails the other.
func homeHandler(categories categoryService, products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var resp homeResponse
		var g errgroup.Group
		ctx := c.Request.Context()
		g.Go(func() error {
			resp.Categories = toCategoryResponses(categories.List(ctx))
			return nil
		})
		g.Go(func() error {
			resp.Featured = toProductSummaries(products.Featured(ctx, productsvc.FeaturedLimit))
			return nil
		})
		_ = g.Wait()
		c.JSON(http.StatusOK, resp)
	}
}
