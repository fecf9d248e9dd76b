package httpserver

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	contactsvc "petrugs-storefront/internal/service/contact"
)

type categoryService interface {
	List(ctx context.Context) []domain.Category
}

type productService interface {
	Query(p catalog.Params) catalog.Query
	List(ctx context.Context, q catalog.Query) catalog.Page
	Get(ctx context.Context, slug string) (*domain.Product, error)
	Featured(ctx context.Context, limit int) []domain.Product
}

type contactService interface {
	Submit(ctx context.Context, in contactsvc.Input) (*domain.ContactMessage, error)
}

// Deps are the services behind the API routes.
type Deps struct {
	CategorySvc categoryService
	ProductSvc  productService
	ContactSvc  contactService
	// CORSOrigins lists allowed browser origins; "*" or empty allows any.
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *slog.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.GET("/categories", listCategoriesHandler(deps.CategorySvc))
	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/:slug", getProductHandler(deps.ProductSvc))
	api.GET("/featured", featuredHandler(deps.ProductSvc))
	api.GET("/home", homeHandler(deps.CategorySvc, deps.ProductSvc))
	api.POST("/contact", contactHandler(deps.ContactSvc))

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", traceHeader},
		ExposeHeaders: []string{traceHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
