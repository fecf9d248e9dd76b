package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"petrugs-storefront/internal/browse"
	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/logging"
	categoryrepo "petrugs-storefront/internal/repository/category"
	"petrugs-storefront/internal/repository/memory"
	productrepo "petrugs-storefront/internal/repository/product"
	"petrugs-storefront/internal/seed"
	categorysvc "petrugs-storefront/internal/service/category"
	productsvc "petrugs-storefront/internal/service/product"
)

func main() {
	demo := flag.Bool("demo", false, "Browse the built-in demo catalog instead of Postgres")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(logging.Config{Writer: os.Stderr, Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "browse")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		products   productsvc.Store
		categories categorysvc.Store
	)
	if *demo {
		store := memory.New(seed.Categories(), seed.Products())
		products, categories = store, store
	} else {
		pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
		if err != nil {
			logger.Error("connect db", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		products = productrepo.NewPostgres(pool, logger)
		categories = categoryrepo.NewPostgres(pool, logger)
	}

	session := browse.NewSession(
		productsvc.New(products, productsvc.Options{Timeout: cfg.CatalogTimeout, PageSize: cfg.CatalogPageSize, Logger: logger}),
		categorysvc.New(categories, categorysvc.Options{Timeout: cfg.CatalogTimeout, Logger: logger}),
		os.Stdout,
	)
	if err := session.Run(ctx, os.Stdin); err != nil {
		logger.Error("read commands", "error", err)
		os.Exit(1)
	}
}
