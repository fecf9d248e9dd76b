package main

import (
	"context"
	"os"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/logging"
	categoryrepo "petrugs-storefront/internal/repository/category"
	productrepo "petrugs-storefront/internal/repository/product"
	"petrugs-storefront/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	err = seed.Apply(ctx, categoryrepo.NewPostgres(pool, logger), productrepo.NewPostgres(pool, logger))
	if err != nil {
		logger.Error("seed apply", "error", err)
		os.Exit(1)
	}

	logger.Info("seed applied", "categories", len(seed.Categories()), "products", len(seed.Products()))
}
