package main

import (
	"context"
	"flag"
	"os"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/logging"
	productrepo "petrugs-storefront/internal/repository/product"
	"petrugs-storefront/internal/repository/search"
)

func main() {
	batch := flag.Int("batch", 500, "Products per bulk request")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "reindex")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	es, err := search.NewClient(cfg.ElasticsearchURL)
	if err != nil {
		logger.Error("init elasticsearch", "error", err)
		os.Exit(1)
	}

	repo := search.New(es, cfg.ElasticsearchIndex, logger)
	n, err := repo.Reindex(ctx, productrepo.NewPostgres(pool, logger), *batch)
	if err != nil {
		logger.Error("reindex failed", "indexed", n, "error", err)
		os.Exit(1)
	}
	logger.Info("reindexed products", "count", n, "index", cfg.ElasticsearchIndex)
}
