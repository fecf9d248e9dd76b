package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/importer"
	"petrugs-storefront/internal/logging"
	"petrugs-storefront/internal/repository/category"
	"petrugs-storefront/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a category or product CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "importer")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Error("open file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, logger), category.NewPostgres(pool, logger), logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Error("import failed", "imported", count, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d rows from %s in %s\n", count, filePath, time.Since(start).Truncate(time.Millisecond))
}
