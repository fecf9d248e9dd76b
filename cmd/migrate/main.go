package main

import (
	"context"
	"os"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/logging"
	"petrugs-storefront/internal/migrate"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Error("read migration version", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)
}
