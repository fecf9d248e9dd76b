package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/httpserver"
	"petrugs-storefront/internal/logging"
	"petrugs-storefront/internal/notify"
	categoryrepo "petrugs-storefront/internal/repository/category"
	contactrepo "petrugs-storefront/internal/repository/contact"
	productrepo "petrugs-storefront/internal/repository/product"
	"petrugs-storefront/internal/repository/search"
	categorysvc "petrugs-storefront/internal/service/category"
	contactsvc "petrugs-storefront/internal/service/contact"
	productsvc "petrugs-storefront/internal/service/product"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect to db", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	var productStore productsvc.Store = productrepo.NewPostgres(dbpool, logger)
	if cfg.CatalogBackend == "elasticsearch" {
		es, err := search.NewClient(cfg.ElasticsearchURL)
		if err != nil {
			logger.Error("init elasticsearch", "error", err)
			os.Exit(1)
		}
		productStore = search.New(es, cfg.ElasticsearchIndex, logger)
		logger.Info("serving products from elasticsearch", "url", cfg.ElasticsearchURL, "index", cfg.ElasticsearchIndex)
	}

	var notifier contactsvc.Notifier
	if cfg.AMQPURL != "" {
		publisher, err := notify.Dial(cfg.AMQPURL, cfg.ContactExchange, logger)
		if err != nil {
			logger.Error("connect rabbitmq", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		notifier = publisher
	}

	categoryService := categorysvc.New(categoryRepo, categorysvc.Options{Timeout: cfg.CatalogTimeout, Logger: logger})
	productService := productsvc.New(productStore, productsvc.Options{
		Timeout:  cfg.CatalogTimeout,
		PageSize: cfg.CatalogPageSize,
		Logger:   logger,
	})
	contactService := contactsvc.New(contactrepo.NewPostgres(dbpool, logger), notifier, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CategorySvc: categoryService,
		ProductSvc:  productService,
		ContactSvc:  contactService,
		CORSOrigins: cfg.CORSOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
