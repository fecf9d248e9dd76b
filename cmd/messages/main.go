package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"petrugs-storefront/internal/config"
	"petrugs-storefront/internal/db"
	"petrugs-storefront/internal/logging"
	contactrepo "petrugs-storefront/internal/repository/contact"
	contactsvc "petrugs-storefront/internal/service/contact"
)

func main() {
	limit := flag.Int("limit", 20, "Number of messages to show, newest first")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("component", "messages")
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := contactsvc.New(contactrepo.NewPostgres(pool, logger), nil, logger)
	messages, err := svc.Recent(ctx, *limit)
	if err != nil {
		logger.Error("list messages", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIVED\tFROM\tSUBJECT\tMESSAGE")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Name, m.Email, m.Subject, m.Message)
	}
	w.Flush()
}
