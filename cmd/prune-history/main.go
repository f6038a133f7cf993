package main

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-notifier/config"
	"github.com/marcelsud/webhook-notifier/history/postgres"
	flag "github.com/spf13/pflag"
)

/*
prune-history removes PostgreSQL history items older than a retention window

Run with:
  go run cmd/prune-history/main.go --older-than 720h

Uses POSTGRES_DSN from .env or the environment. Redis history expires on its own
through HISTORY_RETENTION_HOURS.
*/

func main() {
	olderThan := flag.Duration("older-than", 0, "remove items created before now minus this duration (defaults to HISTORY_RETENTION_HOURS)")
	flag.Parse()

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		return
	}
	if cfg.PostgresDSN == "" {
		fmt.Println("❌ POSTGRES_DSN is not set")
		return
	}

	retention := *olderThan
	if retention == 0 {
		retention = cfg.HistoryRetention()
	}
	if retention <= 0 {
		fmt.Println("❌ No retention window: pass --older-than or set HISTORY_RETENTION_HOURS")
		return
	}

	ctx := context.Background()
	repo, err := postgres.NewRepository(cfg.PostgresDSN)
	if err != nil {
		fmt.Printf("❌ Error connecting to PostgreSQL: %v\n", err)
		return
	}
	defer repo.Close(ctx)

	cutoff := time.Now().UTC().Add(-retention)
	removed, err := repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		fmt.Printf("❌ Error pruning history: %v\n", err)
		return
	}
	fmt.Printf("✓ Removed %d history item(s) created before %s\n", removed, cutoff.Format(time.RFC3339))
}
