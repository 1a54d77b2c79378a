// dbhealth verifies database connectivity and prints a row count, for
// deploy-time smoke checks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if cfg.Database.DSN == "" {
		log.Error("DB_URL env var is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, log)
	if err != nil {
		log.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, log)

	if err := repository.HealthCheck(ctx, pool, time.Second, log); err != nil {
		log.Error("database health: FAIL", "error", err)
		os.Exit(1)
	}
	log.Info("database health: OK")

	contracts, err := repository.NewContractRepository(db, log).List(ctx)
	if err != nil {
		log.Error("listing contracts", "error", err)
		os.Exit(1)
	}
	log.Info("contracts in register", "count", len(contracts))
}
