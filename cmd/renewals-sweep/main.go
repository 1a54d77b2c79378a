// renewals-sweep runs one reminder sweep against the configured database
// and exits. Useful for cron-style deployments and for re-running a day
// whose in-process trigger was missed.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/notify"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
	"github.com/helpdesk-core/renewals-tracker/internal/scheduler"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	if err := repository.Migrate(db); err != nil {
		log.Error("migrating database", "error", err)
		os.Exit(1)
	}

	contractsRepo := repository.NewContractRepository(db, log)
	usersRepo := repository.NewUserRepository(db, log)
	notifsRepo := repository.NewNotificationRepository(db, log)

	var email notify.EmailSender = notify.NoopEmailSender{Logger: log}
	if cfg.SMTP.Host != "" {
		email = notify.NewSMTPSender(cfg.SMTP)
	}
	dispatcher := notify.NewDispatcher(usersRepo, notify.NewRepoInAppSender(notifsRepo), email, log)

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Error("loading business timezone", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(contractsRepo, dispatcher, loc, log)
	if err := sched.RunOnce(ctx); err != nil {
		log.Error("sweep failed to start", "error", err)
		os.Exit(1)
	}
	log.Info("sweep complete")
}
