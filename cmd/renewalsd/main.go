// renewalsd is the renewal-tracking daemon: HTTP API plus the daily
// reminder sweep.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/contracts"
	"github.com/helpdesk-core/renewals-tracker/internal/export"
	"github.com/helpdesk-core/renewals-tracker/internal/extract"
	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/notify"
	"github.com/helpdesk-core/renewals-tracker/internal/pipeline"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
	"github.com/helpdesk-core/renewals-tracker/internal/scheduler"
	"github.com/helpdesk-core/renewals-tracker/internal/server"
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

	if err := repository.HealthCheck(ctx, pool, 3*time.Second, log); err != nil {
		log.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(db); err != nil {
		log.Error("migrating database", "error", err)
		os.Exit(1)
	}

	contractsRepo := repository.NewContractRepository(db, log)
	usersRepo := repository.NewUserRepository(db, log)
	notifsRepo := repository.NewNotificationRepository(db, log)

	store, err := ingest.NewFileStore(cfg.Storage.UploadDir, log)
	if err != nil {
		log.Error("creating file store", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewPDFTextExtractor(extract.PDFTextConfig{Pdftotext: cfg.Storage.Pdftotext}, log)
	proc := pipeline.NewProcessor(extractor, extract.DefaultChain(log), contractsRepo, log)

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
	trigger := scheduler.NewDailyTrigger(sched, cfg.Scheduler.RunAt, loc, log)
	go trigger.Start(ctx)

	srv := server.New(server.Deps{
		Contracts:     contracts.NewService(contractsRepo, log),
		Processor:     proc,
		Store:         store,
		Scheduler:     sched,
		Exporter:      export.NewService(contractsRepo, log),
		Notifications: notifsRepo,
		Users:         usersRepo,
		Health: func(ctx context.Context) error {
			return repository.HealthCheck(ctx, pool, 2*time.Second, log)
		},
		Logger: log,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	log.Info("stopped")
}
