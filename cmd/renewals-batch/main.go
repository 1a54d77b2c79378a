// renewals-batch ingests every contract PDF under a directory through the
// extraction pipeline. With -inmem it runs against a throwaway SQLite
// database, which makes it a dry-run tool for new document templates.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/helpdesk-core/renewals-tracker/internal/async"
	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/extract"
	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/pipeline"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

func main() {
	var (
		root    = flag.String("dir", "", "directory of contract PDFs to ingest")
		force   = flag.Bool("force", false, "file unreadable documents as drafts instead of skipping them")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite database (dry run)")
		workers = flag.Int("workers", 4, "concurrent processing workers")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if *root == "" {
		log.Error("-dir is required")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if *inmem {
		var err error
		db, err = repository.OpenSQLite(":memory:")
		if err != nil {
			log.Error("opening in-memory database", "error", err)
			os.Exit(1)
		}
	} else {
		if err := cfg.Validate(); err != nil {
			log.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		gdb, pool, err := repository.Open(ctx, repository.Config{
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
		db = gdb
	}

	if err := repository.Migrate(db); err != nil {
		log.Error("migrating database", "error", err)
		os.Exit(1)
	}

	contractsRepo := repository.NewContractRepository(db, log)
	store, err := ingest.NewFileStore(cfg.Storage.UploadDir, log)
	if err != nil {
		log.Error("creating file store", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewPDFTextExtractor(extract.PDFTextConfig{Pdftotext: cfg.Storage.Pdftotext}, log)
	proc := pipeline.NewProcessor(extractor, extract.DefaultChain(log), contractsRepo, log)

	queue := async.NewProcessorQueue(store, proc, log, async.WithWorkers(*workers))

	files, stats, err := ingest.ScanDirectory(*root)
	if err != nil {
		log.Error("scanning directory", "root", *root, "error", err)
		os.Exit(1)
	}
	log.Info("directory scanned",
		"root", *root, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

	for _, f := range files {
		if f.Err != "" {
			log.Warn("skipping unreadable entry", "path", f.Path, "error", f.Err)
			continue
		}
		_ = queue.Enqueue(ctx, async.Job{Path: f.Path, Force: *force, SubmittedAt: time.Now()})
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	queue.Shutdown(drainCtx)

	all, err := contractsRepo.List(ctx)
	if err != nil {
		log.Error("listing results", "error", err)
		os.Exit(1)
	}
	log.Info("batch complete", "contracts", len(all))
	for _, c := range all {
		log.Info("contract",
			"vendor", c.VendorName,
			"strategy", c.ExtractionStrategy,
			"confidence", c.ExtractionConfidence,
			"status", c.Status,
		)
	}
}
