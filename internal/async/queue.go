// Package async provides the bounded worker queue behind batch ingestion.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/pipeline"
)

// Job is one file to bring into the system.
type Job struct {
	Path        string
	Force       bool
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// ProcessorQueue runs jobs through the store-then-process pipeline on a
// fixed pool of workers.
type ProcessorQueue struct {
	store   *ingest.FileStore
	proc    *pipeline.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(store *ingest.FileStore, proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		store:   store,
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	stored, err := q.store.SaveLocal(job.Path)
	if err != nil {
		q.logger.Error("store failed", "worker_id", workerID, "path", job.Path, "error", err)
		return
	}

	out, err := q.proc.Process(ctx, pipeline.Request{Stored: stored, Force: job.Force})
	switch {
	case err != nil:
		q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "error", err)
	case !out.Accepted:
		q.logger.Warn("file rejected by readability gate",
			"worker_id", workerID, "path", job.Path, "reason", out.Validation.Message)
	default:
		q.logger.Info("file processed",
			"worker_id", workerID, "path", job.Path,
			"contract_id", out.Contract.ID, "strategy", out.Contract.ExtractionStrategy)
	}
}

func (q *ProcessorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued file for processing", "path", job.Path, "force", job.Force)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
