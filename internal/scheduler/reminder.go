// Package scheduler runs the daily renewal-reminder sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/helpdesk-core/renewals-tracker/constants"
	"github.com/helpdesk-core/renewals-tracker/internal/lifecycle"
	"github.com/helpdesk-core/renewals-tracker/internal/notify"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// ErrRunInProgress is returned when a sweep is triggered while another is
// still running; a second concurrent run could double-dispatch reminders
// before the flag write commits.
var ErrRunInProgress = errors.New("reminder sweep already in progress")

// Scheduler owns the daily sweep: per-threshold reminder dispatch followed
// by a full status recomputation. All durable state lives on the contract
// records, so a run can be repeated safely after a crash.
type Scheduler struct {
	contracts repository.ContractRepository
	notifier  notify.AdminNotifier
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time

	mu sync.Mutex
}

func New(contracts repository.ContractRepository, notifier notify.AdminNotifier, loc *time.Location, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		contracts: contracts,
		notifier:  notifier,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// SetNow overrides the clock, for tests and the manual-trigger CLI.
func (s *Scheduler) SetNow(now func() time.Time) { s.now = now }

// RunOnce performs one full sweep: each lead-time threshold in descending
// order, then the status recomputation pass. A failing phase is logged and
// the run continues; RunOnce itself only errors when it could not start.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}
	defer s.mu.Unlock()

	today := lifecycle.Midnight(s.now().In(s.loc))
	start := time.Now()
	s.logger.Info("scheduler.run.start", "today", today.Format("2006-01-02"))

	for _, threshold := range constants.ReminderThresholds {
		th := threshold
		s.runPhase(fmt.Sprintf("threshold_%d", th), func() error {
			return s.processThreshold(ctx, today, th)
		})
	}

	s.runPhase("recompute_statuses", func() error {
		return s.recomputeStatuses(ctx, today)
	})

	s.logger.Info("scheduler.run.done", "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// runPhase isolates one phase: an error or panic is logged and swallowed so
// later phases and the next day's run are unaffected.
func (s *Scheduler) runPhase(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler.phase.panic", "phase", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		s.logger.Error("scheduler.phase.failed", "phase", name, "error", err)
	}
}

// processThreshold notifies for contracts expiring exactly threshold days
// from today, then latches their flag. Contracts are handled sequentially
// so failure isolation stays simple and logging stays ordered.
func (s *Scheduler) processThreshold(ctx context.Context, today time.Time, threshold int) error {
	winStart := today.AddDate(0, 0, threshold)
	winEnd := winStart.AddDate(0, 0, 1)

	due, err := s.contracts.ListDueForReminder(ctx, winStart, winEnd, threshold)
	if err != nil {
		return fmt.Errorf("query due contracts: %w", err)
	}
	s.logger.Info("scheduler.threshold.start",
		"threshold", threshold, "window", winStart.Format("2006-01-02"), "matched", len(due))

	for _, c := range due {
		payload := notify.Payload{
			ContractID: c.ID,
			VendorName: c.VendorName,
			EndDate:    *c.EndDate,
			DaysLeft:   threshold,
			Urgency:    constants.UrgencyForThreshold(threshold),
		}
		if c.PONumber != nil {
			payload.PONumber = *c.PONumber
		}

		// Every admin is attempted regardless of individual delivery
		// failures; the flag is latched afterwards either way. That is the
		// durability point keeping this threshold from firing again
		// tomorrow. A failed recipient lookup is different: nothing was
		// attempted, so the flag stays clear and the next run retries.
		stats, err := s.notifier.NotifyAdmins(ctx, payload)
		if err != nil {
			s.logger.Error("scheduler.notify.skipped",
				"contract_id", c.ID, "threshold", threshold, "error", err)
			continue
		}

		if err := s.contracts.MarkReminderSent(ctx, c.ID, threshold); err != nil {
			s.logger.Error("scheduler.flag.failed",
				"contract_id", c.ID, "threshold", threshold, "error", err)
			continue
		}
		s.logger.Info("scheduler.reminder.sent",
			"contract_id", c.ID, "threshold", threshold,
			"admins", stats.Admins, "failures", stats.Failures)
	}
	return nil
}

// recomputeStatuses re-derives the status of every contract with an end
// date and persists only the ones that changed. Running it twice in a row
// produces no further writes.
func (s *Scheduler) recomputeStatuses(ctx context.Context, today time.Time) error {
	rows, err := s.contracts.ListWithEndDate(ctx)
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}
	changed := 0
	for _, c := range rows {
		want := lifecycle.CalculateStatus(*c.EndDate, today)
		if c.Status == want {
			continue
		}
		if err := s.contracts.UpdateStatus(ctx, c.ID, want); err != nil {
			s.logger.Error("scheduler.status.update_failed", "contract_id", c.ID, "error", err)
			continue
		}
		changed++
	}
	s.logger.Info("scheduler.recompute.done", "contracts", len(rows), "changed", changed)
	return nil
}
