package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DailyTrigger fires the sweep once per calendar day at a fixed local time
// in the business timezone. It only decides WHEN; the Scheduler decides
// WHAT, so RunOnce stays directly testable.
type DailyTrigger struct {
	sched  *Scheduler
	runAt  string // "15:04"
	loc    *time.Location
	logger *slog.Logger
}

func NewDailyTrigger(sched *Scheduler, runAt string, loc *time.Location, logger *slog.Logger) *DailyTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DailyTrigger{sched: sched, runAt: runAt, loc: loc, logger: logger}
}

// Start blocks until ctx is cancelled, running the sweep at each daily
// firing time. Callers run it in a goroutine.
func (t *DailyTrigger) Start(ctx context.Context) {
	for {
		next := nextRun(time.Now().In(t.loc), t.runAt)
		t.logger.Info("scheduler.trigger.armed", "next_run", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			t.logger.Info("scheduler.trigger.stopped")
			return
		case <-timer.C:
		}

		if err := t.sched.RunOnce(ctx); err != nil {
			if errors.Is(err, ErrRunInProgress) {
				t.logger.Warn("scheduler.trigger.skipped", "reason", "run in progress")
			} else {
				t.logger.Error("scheduler.trigger.run_failed", "error", err)
			}
		}
	}
}

// nextRun returns the next occurrence of runAt ("15:04") strictly after now,
// in now's location.
func nextRun(now time.Time, runAt string) time.Time {
	at, err := time.Parse("15:04", runAt)
	if err != nil {
		// Config validation rejects malformed values before this runs.
		at = time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
