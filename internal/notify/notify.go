// Package notify fans renewal reminders out to administrators over the
// in-app and email channels.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/internal/entity"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// Payload describes one reminder for one contract.
type Payload struct {
	ContractID uuid.UUID
	VendorName string
	PONumber   string
	EndDate    time.Time
	DaysLeft   int
	Urgency    string
}

func (p Payload) Title() string {
	return fmt.Sprintf("[%s] Contract with %s expires in %d day(s)", p.Urgency, p.VendorName, p.DaysLeft)
}

func (p Payload) Body() string {
	b := fmt.Sprintf("The contract with %s expires on %s.", p.VendorName, p.EndDate.Format("2006-01-02"))
	if p.PONumber != "" {
		b += fmt.Sprintf(" Purchase order: %s.", p.PONumber)
	}
	b += " Review it in the helpdesk and acknowledge once a renewal decision has been made."
	return b
}

// InAppSender delivers a reminder to a single user's in-app inbox.
type InAppSender interface {
	Send(ctx context.Context, user *entity.User, p Payload) error
}

// EmailSender delivers an email. Transport details (SMTP, provider API)
// live behind this interface; timeouts are the implementation's problem.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DispatchStats summarizes one contract's fan-out.
type DispatchStats struct {
	Admins   int
	InAppOK  int
	EmailOK  int
	Failures int
}

// AdminNotifier is what the scheduler depends on. A non-nil error means the
// recipient list could not be resolved and no delivery was attempted;
// per-admin delivery failures are reported through DispatchStats instead.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, p Payload) (DispatchStats, error)
}

// Dispatcher sends a payload to every administrator, sequentially. A
// failure for one admin is logged and never aborts the remaining admins;
// the caller latches the reminder flag after all attempts either way.
type Dispatcher struct {
	users  repository.UserRepository
	inApp  InAppSender
	email  EmailSender
	logger *slog.Logger
}

func NewDispatcher(users repository.UserRepository, inApp InAppSender, email EmailSender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{users: users, inApp: inApp, email: email, logger: logger}
}

func (d *Dispatcher) NotifyAdmins(ctx context.Context, p Payload) (DispatchStats, error) {
	var stats DispatchStats

	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		d.logger.Error("notify.admins.lookup_failed", "contract_id", p.ContractID, "error", err)
		return stats, fmt.Errorf("list admins: %w", err)
	}
	stats.Admins = len(admins)

	for _, admin := range admins {
		if err := d.inApp.Send(ctx, admin, p); err != nil {
			stats.Failures++
			d.logger.Error("notify.inapp.failed",
				"contract_id", p.ContractID, "user_id", admin.ID, "error", err)
		} else {
			stats.InAppOK++
		}

		if admin.Email == "" {
			continue
		}
		if err := d.email.Send(ctx, admin.Email, p.Title(), p.Body()); err != nil {
			stats.Failures++
			d.logger.Error("notify.email.failed",
				"contract_id", p.ContractID, "user_id", admin.ID, "error", err)
		} else {
			stats.EmailOK++
		}
	}

	d.logger.Info("notify.contract.done",
		"contract_id", p.ContractID,
		"urgency", p.Urgency,
		"admins", stats.Admins,
		"inapp_ok", stats.InAppOK,
		"email_ok", stats.EmailOK,
		"failures", stats.Failures,
	)
	return stats, nil
}
