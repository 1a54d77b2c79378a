package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
)

// SMTPSender is a thin SMTP client for outbound reminders. Real deployments
// may substitute a provider-backed EmailSender; the scheduler only sees the
// interface.
type SMTPSender struct {
	cfg common.SMTPConfig
}

func NewSMTPSender(cfg common.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.cfg.From, to, subject, body)
	return smtp.SendMail(addr, nil, s.cfg.From, []string{to}, []byte(msg))
}

// NoopEmailSender drops emails, logging at debug level. Used when SMTP is
// not configured.
type NoopEmailSender struct {
	Logger *slog.Logger
}

func (s NoopEmailSender) Send(_ context.Context, to, subject, _ string) error {
	if s.Logger != nil {
		s.Logger.Debug("email disabled; dropping message", "to", to, "subject", subject)
	}
	return nil
}
