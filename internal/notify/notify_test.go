package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/internal/entity"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRepos(t *testing.T) (repository.UserRepository, repository.NotificationRepository) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewUserRepository(db, testLogger()), repository.NewNotificationRepository(db, testLogger())
}

func seedAdmin(t *testing.T, users repository.UserRepository, name, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: email, IsAdmin: true}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return u
}

type recordingEmail struct {
	sent []string
	fail map[string]error
}

func (r *recordingEmail) Send(_ context.Context, to, _, _ string) error {
	if err := r.fail[to]; err != nil {
		return err
	}
	r.sent = append(r.sent, to)
	return nil
}

func payload() Payload {
	return Payload{
		ContractID: uuid.New(),
		VendorName: "Meridian Networks Ltd",
		PONumber:   "PO-2025-0042",
		EndDate:    time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		DaysLeft:   7,
		Urgency:    "HIGH",
	}
}

func TestDispatcherFansOutToAllAdmins(t *testing.T) {
	users, notifs := testRepos(t)
	a := seedAdmin(t, users, "Ada", "ada@example.com")
	b := seedAdmin(t, users, "Ben", "ben@example.com")
	seedAdmin(t, users, "Carol", "") // no email configured

	email := &recordingEmail{}
	d := NewDispatcher(users, NewRepoInAppSender(notifs), email, testLogger())

	stats, err := d.NotifyAdmins(context.Background(), payload())
	if err != nil {
		t.Fatalf("NotifyAdmins: %v", err)
	}
	if stats.Admins != 3 || stats.InAppOK != 3 || stats.EmailOK != 2 || stats.Failures != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	for _, u := range []*entity.User{a, b} {
		rows, err := notifs.ListForUser(context.Background(), u.ID, true)
		if err != nil {
			t.Fatalf("ListForUser: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("%s: notifications = %d, want 1", u.Name, len(rows))
		}
		if rows[0].Urgency != "HIGH" || !strings.Contains(rows[0].Body, "PO-2025-0042") {
			t.Errorf("%s: notification = %+v", u.Name, rows[0])
		}
	}
}

func TestDispatcherIsolatesPerAdminFailures(t *testing.T) {
	users, notifs := testRepos(t)
	seedAdmin(t, users, "Ada", "ada@example.com")
	seedAdmin(t, users, "Ben", "ben@example.com")

	email := &recordingEmail{fail: map[string]error{"ada@example.com": errors.New("smtp refused")}}
	d := NewDispatcher(users, NewRepoInAppSender(notifs), email, testLogger())

	stats, err := d.NotifyAdmins(context.Background(), payload())
	if err != nil {
		t.Fatalf("NotifyAdmins: %v", err)
	}
	if stats.Failures != 1 {
		t.Fatalf("failures = %d, want 1", stats.Failures)
	}
	// Ben still got his email despite Ada's failure.
	if stats.EmailOK != 1 || len(email.sent) != 1 || email.sent[0] != "ben@example.com" {
		t.Fatalf("email stats = %+v, sent = %v", stats, email.sent)
	}
	// In-app delivery succeeded for both.
	if stats.InAppOK != 2 {
		t.Fatalf("inapp ok = %d, want 2", stats.InAppOK)
	}
}

// brokenUsers simulates the admin lookup itself failing.
type brokenUsers struct {
	repository.UserRepository
}

func (brokenUsers) ListAdmins(context.Context) ([]*entity.User, error) {
	return nil, errors.New("connection refused")
}

func TestDispatcherReturnsErrorWhenLookupFails(t *testing.T) {
	users, notifs := testRepos(t)
	d := NewDispatcher(brokenUsers{users}, NewRepoInAppSender(notifs), &recordingEmail{}, testLogger())

	stats, err := d.NotifyAdmins(context.Background(), payload())
	if err == nil {
		t.Fatal("lookup failure must surface as an error, not as stats")
	}
	if stats.Admins != 0 || stats.InAppOK != 0 || stats.EmailOK != 0 {
		t.Fatalf("stats after failed lookup = %+v, want zero attempts", stats)
	}
}

func TestPayloadTitleAndBody(t *testing.T) {
	p := payload()
	title := p.Title()
	if !strings.Contains(title, "[HIGH]") || !strings.Contains(title, "7 day") {
		t.Errorf("title = %q", title)
	}
	body := p.Body()
	if !strings.Contains(body, "2025-12-31") || !strings.Contains(body, "PO-2025-0042") {
		t.Errorf("body = %q", body)
	}

	p.PONumber = ""
	if strings.Contains(p.Body(), "Purchase order") {
		t.Error("body must omit PO line when none is set")
	}
}
