package contracts

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/constants"
	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T) (*Service, repository.ContractRepository) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := repository.NewContractRepository(db, testLogger())
	s := NewService(repo, testLogger())
	s.SetNow(func() time.Time { return testNow })
	return s, repo
}

func TestCreateManualContract(t *testing.T) {
	s, _ := newTestService(t)

	val := 9800.0
	c, err := s.Create(context.Background(), CreateRequest{
		PONumber:   "PO-1200",
		VendorName: "  Meridian Networks Ltd  ",
		Value:      &val,
		StartDate:  "2025-01-01",
		EndDate:    "2025-07-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.VendorName != "Meridian Networks Ltd" {
		t.Errorf("vendor = %q", c.VendorName)
	}
	if c.ExtractionStrategy != constants.StrategyManual || c.ExtractionConfidence != 1.0 {
		t.Errorf("manual provenance: strategy=%q confidence=%v", c.ExtractionStrategy, c.ExtractionConfidence)
	}
	// 2025-07-01 is 16 days from 2025-06-15.
	if c.Status != constants.StatusExpiringSoon {
		t.Errorf("status = %s, want %s", c.Status, constants.StatusExpiringSoon)
	}
}

func TestCreateWithoutEndDateIsDraft(t *testing.T) {
	s, _ := newTestService(t)

	c, err := s.Create(context.Background(), CreateRequest{VendorName: "Acme Facilities"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Status != constants.StatusDraft {
		t.Errorf("status = %s, want %s", c.Status, constants.StatusDraft)
	}
	if c.EndDate != nil {
		t.Errorf("end date = %v, want nil", c.EndDate)
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.Create(context.Background(), CreateRequest{VendorName: "   "})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("missing vendor err = %v, want ErrValidation", err)
	}

	_, err = s.Create(context.Background(), CreateRequest{VendorName: "X Corp", EndDate: "31/12/2025"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad date err = %v, want ErrValidation", err)
	}
}

func TestUpdateEndDateResetsReminderFlags(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	c, err := s.Create(ctx, CreateRequest{VendorName: "Meridian Networks Ltd", EndDate: "2025-06-22"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Simulate the sweep having latched two flags.
	if err := repo.MarkReminderSent(ctx, c.ID, 30); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	if err := repo.MarkReminderSent(ctx, c.ID, 7); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}

	newEnd := "2026-06-22"
	got, err := s.Update(ctx, c.ID, UpdateRequest{EndDate: &newEnd})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ReminderD60Sent || got.ReminderD30Sent || got.ReminderD7Sent || got.ReminderD1Sent {
		t.Fatalf("flags not reset after end date change: %+v", got)
	}
	// A year out: status recomputed immediately, not deferred to the sweep.
	if got.Status != constants.StatusActive {
		t.Errorf("status = %s, want %s", got.Status, constants.StatusActive)
	}
}

func TestUpdateSameEndDateKeepsFlags(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	c, err := s.Create(ctx, CreateRequest{VendorName: "Meridian Networks Ltd", EndDate: "2025-06-22"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.MarkReminderSent(ctx, c.ID, 7); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}

	same := "2025-06-22"
	vendor := "Meridian Networks Limited"
	got, err := s.Update(ctx, c.ID, UpdateRequest{EndDate: &same, VendorName: &vendor})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.ReminderD7Sent {
		t.Fatal("unchanged end date must not reset flags")
	}
	if got.VendorName != vendor {
		t.Errorf("vendor = %q", got.VendorName)
	}
}

func TestAcknowledgeLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	admin := uuid.New()

	c, err := s.Create(ctx, CreateRequest{VendorName: "Northwind Supply Co", EndDate: "2025-07-01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Acknowledge(ctx, c.ID, admin)
	if err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if !got.IsAcknowledged || got.AcknowledgedAt == nil || got.AcknowledgedBy == nil || *got.AcknowledgedBy != admin {
		t.Fatalf("acknowledgment not recorded: %+v", got)
	}

	if _, err := s.Acknowledge(ctx, c.ID, admin); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("double acknowledge err = %v, want ErrConflict", err)
	}

	got, err = s.Unacknowledge(ctx, c.ID)
	if err != nil {
		t.Fatalf("Unacknowledge: %v", err)
	}
	if got.IsAcknowledged || got.AcknowledgedAt != nil || got.AcknowledgedBy != nil {
		t.Fatalf("unacknowledge did not clear: %+v", got)
	}

	if _, err := s.Unacknowledge(ctx, c.ID); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("double unacknowledge err = %v, want ErrConflict", err)
	}
}

func TestGetMissingContract(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.Get(context.Background(), uuid.New()); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
