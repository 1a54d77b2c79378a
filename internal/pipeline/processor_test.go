package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/helpdesk-core/renewals-tracker/constants"
	"github.com/helpdesk-core/renewals-tracker/internal/extract"
	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

const poFormText = "PURCHASE ORDER PO Number: PO-2025-0042 Vendor: Meridian Networks Ltd " +
	"Description: Annual firewall support renewal Contract Value: $12,500.00 " +
	"Start Date: 2025-01-01 End Date: 2025-12-31"

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, string) (extract.TextExtractionResult, error) {
	if f.err != nil {
		return extract.TextExtractionResult{}, f.err
	}
	return extract.TextExtractionResult{Text: f.text, Pages: 1, Method: "pdftotext"}, nil
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProcessor(t *testing.T, ex extract.TextExtractor) (*Processor, repository.ContractRepository) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := repository.NewContractRepository(db, testLogger())
	p := NewProcessor(ex, extract.DefaultChain(testLogger()), repo, testLogger())
	p.SetNow(func() time.Time { return testNow })
	return p, repo
}

func stored() ingest.StoredFile {
	return ingest.StoredFile{
		Filename:    "meridian-renewal.pdf",
		StoragePath: "/tmp/uploads/abc.pdf",
		Size:        48123,
		Hash:        []byte{0x01, 0x02},
	}
}

func TestProcessExtractsAndPersists(t *testing.T) {
	p, repo := newTestProcessor(t, fakeExtractor{text: poFormText})

	out, err := p.Process(context.Background(), Request{Stored: stored()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !out.Accepted || out.Contract == nil {
		t.Fatalf("upload not accepted: %+v", out.Validation)
	}
	c := out.Contract
	if c.PONumber == nil || *c.PONumber != "PO-2025-0042" {
		t.Errorf("PONumber = %v", c.PONumber)
	}
	if c.VendorName != "Meridian Networks Ltd" {
		t.Errorf("VendorName = %q", c.VendorName)
	}
	if c.ExtractionStrategy != "PO_FORM" {
		t.Errorf("strategy = %q", c.ExtractionStrategy)
	}
	if c.ExtractionConfidence <= 0.7 {
		t.Errorf("confidence = %v", c.ExtractionConfidence)
	}
	// End date 2025-12-31 is more than 30 days past 2025-06-15.
	if c.Status != constants.StatusActive {
		t.Errorf("status = %s, want %s", c.Status, constants.StatusActive)
	}
	if c.Filename != "meridian-renewal.pdf" || c.FileSize != 48123 {
		t.Errorf("file metadata not carried: %+v", c)
	}
	if len(c.ExtractedJSON) == 0 || !strings.Contains(string(c.ExtractedJSON), "PO_FORM") {
		t.Errorf("extraction payload missing: %s", c.ExtractedJSON)
	}

	got, err := repo.GetByID(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("contract not persisted: %v", err)
	}
	if got.VendorName != c.VendorName {
		t.Errorf("persisted vendor = %q", got.VendorName)
	}
}

func TestProcessRejectsScannedImage(t *testing.T) {
	p, repo := newTestProcessor(t, fakeExtractor{text: "short scan"})

	out, err := p.Process(context.Background(), Request{Stored: stored()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Accepted || out.Contract != nil {
		t.Fatal("short text must be rejected without force")
	}
	if out.Validation.Valid {
		t.Fatal("validation should be invalid")
	}
	if !strings.Contains(out.Validation.Message, "scanned image") {
		t.Errorf("message = %q", out.Validation.Message)
	}
	if out.Validation.CharCount != 10 {
		t.Errorf("char count = %d, want 10", out.Validation.CharCount)
	}

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected upload persisted %d contract(s)", len(all))
	}
}

func TestProcessForceBypassesGate(t *testing.T) {
	p, _ := newTestProcessor(t, fakeExtractor{text: "short scan"})

	out, err := p.Process(context.Background(), Request{Stored: stored(), Force: true})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !out.Accepted || out.Contract == nil {
		t.Fatal("force must bypass the gate")
	}
	c := out.Contract
	if c.ExtractionStrategy != constants.StrategyNone {
		t.Errorf("strategy = %q, want %s", c.ExtractionStrategy, constants.StrategyNone)
	}
	if c.ExtractionConfidence != 0 {
		t.Errorf("confidence = %v, want 0", c.ExtractionConfidence)
	}
	if c.Status != constants.StatusDraft {
		t.Errorf("status = %s, want %s", c.Status, constants.StatusDraft)
	}
	if c.EndDate != nil || c.PONumber != nil || c.VendorName != "" {
		t.Errorf("forced contract must have no extracted fields: %+v", c)
	}
}

func TestProcessUnreadableFile(t *testing.T) {
	decodeErr := errors.New("pdftotext: damaged stream")
	p, _ := newTestProcessor(t, fakeExtractor{err: decodeErr})

	out, err := p.Process(context.Background(), Request{Stored: stored()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Accepted {
		t.Fatal("unreadable file must be rejected without force")
	}
	if out.Validation.CharCount != 0 {
		t.Errorf("char count = %d, want 0", out.Validation.CharCount)
	}
	if !strings.Contains(out.Validation.Message, "corrupt or encrypted") {
		t.Errorf("message = %q must distinguish unreadable from scanned", out.Validation.Message)
	}

	// Force still creates the draft record so the file is tracked.
	out, err = p.Process(context.Background(), Request{Stored: stored(), Force: true})
	if err != nil {
		t.Fatalf("forced Process: %v", err)
	}
	if !out.Accepted || out.Contract.Status != constants.StatusDraft {
		t.Fatalf("forced unreadable upload: %+v", out)
	}
}

func TestProcessStatusFromEndDate(t *testing.T) {
	// End date ten days out: within the expiring-soon horizon.
	text := "PURCHASE ORDER PO Number: PO-9 Vendor: Acme Facilities " +
		"Contract Value: $900.00 End Date: 2025-06-25 plus filler text so the " +
		"readability gate sees enough characters to pass this document through"
	p, _ := newTestProcessor(t, fakeExtractor{text: text})

	out, err := p.Process(context.Background(), Request{Stored: stored()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !out.Accepted {
		t.Fatalf("not accepted: %+v", out.Validation)
	}
	if out.Contract.Status != constants.StatusExpiringSoon {
		t.Errorf("status = %s, want %s", out.Contract.Status, constants.StatusExpiringSoon)
	}
}
