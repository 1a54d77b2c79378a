// Package pipeline turns a stored contract PDF into a persisted contract
// record: text decode, readability gate, field extraction, persistence.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/helpdesk-core/renewals-tracker/internal/entity"
	"github.com/helpdesk-core/renewals-tracker/internal/extract"
	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/lifecycle"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// Request describes one stored file to process.
type Request struct {
	Stored ingest.StoredFile
	// Force bypasses the readability gate: the contract is created as a
	// draft with no extracted fields instead of being rejected.
	Force      bool
	UploadedBy *uuid.UUID
}

// Outcome is the pipeline's answer. When the gate rejects the file and
// Force was not set, Accepted is false, Contract is nil and Validation
// carries the reason; that is not an error.
type Outcome struct {
	Accepted   bool
	Validation extract.ValidationResult
	Extraction extract.Result
	Contract   *entity.RenewalContract
}

// Processor coordinates the stages. Each stage is injected so tests can
// substitute the PDF decoder without shelling out.
type Processor struct {
	extractor extract.TextExtractor
	chain     *extract.Chain
	contracts repository.ContractRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewProcessor(extractor extract.TextExtractor, chain *extract.Chain, contracts repository.ContractRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor: extractor,
		chain:     chain,
		contracts: contracts,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNow overrides the clock used for status derivation, for tests.
func (p *Processor) SetNow(now func() time.Time) { p.now = now }

// Process runs the full pipeline for one stored file.
func (p *Processor) Process(ctx context.Context, req Request) (Outcome, error) {
	var out Outcome

	// 1) decode text
	textRes, err := p.extractor.Extract(ctx, req.Stored.StoragePath)
	if err != nil {
		p.logger.Warn("pipeline.decode.failed",
			"filename", req.Stored.Filename, "force", req.Force, "error", err)
		out.Validation = extract.UnreadableResult(err)
	} else {
		out.Validation = extract.ValidateText(textRes.Text)
		p.logger.Info("pipeline.decode.ok",
			"filename", req.Stored.Filename,
			"pages", textRes.Pages,
			"chars", out.Validation.CharCount,
			"valid", out.Validation.Valid,
		)
	}

	// 2) readability gate
	if !out.Validation.Valid && !req.Force {
		p.logger.Info("pipeline.gate.rejected",
			"filename", req.Stored.Filename, "chars", out.Validation.CharCount)
		return out, nil
	}

	// 3) field extraction; forced-past files get the NONE sentinel
	if out.Validation.Valid {
		out.Extraction = p.chain.Run(extract.CleanText(textRes.Text))
	} else {
		out.Extraction = extract.NoneResult()
	}

	// 4) payload provenance, checked against its schema before persisting
	payload, err := out.Extraction.PayloadJSON()
	if err != nil {
		return out, err
	}
	if err := extract.ValidateJSONAgainstSchema(extract.BuildPayloadJSONSchema(), payload); err != nil {
		p.logger.Error("pipeline.payload.invalid", "filename", req.Stored.Filename, "error", err)
		return out, err
	}

	// 5) persist
	c := p.buildContract(req, out.Extraction, payload)
	if err := p.contracts.Create(ctx, c); err != nil {
		return out, err
	}

	p.logger.Info("pipeline.contract.created",
		"contract_id", c.ID,
		"strategy", c.ExtractionStrategy,
		"confidence", c.ExtractionConfidence,
		"status", c.Status,
	)
	out.Accepted = true
	out.Contract = c
	return out, nil
}

func (p *Processor) buildContract(req Request, res extract.Result, payload []byte) *entity.RenewalContract {
	today := lifecycle.Midnight(p.now())
	c := &entity.RenewalContract{
		VendorName:  res.Fields.VendorName,
		Description: res.Fields.Description,
		Value:       res.Fields.Value,
		StartDate:   res.Fields.StartDate,
		EndDate:     res.Fields.EndDate,

		Filename:    req.Stored.Filename,
		StoragePath: req.Stored.StoragePath,
		FileSize:    req.Stored.Size,
		ContentHash: req.Stored.Hash,

		Status: lifecycle.StatusFor(res.Fields.EndDate, today),

		ExtractionStrategy:   res.Strategy,
		ExtractionConfidence: res.Confidence,
		ExtractedJSON:        datatypes.JSON(payload),

		UploadedBy: req.UploadedBy,
	}
	if res.Fields.PONumber != "" {
		po := res.Fields.PONumber
		c.PONumber = &po
	}
	return c
}
