// Package contracts holds the business logic for manual contract
// management: creation, edits, acknowledgment.
package contracts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-core/renewals-tracker/constants"
	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/entity"
	"github.com/helpdesk-core/renewals-tracker/internal/lifecycle"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// Service handles contract business logic above the repository.
type Service struct {
	contracts repository.ContractRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(contracts repository.ContractRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{contracts: contracts, logger: logger, now: time.Now}
}

// SetNow overrides the clock, for tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

// CreateRequest is manual contract entry. Dates are YYYY-MM-DD strings so
// the API surface matches the extraction payload format.
type CreateRequest struct {
	PONumber    string   `json:"po_number"`
	VendorName  string   `json:"vendor_name"`
	Description string   `json:"description"`
	Value       *float64 `json:"value"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	CreatedBy   *uuid.UUID
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.RenewalContract, error) {
	v := common.NewValidator()
	v.Field("vendor_name", req.VendorName, common.Required, common.MaxLength(200))
	v.Field("po_number", req.PONumber, common.MaxLength(64))
	v.Field("description", req.Description, common.MaxLength(2000))
	v.Field("start_date", req.StartDate, common.DateYMD)
	v.Field("end_date", req.EndDate, common.DateYMD)
	if err := v.Error(); err != nil {
		return nil, err
	}

	start, err := parseYMD(req.StartDate)
	if err != nil {
		return nil, common.NewAppError("VALIDATION_ERROR", "start_date: "+err.Error(), common.ErrValidation)
	}
	end, err := parseYMD(req.EndDate)
	if err != nil {
		return nil, common.NewAppError("VALIDATION_ERROR", "end_date: "+err.Error(), common.ErrValidation)
	}

	today := lifecycle.Midnight(s.now())
	c := &entity.RenewalContract{
		VendorName:  strings.TrimSpace(req.VendorName),
		Description: strings.TrimSpace(req.Description),
		Value:       req.Value,
		StartDate:   start,
		EndDate:     end,
		Status:      lifecycle.StatusFor(end, today),

		// Manual entry is trusted input.
		ExtractionStrategy:   constants.StrategyManual,
		ExtractionConfidence: 1.0,

		UploadedBy: req.CreatedBy,
	}
	if po := strings.TrimSpace(req.PONumber); po != "" {
		c.PONumber = &po
	}

	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("contract created manually", "contract_id", c.ID, "vendor", c.VendorName, "status", c.Status)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.RenewalContract, error) {
	return s.contracts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*entity.RenewalContract, error) {
	return s.contracts.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contracts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contract deleted", "contract_id", id)
	return nil
}

// UpdateRequest carries optional field edits. Nil pointers leave the field
// untouched; empty strings clear it.
type UpdateRequest struct {
	PONumber    *string  `json:"po_number"`
	VendorName  *string  `json:"vendor_name"`
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

// Update applies field edits. Changing the end date recomputes the status
// immediately and resets all four reminder flags, so the new date gets its
// own full reminder sequence.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*entity.RenewalContract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v := common.NewValidator()
	if req.VendorName != nil {
		v.Field("vendor_name", *req.VendorName, common.Required, common.MaxLength(200))
	}
	if req.PONumber != nil {
		v.Field("po_number", *req.PONumber, common.MaxLength(64))
	}
	if req.Description != nil {
		v.Field("description", *req.Description, common.MaxLength(2000))
	}
	if req.StartDate != nil {
		v.Field("start_date", *req.StartDate, common.DateYMD)
	}
	if req.EndDate != nil {
		v.Field("end_date", *req.EndDate, common.DateYMD)
	}
	if err := v.Error(); err != nil {
		return nil, err
	}

	if req.VendorName != nil {
		c.VendorName = strings.TrimSpace(*req.VendorName)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Value != nil {
		c.Value = req.Value
	}
	if req.PONumber != nil {
		if po := strings.TrimSpace(*req.PONumber); po == "" {
			c.PONumber = nil
		} else {
			c.PONumber = &po
		}
	}
	if req.StartDate != nil {
		start, err := parseYMD(*req.StartDate)
		if err != nil {
			return nil, common.NewAppError("VALIDATION_ERROR", "start_date: "+err.Error(), common.ErrValidation)
		}
		c.StartDate = start
	}

	if req.EndDate != nil {
		end, err := parseYMD(*req.EndDate)
		if err != nil {
			return nil, common.NewAppError("VALIDATION_ERROR", "end_date: "+err.Error(), common.ErrValidation)
		}
		if !sameDate(c.EndDate, end) {
			c.EndDate = end
			c.ReminderD60Sent = false
			c.ReminderD30Sent = false
			c.ReminderD7Sent = false
			c.ReminderD1Sent = false
			s.logger.Info("end date changed; reminder flags reset", "contract_id", c.ID)
		}
	}

	c.Status = lifecycle.StatusFor(c.EndDate, lifecycle.Midnight(s.now()))

	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Acknowledge marks a contract as handled: reminders stop until it is
// unacknowledged or its end date changes.
func (s *Service) Acknowledge(ctx context.Context, id, by uuid.UUID) (*entity.RenewalContract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsAcknowledged {
		return nil, common.NewAppError("ALREADY_ACKNOWLEDGED", "contract is already acknowledged", common.ErrConflict)
	}
	now := s.now().UTC()
	c.IsAcknowledged = true
	c.AcknowledgedAt = &now
	c.AcknowledgedBy = &by
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("contract acknowledged", "contract_id", id, "by", by)
	return c, nil
}

func (s *Service) Unacknowledge(ctx context.Context, id uuid.UUID) (*entity.RenewalContract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsAcknowledged {
		return nil, common.NewAppError("NOT_ACKNOWLEDGED", "contract is not acknowledged", common.ErrConflict)
	}
	c.IsAcknowledged = false
	c.AcknowledgedAt = nil
	c.AcknowledgedBy = nil
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("contract unacknowledged", "contract_id", id)
	return c, nil
}

func parseYMD(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
