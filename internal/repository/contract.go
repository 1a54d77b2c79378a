package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helpdesk-core/renewals-tracker/constants"
	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/entity"
)

// ContractRepository is the persistence boundary for renewal contracts.
// Durable state (status, reminder latches, acknowledgment) lives here, not
// in process memory, so the nightly sweep is safely restartable.
type ContractRepository interface {
	Create(ctx context.Context, c *entity.RenewalContract) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RenewalContract, error)
	List(ctx context.Context) ([]*entity.RenewalContract, error)
	Save(ctx context.Context, c *entity.RenewalContract) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDueForReminder selects contracts whose end date falls in
	// [windowStart, windowEnd), excluding drafts, contracts already
	// reminded at this threshold, and acknowledged contracts.
	ListDueForReminder(ctx context.Context, windowStart, windowEnd time.Time, threshold int) ([]*entity.RenewalContract, error)

	// MarkReminderSent latches the flag for one threshold. Never unsets.
	MarkReminderSent(ctx context.Context, id uuid.UUID, threshold int) error

	ListWithEndDate(ctx context.Context) ([]*entity.RenewalContract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ContractStatus) error
}

type contractRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewContractRepository(db *gorm.DB, logger *slog.Logger) ContractRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &contractRepository{db: db, logger: logger}
}

func reminderColumn(threshold int) (string, error) {
	switch threshold {
	case 60:
		return "reminder_d60_sent", nil
	case 30:
		return "reminder_d30_sent", nil
	case 7:
		return "reminder_d7_sent", nil
	case 1:
		return "reminder_d1_sent", nil
	}
	return "", fmt.Errorf("unknown reminder threshold: %d", threshold)
}

func (r *contractRepository) Create(ctx context.Context, c *entity.RenewalContract) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.logger.Error("failed to create contract", "vendor", c.VendorName, "error", err)
		return common.WrapError(err, "create contract")
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RenewalContract, error) {
	var c entity.RenewalContract
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get contract", "contract_id", id, "error", err)
		return nil, err
	}
	return &c, nil
}

func (r *contractRepository) List(ctx context.Context) ([]*entity.RenewalContract, error) {
	var out []*entity.RenewalContract
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		r.logger.Error("failed to list contracts", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *contractRepository) Save(ctx context.Context, c *entity.RenewalContract) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		r.logger.Error("failed to save contract", "contract_id", c.ID, "error", err)
		return common.WrapError(err, "save contract")
	}
	return nil
}

func (r *contractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.RenewalContract{}, "id = ?", id)
	if res.Error != nil {
		r.logger.Error("failed to delete contract", "contract_id", id, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *contractRepository) ListDueForReminder(ctx context.Context, windowStart, windowEnd time.Time, threshold int) ([]*entity.RenewalContract, error) {
	col, err := reminderColumn(threshold)
	if err != nil {
		return nil, err
	}
	var out []*entity.RenewalContract
	err = r.db.WithContext(ctx).
		Where("end_date >= ? AND end_date < ?", windowStart, windowEnd).
		Where("status <> ?", constants.StatusDraft).
		Where(col+" = ?", false).
		Where("is_acknowledged = ?", false).
		Order("end_date, created_at").
		Find(&out).Error
	if err != nil {
		r.logger.Error("failed to query due contracts", "threshold", threshold, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *contractRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, threshold int) error {
	col, err := reminderColumn(threshold)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&entity.RenewalContract{}).
		Where("id = ?", id).
		Update(col, true)
	if res.Error != nil {
		r.logger.Error("failed to mark reminder sent", "contract_id", id, "threshold", threshold, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *contractRepository) ListWithEndDate(ctx context.Context) ([]*entity.RenewalContract, error) {
	var out []*entity.RenewalContract
	if err := r.db.WithContext(ctx).Where("end_date IS NOT NULL").Find(&out).Error; err != nil {
		r.logger.Error("failed to list contracts with end date", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ContractStatus) error {
	res := r.db.WithContext(ctx).
		Model(&entity.RenewalContract{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		r.logger.Error("failed to update contract status", "contract_id", id, "status", status, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
