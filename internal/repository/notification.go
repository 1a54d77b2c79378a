package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helpdesk-core/renewals-tracker/internal/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewNotificationRepository(db *gorm.DB, logger *slog.Logger) NotificationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		r.logger.Error("failed to create notification", "user_id", n.UserID, "contract_id", n.ContractID, "error", err)
		return err
	}
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*entity.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var out []*entity.Notification
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		r.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", now).Error
}
