package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListAdmins(ctx context.Context) ([]*entity.User, error)
}

type userRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserRepository(db *gorm.DB, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		r.logger.Error("failed to create user", "name", u.Name, "error", err)
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]*entity.User, error) {
	var out []*entity.User
	if err := r.db.WithContext(ctx).Where("is_admin = ?", true).Order("name").Find(&out).Error; err != nil {
		r.logger.Error("failed to list admins", "error", err)
		return nil, err
	}
	return out, nil
}
