package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wildNest/business/admin"
	"wildNest/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository struct {
	DB *gorm.DB
}

var _ admin.AdminRepository = (*AdminRepository)(nil)

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{
		DB: db,
	}
}

// Create is a no-op when the username already exists, so concurrent
// instances can bootstrap the same account.
func (r *AdminRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).
		Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (domain.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdminUser{}, fmt.Errorf("context error: %w", err)
	}

	var user domain.AdminUser

	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdminUser{}, domain.ErrAdminNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("failed to find admin: %w", err)
	}

	return user, nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	if err := ctx.Err(); err != nil {
		return domain.AdminUser{}, fmt.Errorf("context error: %w", err)
	}

	var user domain.AdminUser

	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdminUser{}, domain.ErrAdminNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("failed to find admin: %w", err)
	}

	return user, nil
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Update("last_login_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}

	return nil
}
