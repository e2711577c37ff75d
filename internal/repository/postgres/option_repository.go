package postgres

import (
	"context"
	"errors"
	"fmt"

	"wildNest/business/question"
	"wildNest/business/recommendation"
	"wildNest/domain"

	"gorm.io/gorm"
)

type OptionRepository struct {
	DB *gorm.DB
}

var (
	_ question.OptionRepository       = (*OptionRepository)(nil)
	_ recommendation.OptionRepository = (*OptionRepository)(nil)
)

func NewOptionRepository(db *gorm.DB) *OptionRepository {
	return &OptionRepository{
		DB: db,
	}
}

func (r *OptionRepository) Create(ctx context.Context, option *domain.Option) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(option).Error; err != nil {
		return fmt.Errorf("failed to create option: %w", err)
	}

	return nil
}

func (r *OptionRepository) FindByID(ctx context.Context, id uint64) (domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return domain.Option{}, fmt.Errorf("context error: %w", err)
	}

	var option domain.Option

	err := r.DB.WithContext(ctx).First(&option, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Option{}, domain.ErrOptionNotFound
		}
		return domain.Option{}, fmt.Errorf("failed to find option: %w", err)
	}

	return option, nil
}

// FindAll loads every option regardless of status. Answers referencing a
// since-disabled option still resolve their tags and weight.
func (r *OptionRepository) FindAll(ctx context.Context) ([]domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var options []domain.Option
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to find options: %w", err)
	}

	return options, nil
}

func (r *OptionRepository) FindByQuestionID(ctx context.Context, questionID uint64) ([]domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var options []domain.Option
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("sort_order ASC, id ASC").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find options: %w", err)
	}

	return options, nil
}

func (r *OptionRepository) Update(ctx context.Context, option *domain.Option) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Option{}).Where("id = ?", option.ID).Updates(map[string]interface{}{
		"question_id":  option.QuestionID,
		"content":      option.Content,
		"weight_value": option.WeightValue,
		"tag_keywords": option.TagKeywords,
		"sort_order":   option.SortOrder,
		"is_active":    option.IsActive,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOptionNotFound
	}

	return nil
}

func (r *OptionRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Option{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOptionNotFound
	}

	return nil
}

func (r *OptionRepository) SetStatus(ctx context.Context, ids []uint64, active bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Model(&domain.Option{}).Where("id IN ?", ids).Update("is_active", active).Error
	if err != nil {
		return fmt.Errorf("failed to update option status: %w", err)
	}

	return nil
}
