package postgres

import (
	"context"
	"errors"
	"fmt"

	"wildNest/business/question"
	"wildNest/domain"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

var _ question.QuestionRepository = (*QuestionRepository)(nil)

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{
		DB: db,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// options are managed through their own endpoints
	if err := r.DB.WithContext(ctx).Omit("Options").Create(q).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint64) (domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return domain.Question{}, fmt.Errorf("context error: %w", err)
	}

	var q domain.Question

	err := r.DB.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Question{}, domain.ErrQuestionNotFound
		}
		return domain.Question{}, fmt.Errorf("failed to find question: %w", err)
	}

	return q, nil
}

func (r *QuestionRepository) FindAll(ctx context.Context, activeOnly bool) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("sort_order ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var questions []domain.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}

	return questions, nil
}

func (r *QuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Question{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
		"title":         q.Title,
		"description":   q.Description,
		"question_type": q.QuestionType,
		"sort_order":    q.SortOrder,
		"is_active":     q.IsActive,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrQuestionNotFound
	}

	return nil
}

// Delete removes the question together with its options.
func (r *QuestionRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&domain.Option{}).Error; err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}

		result := tx.Delete(&domain.Question{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrQuestionNotFound
		}
		return nil
	})
}

func (r *QuestionRepository) SetStatus(ctx context.Context, ids []uint64, active bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Model(&domain.Question{}).Where("id IN ?", ids).Update("is_active", active).Error
	if err != nil {
		return fmt.Errorf("failed to update question status: %w", err)
	}

	return nil
}
