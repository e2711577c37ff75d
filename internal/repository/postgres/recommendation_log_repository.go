package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wildNest/business/recommendation"
	"wildNest/domain"

	"gorm.io/gorm"
)

type RecommendationLogRepository struct {
	DB *gorm.DB
}

var _ recommendation.LogRepository = (*RecommendationLogRepository)(nil)

func NewRecommendationLogRepository(db *gorm.DB) *RecommendationLogRepository {
	return &RecommendationLogRepository{
		DB: db,
	}
}

func (r *RecommendationLogRepository) Create(ctx context.Context, entry *domain.RecommendationLog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create recommendation log: %w", err)
	}

	return nil
}

func (r *RecommendationLogRepository) FindByID(ctx context.Context, id uint64) (domain.RecommendationLog, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationLog{}, fmt.Errorf("context error: %w", err)
	}

	var entry domain.RecommendationLog

	err := r.DB.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecommendationLog{}, domain.ErrLogNotFound
		}
		return domain.RecommendationLog{}, fmt.Errorf("failed to find recommendation log: %w", err)
	}

	return entry, nil
}

func (r *RecommendationLogRepository) FindBySessionID(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.RecommendationLog
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find session history: %w", err)
	}

	return entries, nil
}

func (r *RecommendationLogRepository) FindPage(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.RecommendationLog]{}, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.RecommendationLog{})
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.AlgorithmVersion != "" {
		query = query.Where("algorithm_version = ?", filter.AlgorithmVersion)
	}
	if filter.UserFeedback != nil {
		query = query.Where("user_feedback = ?", *filter.UserFeedback)
	}
	if filter.IsTestData != nil {
		query = query.Where("is_test_data = ?", *filter.IsTestData)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return domain.Page[domain.RecommendationLog]{}, fmt.Errorf("failed to count recommendation logs: %w", err)
	}

	var entries []domain.RecommendationLog
	err := query.
		Order("created_at DESC, id DESC").
		Offset(domain.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&entries).Error
	if err != nil {
		return domain.Page[domain.RecommendationLog]{}, fmt.Errorf("failed to find recommendation logs: %w", err)
	}

	return domain.Page[domain.RecommendationLog]{
		Items:    entries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (r *RecommendationLogRepository) UpdateFeedback(ctx context.Context, id uint64, feedback int, reason string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.RecommendationLog{}).Where("id = ?", id).Updates(map[string]interface{}{
		"user_feedback":   feedback,
		"feedback_reason": reason,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update feedback: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrLogNotFound
	}

	return nil
}

// Statistics aggregates over non-test logs. SatisfactionRate is left for
// the caller to derive.
func (r *RecommendationLogRepository) Statistics(ctx context.Context, since time.Time) (domain.RecommendationStatistics, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationStatistics{}, fmt.Errorf("context error: %w", err)
	}

	var stats domain.RecommendationStatistics
	err := r.DB.WithContext(ctx).
		Model(&domain.RecommendationLog{}).
		Select(`COUNT(*) AS total_recommendations,
			COUNT(*) FILTER (WHERE created_at >= ?) AS today_recommendations,
			COUNT(*) FILTER (WHERE user_feedback = ?) AS satisfied_count,
			COUNT(*) FILTER (WHERE user_feedback = ?) AS unsatisfied_count,
			COALESCE(AVG(total_score), 0) AS average_score,
			COALESCE(AVG(execution_time_ms), 0) AS average_execution_time_ms,
			COUNT(DISTINCT user_ip) AS unique_users`,
			since, domain.FeedbackSatisfied, domain.FeedbackUnsatisfied).
		Where("is_test_data = ?", false).
		Scan(&stats).Error
	if err != nil {
		return domain.RecommendationStatistics{}, fmt.Errorf("failed to compute statistics: %w", err)
	}

	return stats, nil
}

func (r *RecommendationLogRepository) DailyStats(ctx context.Context, since time.Time) ([]domain.DailyRecommendationStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var stats []domain.DailyRecommendationStat
	err := r.DB.WithContext(ctx).
		Model(&domain.RecommendationLog{}).
		Select(`TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS recommendations,
			COUNT(*) FILTER (WHERE user_feedback = ?) AS satisfied_count,
			COUNT(*) FILTER (WHERE user_feedback = ?) AS unsatisfied_count,
			COALESCE(AVG(total_score), 0) AS average_score`,
			domain.FeedbackSatisfied, domain.FeedbackUnsatisfied).
		Where("is_test_data = ? AND created_at >= ?", false, since).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily statistics: %w", err)
	}

	return stats, nil
}
