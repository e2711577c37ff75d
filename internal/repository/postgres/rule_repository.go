package postgres

import (
	"context"
	"errors"
	"fmt"

	"wildNest/business/recommendation"
	"wildNest/business/rule"
	"wildNest/domain"

	"gorm.io/gorm"
)

type RuleRepository struct {
	DB *gorm.DB
}

var (
	_ rule.RuleRepository           = (*RuleRepository)(nil)
	_ recommendation.RuleRepository = (*RuleRepository)(nil)
)

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{
		DB: db,
	}
}

func (r *RuleRepository) Create(ctx context.Context, rr *domain.RecommendationRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrRuleNameTaken
		}
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) FindByID(ctx context.Context, id uint64) (domain.RecommendationRule, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *RuleRepository) FindByName(ctx context.Context, name string) (domain.RecommendationRule, error) {
	return r.findOne(ctx, "rule_name = ?", name)
}

func (r *RuleRepository) findOne(ctx context.Context, cond string, arg interface{}) (domain.RecommendationRule, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationRule{}, fmt.Errorf("context error: %w", err)
	}

	var rr domain.RecommendationRule

	err := r.DB.WithContext(ctx).Where(cond, arg).First(&rr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecommendationRule{}, domain.ErrRuleNotFound
		}
		return domain.RecommendationRule{}, fmt.Errorf("failed to find rule: %w", err)
	}

	return rr, nil
}

// FindActive returns active rules in priority order. The matcher re-sorts
// by score, so the order only decides ties.
func (r *RuleRepository) FindActive(ctx context.Context) ([]domain.RecommendationRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rules []domain.RecommendationRule
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority_level DESC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find active rules: %w", err)
	}

	return rules, nil
}

func (r *RuleRepository) FindPage(ctx context.Context, filter domain.RuleFilter) (domain.Page[domain.RecommendationRule], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.RecommendationRule]{}, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.RecommendationRule{})
	if filter.ConditionType != "" {
		query = query.Where("condition_type = ?", filter.ConditionType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return domain.Page[domain.RecommendationRule]{}, fmt.Errorf("failed to count rules: %w", err)
	}

	var rules []domain.RecommendationRule
	err := query.
		Order("priority_level DESC, id DESC").
		Offset(domain.Offset(filter.Page, filter.PageSize)).
		Limit(filter.PageSize).
		Find(&rules).Error
	if err != nil {
		return domain.Page[domain.RecommendationRule]{}, fmt.Errorf("failed to find rules: %w", err)
	}

	return domain.Page[domain.RecommendationRule]{
		Items:    rules,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (r *RuleRepository) Update(ctx context.Context, rr *domain.RecommendationRule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.RecommendationRule{}).Where("id = ?", rr.ID).Updates(map[string]interface{}{
		"rule_name":             rr.RuleName,
		"rule_description":      rr.RuleDescription,
		"option_combination":    rr.OptionCombination,
		"target_drink_ids":      rr.TargetDrinkIDs,
		"match_score":           rr.MatchScore,
		"recommendation_reason": rr.RecommendationReason,
		"condition_type":        rr.ConditionType,
		"min_match_count":       rr.MinMatchCount,
		"is_active":             rr.IsActive,
		"priority_level":        rr.PriorityLevel,
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrRuleNameTaken
		}
		return fmt.Errorf("failed to update rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.RecommendationRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

func (r *RuleRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.RecommendationRule{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}
