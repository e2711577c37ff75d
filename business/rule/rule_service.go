package rule

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wildNest/domain"
	"wildNest/pkg/logger"
)

// RuleRepository contract interface
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.RecommendationRule) error
	FindByID(ctx context.Context, id uint64) (domain.RecommendationRule, error)
	FindByName(ctx context.Context, name string) (domain.RecommendationRule, error)
	FindPage(ctx context.Context, filter domain.RuleFilter) (domain.Page[domain.RecommendationRule], error)
	Update(ctx context.Context, rule *domain.RecommendationRule) error
	Delete(ctx context.Context, id uint64) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

type ruleService struct {
	ruleRepo RuleRepository
	catalog  CatalogInvalidator
}

func NewRuleService(ruleRepo RuleRepository, catalog CatalogInvalidator) *ruleService {
	return &ruleService{
		ruleRepo: ruleRepo,
		catalog:  catalog,
	}
}

func (s *ruleService) invalidate(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate catalog cache", err)
	}
}

// validateRule checks a rule before it is stored and normalizes its
// defaults and target list.
func (s *ruleService) validateRule(ctx context.Context, r *domain.RecommendationRule) error {
	r.RuleName = strings.TrimSpace(r.RuleName)
	if r.RuleName == "" {
		return domain.ErrRuleNameRequired
	}

	if len(r.OptionCombination) == 0 {
		return domain.ErrRuleCombinationEmpty
	}
	ids, err := r.OptionIDs()
	if err != nil {
		return domain.ErrRuleCombinationInvalid
	}
	if len(ids) == 0 {
		return domain.ErrRuleCombinationEmpty
	}

	if strings.TrimSpace(r.TargetDrinkIDs) == "" {
		return domain.ErrRuleTargetsEmpty
	}
	targets := r.TargetDrinks()
	if len(targets) == 0 {
		return domain.ErrRuleTargetsInvalid
	}
	parts := make([]string, 0, len(targets))
	for _, id := range targets {
		parts = append(parts, strconv.FormatUint(id, 10))
	}
	r.TargetDrinkIDs = strings.Join(parts, ",")

	if r.MatchScore != nil && (*r.MatchScore < 0 || *r.MatchScore > 100) {
		return domain.ErrRuleInvalidScore
	}

	if r.PriorityLevel < 0 {
		return domain.ErrRuleInvalidPriority
	}

	if r.MinMatchCount == nil {
		one := 1
		r.MinMatchCount = &one
	} else if *r.MinMatchCount < 1 {
		return domain.ErrRuleInvalidMinMatch
	}

	if r.ConditionType == "" {
		r.ConditionType = domain.ConditionExact
	}
	switch r.ConditionType {
	case domain.ConditionExact, domain.ConditionPartial, domain.ConditionFuzzy:
	default:
		return domain.ErrRuleInvalidCondition
	}

	existing, err := s.ruleRepo.FindByName(ctx, r.RuleName)
	switch {
	case err == nil && existing.ID != r.ID:
		return domain.ErrRuleNameTaken
	case err != nil && !errors.Is(err, domain.ErrRuleNotFound):
		return err
	}

	return nil
}

func (s *ruleService) ListRules(ctx context.Context, filter domain.RuleFilter) (domain.Page[domain.RecommendationRule], error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing rules")
		return domain.Page[domain.RecommendationRule]{}, fmt.Errorf("context error: %w", err)
	}

	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)

	page, err := s.ruleRepo.FindPage(ctx, filter)
	if err != nil {
		logger.Error("Failed to list rules", err)
		return domain.Page[domain.RecommendationRule]{}, err
	}

	return page, nil
}

func (s *ruleService) GetRule(ctx context.Context, id uint64) (domain.RecommendationRule, error) {
	if id == 0 {
		return domain.RecommendationRule{}, domain.ErrInvalidID
	}

	r, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find rule", err)
		return domain.RecommendationRule{}, err
	}

	return r, nil
}

func (s *ruleService) CreateRule(ctx context.Context, r *domain.RecommendationRule) (*domain.RecommendationRule, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create rule")
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.ID = 0
	if err := s.validateRule(ctx, r); err != nil {
		logger.Error("Invalid rule data", err)
		return nil, err
	}

	if err := s.ruleRepo.Create(ctx, r); err != nil {
		logger.Error("failed to create new rule", err)
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("rule created successfully", "rule_id", r.ID)

	return r, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, r *domain.RecommendationRule) (*domain.RecommendationRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if r.ID == 0 {
		return nil, domain.ErrInvalidID
	}

	if _, err := s.ruleRepo.FindByID(ctx, r.ID); err != nil {
		logger.Error("rule not found", err)
		return nil, err
	}

	if err := s.validateRule(ctx, r); err != nil {
		logger.Error("Invalid rule data", err)
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, r); err != nil {
		logger.Error("failed to update rule", err)
		return nil, err
	}

	updated, err := s.ruleRepo.FindByID(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated rule: %w", err)
	}

	s.invalidate(ctx)
	logger.Info("rule updated successfully", "rule_id", r.ID)

	return &updated, nil
}

func (s *ruleService) DeleteRule(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete rule", err)
		return err
	}

	s.invalidate(ctx)
	logger.Info("rule deleted successfully", "rule_id", id)

	return nil
}

func (s *ruleService) SetRuleActive(ctx context.Context, id uint64, active bool) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.ruleRepo.SetActive(ctx, id, active); err != nil {
		logger.Error("failed to update rule status", err)
		return err
	}

	s.invalidate(ctx)
	return nil
}
