package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type RuleService interface {
	ListRules(ctx context.Context, filter domain.RuleFilter) (domain.Page[domain.RecommendationRule], error)
	GetRule(ctx context.Context, id uint64) (domain.RecommendationRule, error)
	CreateRule(ctx context.Context, rule *domain.RecommendationRule) (*domain.RecommendationRule, error)
	UpdateRule(ctx context.Context, rule *domain.RecommendationRule) (*domain.RecommendationRule, error)
	DeleteRule(ctx context.Context, id uint64) error
	SetRuleActive(ctx context.Context, id uint64, active bool) error
}

type RuleHandler struct {
	ruleService RuleService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewRuleHandler(ruleService RuleService) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type RuleRequest struct {
	RuleName             string   `json:"rule_name" validate:"required,max=100"`
	RuleDescription      string   `json:"rule_description"`
	OptionCombination    []uint64 `json:"option_combination"`
	TargetDrinkIDs       []uint64 `json:"target_drink_ids"`
	MatchScore           *float64 `json:"match_score"`
	RecommendationReason string   `json:"recommendation_reason"`
	ConditionType        string   `json:"condition_type"`
	MinMatchCount        *int     `json:"min_match_count"`
	IsActive             *bool    `json:"is_active"`
	PriorityLevel        int      `json:"priority_level" validate:"gte=0"`
}

func (r RuleRequest) toDomain() (*domain.RecommendationRule, error) {
	var combination datatypes.JSON
	if len(r.OptionCombination) > 0 {
		raw, err := json.Marshal(r.OptionCombination)
		if err != nil {
			return nil, err
		}
		combination = datatypes.JSON(raw)
	}

	targets := make([]string, 0, len(r.TargetDrinkIDs))
	for _, id := range r.TargetDrinkIDs {
		targets = append(targets, strconv.FormatUint(id, 10))
	}

	return &domain.RecommendationRule{
		RuleName:             r.RuleName,
		RuleDescription:      r.RuleDescription,
		OptionCombination:    combination,
		TargetDrinkIDs:       strings.Join(targets, ","),
		MatchScore:           r.MatchScore,
		RecommendationReason: r.RecommendationReason,
		ConditionType:        r.ConditionType,
		MinMatchCount:        r.MinMatchCount,
		IsActive:             activeOrDefault(r.IsActive),
		PriorityLevel:        r.PriorityLevel,
	}, nil
}

func (h *RuleHandler) bindRule(c echo.Context) (*domain.RecommendationRule, error) {
	var req RuleRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return nil, err
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate rule request", err)
		return nil, err
	}

	return req.toDomain()
}

func (h *RuleHandler) GetRules(c echo.Context) error {
	filter := domain.RuleFilter{
		ConditionType: c.QueryParam("condition_type"),
		IsActive:      queryBool(c, "is_active"),
		Page:          queryInt(c, "page"),
		PageSize:      queryInt(c, "page_size"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.ruleService.ListRules(ctx, filter)
	if err != nil {
		logger.Error("Failed to list rules", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get rules",
		"rules":   page,
	})
}

func (h *RuleHandler) GetRuleByID(c echo.Context) error {
	ruleID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rule, err := h.ruleService.GetRule(ctx, ruleID)
	if err != nil {
		logger.Error("Failed to find rule", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get rule",
		"rule":    rule,
	})
}

func (h *RuleHandler) CreateRule(c echo.Context) error {
	rule, err := h.bindRule(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.ruleService.CreateRule(ctx, rule)
	if err != nil {
		logger.Error("Failed to create rule", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "rule successfully created",
		"rule":    created,
	})
}

func (h *RuleHandler) UpdateRule(c echo.Context) error {
	ruleID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	rule, err := h.bindRule(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	rule.ID = ruleID

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.ruleService.UpdateRule(ctx, rule)
	if err != nil {
		logger.Error("Failed to update rule", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update rule",
		"rule":    updated,
	})
}

func (h *RuleHandler) DeleteRule(c echo.Context) error {
	ruleID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ruleService.DeleteRule(ctx, ruleID); err != nil {
		logger.Error("Failed to delete rule", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "rule successfully deleted",
		"rule_id": ruleID,
	})
}

func (h *RuleHandler) SetRuleStatus(c echo.Context) error {
	ruleID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid rule id"})
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ruleService.SetRuleActive(ctx, ruleID, *req.IsActive); err != nil {
		logger.Error("Failed to update rule status", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully update rule status",
		"rule_id":   ruleID,
		"is_active": *req.IsActive,
	})
}
