package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wildNest/business/recommendation"
	"wildNest/domain"
	"wildNest/pkg/logger"
	"wildNest/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const headerSessionID = "X-Session-ID"

type (
	RecommendHandler struct {
		validate              *validator.Validate
		recommendationService RecommendationService
		timeout               time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, req recommendation.RecommendRequest) (recommendation.RecommendOutcome, error)
		GetResult(ctx context.Context, id uint64) (domain.RecommendationLog, error)
		GetSharedResult(ctx context.Context, code string) (domain.RecommendationLog, error)
		History(ctx context.Context, sessionID string) ([]domain.RecommendationLog, error)
		SubmitFeedback(ctx context.Context, logID uint64, feedback int, reason string) error
		ListLogs(ctx context.Context, filter domain.RecommendationLogFilter) (domain.Page[domain.RecommendationLog], error)
		Statistics(ctx context.Context) (domain.RecommendationStatistics, error)
		DailyStats(ctx context.Context, days int) ([]domain.DailyRecommendationStat, error)
	}

	RecommendRequest struct {
		SessionID  string             `json:"session_id" validate:"max=64"`
		Answers    domain.UserAnswers `json:"answers" validate:"required,min=1"`
		IsTestData bool               `json:"is_test_data"`
	}

	RecommendFeedbackRequest struct {
		LogID    uint64 `json:"log_id" validate:"required,gt=0"`
		Feedback *int   `json:"feedback" validate:"required,oneof=0 1"`
		Reason   string `json:"reason" validate:"max=500"`
	}
)

func NewRecommendHandler(svc RecommendationService) *RecommendHandler {
	return &RecommendHandler{
		validate:              validator.New(),
		recommendationService: svc,
		timeout:               10 * time.Second,
	}
}

// deviceInfo collects the optional client hints sent by the menu app.
func deviceInfo(r *http.Request) map[string]interface{} {
	info := map[string]interface{}{}
	for key, header := range map[string]string{
		"device_type": "X-Device-Type",
		"platform":    "Sec-CH-UA-Platform",
		"screen":      "X-Screen-Resolution",
		"language":    "Accept-Language",
	} {
		if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
			info[key] = v
		}
	}
	return info
}

// POST /api/v1/recommend/result
func (h *RecommendHandler) Recommend(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.Request().Header.Get(headerSessionID)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	outcome, err := h.recommendationService.Recommend(ctx, recommendation.RecommendRequest{
		SessionID:  sessionID,
		Answers:    req.Answers,
		ClientIP:   c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
		DeviceInfo: deviceInfo(c.Request()),
		IsTestData: req.IsTestData,
	})
	if err != nil {
		logger.Error("Failed to compute recommendation", err)
		if statusFor(err) == http.StatusInternalServerError {
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: domain.ErrUnavailable.Error()})
		}
		return errorJSON(c, err)
	}

	c.Response().Header().Set(headerSessionID, outcome.SessionID)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(outcome))
}

// GET /api/v1/recommend/result/:id
func (h *RecommendHandler) GetResult(c echo.Context) error {
	logID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid result id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entry, err := h.recommendationService.GetResult(ctx, logID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entry))
}

// GET /api/v1/recommend/shared?code=...
func (h *RecommendHandler) GetSharedResult(c echo.Context) error {
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "code is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entry, err := h.recommendationService.GetSharedResult(ctx, code)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entry))
}

// GET /api/v1/recommend/history?session_id=...
func (h *RecommendHandler) History(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		sessionID = c.Request().Header.Get(headerSessionID)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	history, err := h.recommendationService.History(ctx, sessionID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(history))
}

// POST /api/v1/recommend/feedback
func (h *RecommendHandler) Feedback(c echo.Context) error {
	var req RecommendFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.recommendationService.SubmitFeedback(ctx, req.LogID, *req.Feedback, strings.TrimSpace(req.Reason)); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("feedback recorded"))
}

// GET /api/v1/admin/recommend/logs
func (h *RecommendHandler) ListLogs(c echo.Context) error {
	filter := domain.RecommendationLogFilter{
		SessionID:        c.QueryParam("session_id"),
		AlgorithmVersion: c.QueryParam("algorithm_version"),
		IsTestData:       queryBool(c, "is_test_data"),
		Page:             queryInt(c, "page"),
		PageSize:         queryInt(c, "page_size"),
	}
	if raw := c.QueryParam("user_feedback"); raw == "0" || raw == "1" {
		feedback := queryInt(c, "user_feedback")
		filter.UserFeedback = &feedback
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.recommendationService.ListLogs(ctx, filter)
	if err != nil {
		logger.Error("Failed to list recommendation logs", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get recommendation logs",
		"logs":    page,
	})
}

// GET /api/v1/admin/recommend/statistics/overview
func (h *RecommendHandler) Statistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.recommendationService.Statistics(ctx)
	if err != nil {
		logger.Error("Failed to compute statistics", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get statistics",
		"statistics": stats,
	})
}

// GET /api/v1/admin/recommend/statistics/daily?days=7
func (h *RecommendHandler) DailyStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.recommendationService.DailyStats(ctx, queryInt(c, "days"))
	if err != nil {
		logger.Error("Failed to compute daily statistics", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get daily statistics",
		"daily":   stats,
	})
}
