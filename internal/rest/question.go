package rest

import (
	"context"
	"net/http"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type QuestionService interface {
	GetQuiz(ctx context.Context) ([]domain.Question, error)
	GetAllQuestions(ctx context.Context) ([]domain.Question, error)
	GetQuestionByID(ctx context.Context, id uint64) (domain.Question, error)
	CreateQuestion(ctx context.Context, question *domain.Question) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, question *domain.Question) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, id uint64) error
	SetQuestionStatus(ctx context.Context, ids []uint64, active bool) error
	GetOptions(ctx context.Context, questionID uint64) ([]domain.Option, error)
	CreateOption(ctx context.Context, option *domain.Option) (*domain.Option, error)
	UpdateOption(ctx context.Context, option *domain.Option) (*domain.Option, error)
	DeleteOption(ctx context.Context, id uint64) error
	SetOptionStatus(ctx context.Context, ids []uint64, active bool) error
}

type QuestionHandler struct {
	questionService QuestionService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewQuestionHandler(questionService QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type QuestionRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	QuestionType string `json:"question_type" validate:"omitempty,oneof=single multiple"`
	SortOrder    int    `json:"sort_order"`
	IsActive     *bool  `json:"is_active"`
}

type OptionRequest struct {
	QuestionID  uint64   `json:"question_id" validate:"required,gt=0"`
	Content     string   `json:"content" validate:"required,max=200"`
	WeightValue *float64 `json:"weight_value" validate:"omitempty,gte=0.1,lte=2"`
	TagKeywords []string `json:"tag_keywords"`
	SortOrder   int      `json:"sort_order"`
	IsActive    *bool    `json:"is_active"`
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func (r QuestionRequest) toDomain() *domain.Question {
	return &domain.Question{
		Title:        r.Title,
		Description:  r.Description,
		QuestionType: r.QuestionType,
		SortOrder:    r.SortOrder,
		IsActive:     activeOrDefault(r.IsActive),
	}
}

func (r OptionRequest) toDomain() *domain.Option {
	return &domain.Option{
		QuestionID:  r.QuestionID,
		Content:     r.Content,
		WeightValue: r.WeightValue,
		TagKeywords: domain.JoinTags(r.TagKeywords),
		SortOrder:   r.SortOrder,
		IsActive:    activeOrDefault(r.IsActive),
	}
}

// GetQuiz returns the active questionnaire shown to guests.
func (h *QuestionHandler) GetQuiz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	questions, err := h.questionService.GetQuiz(ctx)
	if err != nil {
		logger.Error("Failed to load questionnaire", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get questions",
		"questions": questions,
	})
}

func (h *QuestionHandler) GetAllQuestions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	questions, err := h.questionService.GetAllQuestions(ctx)
	if err != nil {
		logger.Error("Failed to find all questions", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully get all questions",
		"questions": questions,
	})
}

func (h *QuestionHandler) GetQuestionByID(c echo.Context) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid question id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	question, err := h.questionService.GetQuestionByID(ctx, questionID)
	if err != nil {
		logger.Error("Failed to find question", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get question",
		"question": question,
	})
}

func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req QuestionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate question request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	question, err := h.questionService.CreateQuestion(ctx, req.toDomain())
	if err != nil {
		logger.Error("Failed to create question", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "question successfully created",
		"question": question,
	})
}

func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid question id"})
	}

	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate question request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	question := req.toDomain()
	question.ID = questionID

	updated, err := h.questionService.UpdateQuestion(ctx, question)
	if err != nil {
		logger.Error("Failed to update question", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully update question",
		"question": updated,
	})
}

func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	questionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid question id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.questionService.DeleteQuestion(ctx, questionID); err != nil {
		logger.Error("Failed to delete question", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "question successfully deleted",
		"question_id": questionID,
	})
}

func (h *QuestionHandler) SetQuestionStatus(c echo.Context) error {
	return h.batchStatus(c, "question", h.questionService.SetQuestionStatus)
}

func (h *QuestionHandler) SetOptionStatus(c echo.Context) error {
	return h.batchStatus(c, "option", h.questionService.SetOptionStatus)
}

func (h *QuestionHandler) batchStatus(c echo.Context, what string, set func(context.Context, []uint64, bool) error) error {
	var req BatchStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := set(ctx, req.IDs, *req.IsActive); err != nil {
		logger.Error("Failed to update "+what+" status", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "successfully update " + what + " status",
		"ids":       req.IDs,
		"is_active": *req.IsActive,
	})
}

func (h *QuestionHandler) GetOptions(c echo.Context) error {
	questionID := queryUint(c, "question_id")
	if questionID == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "question_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	options, err := h.questionService.GetOptions(ctx, questionID)
	if err != nil {
		logger.Error("Failed to find options", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get options",
		"options": options,
	})
}

func (h *QuestionHandler) CreateOption(c echo.Context) error {
	var req OptionRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate option request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	option, err := h.questionService.CreateOption(ctx, req.toDomain())
	if err != nil {
		logger.Error("Failed to create option", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "option successfully created",
		"option":  option,
	})
}

func (h *QuestionHandler) UpdateOption(c echo.Context) error {
	optionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid option id"})
	}

	var req OptionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate option request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	option := req.toDomain()
	option.ID = optionID

	updated, err := h.questionService.UpdateOption(ctx, option)
	if err != nil {
		logger.Error("Failed to update option", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update option",
		"option":  updated,
	})
}

func (h *QuestionHandler) DeleteOption(c echo.Context) error {
	optionID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid option id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.questionService.DeleteOption(ctx, optionID); err != nil {
		logger.Error("Failed to delete option", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "option successfully deleted",
		"option_id": optionID,
	})
}
