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

type CategoryService interface {
	GetAllCategories(ctx context.Context, enabledOnly bool) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uint64) (domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description"`
	ParentID    uint64 `json:"parent_id"`
	SortOrder   int    `json:"sort_order"`
	IconURL     string `json:"icon_url"`
	Status      *int   `json:"status" validate:"omitempty,oneof=0 1"`
}

func (r CategoryRequest) toDomain() *domain.Category {
	status := domain.CategoryEnabled
	if r.Status != nil {
		status = *r.Status
	}
	return &domain.Category{
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
		SortOrder:   r.SortOrder,
		IconURL:     r.IconURL,
		Status:      status,
	}
}

// GetAllCategories serves the public menu, enabled categories only.
func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	return h.listCategories(c, true)
}

func (h *CategoryHandler) AdminGetAllCategories(c echo.Context) error {
	return h.listCategories(c, false)
}

func (h *CategoryHandler) listCategories(c echo.Context, enabledOnly bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx, enabledOnly)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get all categories",
		"categories": categories,
	})
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		logger.Error("Failed to find category", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get category",
		"category": category,
	})
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate category request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newCategory, err := h.categoryService.CreateCategory(ctx, req.toDomain())
	if err != nil {
		logger.Error("Failed to create category", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "category successfully created",
		"category": newCategory,
	})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate category request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category := req.toDomain()
	category.ID = categoryID

	updatedCategory, err := h.categoryService.UpdateCategory(ctx, category)
	if err != nil {
		logger.Error("Failed to update category", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully update category",
		"category": updatedCategory,
	})
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		logger.Error("Failed to delete category", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "category successfully deleted",
		"category_id": categoryID,
	})
}
