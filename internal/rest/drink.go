package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wildNest/domain"
	"wildNest/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type DrinkService interface {
	ListDrinks(ctx context.Context, filter domain.DrinkFilter) (domain.Page[domain.Drink], error)
	GetDrink(ctx context.Context, id uint64) (*domain.Drink, error)
	FeaturedDrinks(ctx context.Context, limit int) ([]domain.Drink, error)
	PopularDrinks(ctx context.Context, limit int) ([]domain.Drink, error)
	CreateDrink(ctx context.Context, drink *domain.Drink) (*domain.Drink, error)
	UpdateDrink(ctx context.Context, drink *domain.Drink) (*domain.Drink, error)
	DeleteDrink(ctx context.Context, id uint64) error
	SetAvailability(ctx context.Context, id uint64, available bool) error
	SetFeatured(ctx context.Context, id uint64, featured bool) error
}

type DrinkHandler struct {
	drinkService DrinkService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewDrinkHandler(drinkService DrinkService) *DrinkHandler {
	return &DrinkHandler{
		drinkService: drinkService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type DrinkRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	EnglishName    string   `json:"english_name" validate:"max=100"`
	CategoryID     uint64   `json:"category_id"`
	Price          float64  `json:"price" validate:"gte=0"`
	AlcoholContent float64  `json:"alcohol_content" validate:"gte=0,lte=100"`
	Description    string   `json:"description"`
	Ingredients    string   `json:"ingredients"`
	TasteNotes     string   `json:"taste_notes"`
	ImageURL       string   `json:"image_url"`
	Tags           []string `json:"tags"`
	IsFeatured     bool     `json:"is_featured"`
	IsAvailable    *bool    `json:"is_available"`
	SortOrder      int      `json:"sort_order"`
}

func (r DrinkRequest) toDomain() *domain.Drink {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &domain.Drink{
		Name:           r.Name,
		EnglishName:    r.EnglishName,
		CategoryID:     r.CategoryID,
		Price:          r.Price,
		AlcoholContent: r.AlcoholContent,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		TasteNotes:     r.TasteNotes,
		ImageURL:       r.ImageURL,
		Tags:           domain.JoinTags(r.Tags),
		IsFeatured:     r.IsFeatured,
		IsAvailable:    available,
		SortOrder:      r.SortOrder,
	}
}

func (h *DrinkHandler) listDrinks(c echo.Context, filter domain.DrinkFilter) error {
	filter.Page = queryInt(c, "page")
	filter.PageSize = queryInt(c, "page_size")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.drinkService.ListDrinks(ctx, filter)
	if err != nil {
		logger.Error("Failed to list drinks", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get drinks",
		"drinks":  page,
	})
}

func (h *DrinkHandler) GetDrinks(c echo.Context) error {
	return h.listDrinks(c, domain.DrinkFilter{CategoryID: queryUint(c, "category_id")})
}

func (h *DrinkHandler) SearchDrinks(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "keyword is required"})
	}
	return h.listDrinks(c, domain.DrinkFilter{Keyword: keyword})
}

func (h *DrinkHandler) GetDrinksByTag(c echo.Context) error {
	tag := strings.TrimSpace(c.QueryParam("tag"))
	if tag == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "tag is required"})
	}
	return h.listDrinks(c, domain.DrinkFilter{Tag: tag})
}

// AdminGetDrinks lists unavailable drinks too.
func (h *DrinkHandler) AdminGetDrinks(c echo.Context) error {
	return h.listDrinks(c, domain.DrinkFilter{
		CategoryID:         queryUint(c, "category_id"),
		Keyword:            strings.TrimSpace(c.QueryParam("keyword")),
		IncludeUnavailable: true,
	})
}

func (h *DrinkHandler) GetFeaturedDrinks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	drinks, err := h.drinkService.FeaturedDrinks(ctx, queryInt(c, "limit"))
	if err != nil {
		logger.Error("Failed to find featured drinks", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get featured drinks",
		"drinks":  drinks,
	})
}

func (h *DrinkHandler) GetPopularDrinks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	drinks, err := h.drinkService.PopularDrinks(ctx, queryInt(c, "limit"))
	if err != nil {
		logger.Error("Failed to find popular drinks", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get popular drinks",
		"drinks":  drinks,
	})
}

func (h *DrinkHandler) GetDrinkByID(c echo.Context) error {
	drinkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid drink id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	drink, err := h.drinkService.GetDrink(ctx, drinkID)
	if err != nil {
		logger.Error("Failed to find drink", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get drink",
		"drink":   drink,
	})
}

func (h *DrinkHandler) CreateDrink(c echo.Context) error {
	var req DrinkRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate drink request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	drink, err := h.drinkService.CreateDrink(ctx, req.toDomain())
	if err != nil {
		logger.Error("Failed to create drink", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "drink successfully created",
		"drink":   drink,
	})
}

func (h *DrinkHandler) UpdateDrink(c echo.Context) error {
	drinkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid drink id"})
	}

	var req DrinkRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate drink request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	drink := req.toDomain()
	drink.ID = drinkID

	updated, err := h.drinkService.UpdateDrink(ctx, drink)
	if err != nil {
		logger.Error("Failed to update drink", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully update drink",
		"drink":   updated,
	})
}

func (h *DrinkHandler) DeleteDrink(c echo.Context) error {
	drinkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid drink id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.drinkService.DeleteDrink(ctx, drinkID); err != nil {
		logger.Error("Failed to delete drink", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "drink successfully deleted",
		"drink_id": drinkID,
	})
}

func (h *DrinkHandler) SetAvailability(c echo.Context) error {
	return h.toggle(c, "availability", h.drinkService.SetAvailability)
}

func (h *DrinkHandler) SetFeatured(c echo.Context) error {
	return h.toggle(c, "featured", h.drinkService.SetFeatured)
}

func (h *DrinkHandler) toggle(c echo.Context, what string, set func(context.Context, uint64, bool) error) error {
	drinkID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid drink id"})
	}

	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := set(ctx, drinkID, *req.Value); err != nil {
		logger.Error("Failed to update drink "+what, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully update drink " + what,
		"drink_id": drinkID,
		what:       *req.Value,
	})
}
