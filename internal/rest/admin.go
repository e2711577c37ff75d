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

type AdminService interface {
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.AdminUser, error)
	Logout(ctx context.Context, adminID uint) error
	Me(ctx context.Context, adminID uint) (domain.AdminUser, error)
}

type AdminHandler struct {
	adminService AdminService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate admin login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, admin, err := h.adminService.Login(ctx, req.Username, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		logger.Error("Failed to login admin", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"admin":   admin,
	})
}

func (h *AdminHandler) Logout(c echo.Context) error {
	adminID, ok := c.Get("user_id").(uint)
	if !ok {
		logger.Error("Failed to get user_id from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.adminService.Logout(ctx, adminID); err != nil {
		logger.Error("Failed to logout admin", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (h *AdminHandler) Me(c echo.Context) error {
	adminID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	admin, err := h.adminService.Me(ctx, adminID)
	if err != nil {
		logger.Error("Failed to get admin profile", err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get admin profile",
		"admin":   admin,
	})
}
