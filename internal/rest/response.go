package rest

import (
	"errors"
	"net/http"
	"strconv"

	"wildNest/domain"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON writes err with the status it maps to. Messages of internal
// errors are not exposed.
func errorJSON(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.JSON(status, ResponseError{Message: message})
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

func queryUint(c echo.Context, name string) uint64 {
	v, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// queryBool returns nil when the parameter is absent or unparsable.
func queryBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(c.QueryParam(name))
	if err != nil {
		return nil
	}
	return &v
}

type ToggleRequest struct {
	Value *bool `json:"value" validate:"required"`
}

type StatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type BatchStatusRequest struct {
	IDs      []uint64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	IsActive *bool    `json:"is_active" validate:"required"`
}
