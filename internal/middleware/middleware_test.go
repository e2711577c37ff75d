//go:build !integration

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wildNest/business/recommendation"
	"wildNest/pkg/utils"

	jsonres "wildNest/pkg/response"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	tokens map[string]string
}

func (s stubValidator) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return "", errors.New("token not found or expired")
}

func protectedEcho(v TokenValidator) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/admin", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"user_id": c.Get("user_id")})
	}, AuthMiddlewareWithRedis(v), AdminOnly())
	return e
}

func doGet(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareWithRedis(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)

	adminToken, err := utils.GenerateJWT("3", "ADMIN")
	require.NoError(t, err)
	staffToken, err := utils.GenerateJWT("4", "STAFF")
	require.NoError(t, err)
	revokedToken, err := utils.GenerateJWT("5", "ADMIN")
	require.NoError(t, err)

	e := protectedEcho(stubValidator{tokens: map[string]string{
		adminToken: "3",
		staffToken: "4",
	}})

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + adminToken, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"revoked token", "Bearer " + revokedToken, http.StatusUnauthorized},
		{"non admin", "Bearer " + staffToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(e, "/admin", tt.auth)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthMiddlewareWithRedis_UserMismatch(t *testing.T) {
	utils.InitJWT("middleware-test-secret", time.Hour)

	token, err := utils.GenerateJWT("3", "ADMIN")
	require.NoError(t, err)

	e := protectedEcho(stubValidator{tokens: map[string]string{token: "99"}})
	rec := doGet(e, "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("pq: connection reset")
	})
	e.GET("/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad input")
	})

	t.Run("not found", func(t *testing.T) {
		rec := doGet(e, "/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body jsonres.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("http error keeps message", func(t *testing.T) {
		rec := doGet(e, "/bad", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad input")
	})

	t.Run("internal error hides details", func(t *testing.T) {
		rec := doGet(e, "/boom", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
		assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	})
}

func TestTraceID(t *testing.T) {
	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(TraceID())

	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = recommendation.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
}
