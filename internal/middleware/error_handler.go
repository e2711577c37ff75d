package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wildNest/pkg/logger"

	jsonres "wildNest/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that reach echo (unknown routes, bind
// failures, recovered panics) in the same envelope the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error", "path", c.Path(), "error", err)
		// internal details stay in the log
		message = http.StatusText(code)
	}

	status := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(code)
	} else {
		respErr = c.JSON(code, jsonres.Error(status, message, nil))
	}
	if respErr != nil {
		logger.Error("failed to write error response", respErr)
	}
}
