package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"catalog-search/logger"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler renders errors as {"error": "..."}. Messages of 5xx
// errors are replaced by the status text.
func CustomHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		requestID := logger.RequestIDFromContext(c.Request().Context())

		status := http.StatusInternalServerError
		msg := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
			if status >= 500 {
				log.Error("HTTP error", "request_id", requestID, "status", status, "message", msg, "internal", he.Internal)
				msg = http.StatusText(status)
			} else {
				log.Warn("HTTP error", "request_id", requestID, "status", status, "message", msg)
			}
		} else {
			log.Error("unhandled error", "request_id", requestID, "error", err.Error())
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(status)
		} else {
			sendErr = c.JSON(status, ErrorResponse{Error: msg})
		}
		if sendErr != nil {
			log.Error("failed to send error response", "request_id", requestID, "error", sendErr)
		}
	}
}
