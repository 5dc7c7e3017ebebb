package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/logger"
	"github.com/snnyvrz/bookreviews/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeAppError maps a service error to its response. Causes of 5xx errors
// are logged and never sent to the client.
func writeAppError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("INTERNAL_ERROR", "an internal error occurred", err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.String("code", appErr.Code),
			slog.String("error", err.Error()),
		)
	}

	c.AbortWithStatusJSON(appErr.Status, validation.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	if s := c.Query(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}
