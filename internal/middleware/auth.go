package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/auth"
	"github.com/snnyvrz/bookreviews/internal/logger"
	"github.com/snnyvrz/bookreviews/internal/validation"
)

const (
	claimsKey = "claims"
	userIDKey = "userID"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid
// "Authorization: Bearer <token>" header. On success the claims and user id
// are stored on the gin context.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, "INVALID_AUTH_HEADER", "invalid authorization header format")
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			var appErr *apperror.Error
			if !errors.As(err, &appErr) {
				appErr = apperror.Internal("TOKEN_CHECK_FAILED", "failed to verify token", err)
			}
			if appErr.Status >= http.StatusInternalServerError {
				logger.FromContext(c.Request.Context()).Error("token check failed",
					slog.String("error", err.Error()),
				)
			}
			c.AbortWithStatusJSON(appErr.Status, validation.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
			})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "invalid token")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, userID)

		l := logger.FromContext(c.Request.Context()).With(slog.String("user_id", userID.String()))
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="bookreviews"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, validation.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// UserID returns the authenticated user's id set by RequireAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
