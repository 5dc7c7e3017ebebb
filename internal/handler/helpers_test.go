package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookreviews/internal/auth"
	"github.com/snnyvrz/bookreviews/internal/middleware"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"github.com/snnyvrz/bookreviews/internal/service"
	"github.com/snnyvrz/bookreviews/internal/validation"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret-0123456789abcdef"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenManager
}

func setupTestRouter(t *testing.T, database *gorm.DB) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	books := repository.NewGormBookRepository(database)
	reviews := repository.NewGormReviewRepository(database)
	users := repository.NewGormUserRepository(database)
	tokens := auth.NewTokenManager(testJWTSecret, time.Hour)

	bookSvc := service.NewBookService(books, reviews)
	reviewSvc := service.NewReviewService(bookSvc, reviews)
	authSvc := service.NewAuthService(users, tokens, auth.NewMemoryDenylist())

	r := gin.New()
	r.Use(middleware.Recovery())
	api := r.Group("/api")
	requireAuth := middleware.RequireAuth(authSvc)

	NewBookHandler(bookSvc).RegisterRoutes(api)
	NewReviewHandler(reviewSvc).RegisterRoutes(api, requireAuth)
	NewAuthHandler(authSvc).RegisterRoutes(api, nil, []gin.HandlerFunc{requireAuth})

	return &testEnv{db: database, router: r, tokens: tokens}
}

func (e *testEnv) tokenFor(t *testing.T, u model.User) string {
	t.Helper()

	token, _, err := e.tokens.Issue(u.ID, u.Username)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) validation.ErrorResponse {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected status %d, got %d, body=%s", status, w.Code, w.Body.String())
	}

	var resp validation.ErrorResponse
	decodeJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("expected code %q, got %q", code, resp.Code)
	}
	return resp
}

func countRows(t *testing.T, database *gorm.DB, m any) int64 {
	t.Helper()

	var n int64
	if err := database.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
