package main

// @title           Book Reviews API
// @version         1.0
// @description     Books, reviews and average ratings.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snnyvrz/bookreviews/internal/auth"
	"github.com/snnyvrz/bookreviews/internal/config"
	"github.com/snnyvrz/bookreviews/internal/db"
	docs "github.com/snnyvrz/bookreviews/internal/docs"
	"github.com/snnyvrz/bookreviews/internal/handler"
	"github.com/snnyvrz/bookreviews/internal/logger"
	"github.com/snnyvrz/bookreviews/internal/middleware"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"github.com/snnyvrz/bookreviews/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	serviceName = "bookreviews"
	appVersion  = "0.1.0"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	l := logger.New(serviceName, cfg.LogLevel)
	slog.SetDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l, startTime); err != nil {
		l.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, l *slog.Logger, startTime time.Time) error {
	database, err := db.ConnectWithRetry(ctx, cfg, l)
	if err != nil {
		return err
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(database); err != nil {
		return err
	}

	denylist, closeDenylist, err := newDenylist(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeDenylist()

	books := repository.NewGormBookRepository(database)
	reviews := repository.NewGormReviewRepository(database)
	users := repository.NewGormUserRepository(database)

	bookSvc := service.NewBookService(books, reviews)
	reviewSvc := service.NewReviewService(bookSvc, reviews)
	authSvc := service.NewAuthService(users, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry), denylist)

	gin.SetMode(cfg.GinMode)

	e := gin.New()
	e.Use(
		middleware.RequestID(l),
		middleware.Recovery(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
	)

	if err := e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	}); err != nil {
		return err
	}

	docs.SwaggerInfo.BasePath = "/api"

	handler.NewHealthHandler(database, startTime, appVersion).RegisterRoutes(e)
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)
	requireAuth := middleware.RequireAuth(authSvc)

	api := e.Group("/api")
	{
		handler.NewBookHandler(bookSvc).RegisterRoutes(api, limit)
		handler.NewReviewHandler(reviewSvc).RegisterRoutes(api, requireAuth, limit)
		handler.NewAuthHandler(authSvc).RegisterRoutes(api,
			[]gin.HandlerFunc{limit},
			[]gin.HandlerFunc{requireAuth},
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http server listening", slog.String("addr", srv.Addr), slog.String("version", appVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newDenylist uses Redis when REDIS_URL is set so revocations are shared
// between instances; otherwise revocations live in process memory.
func newDenylist(ctx context.Context, cfg *config.Config, l *slog.Logger) (auth.Denylist, func(), error) {
	if cfg.RedisURL == "" {
		l.Info("token denylist: in memory")
		return auth.NewMemoryDenylist(), func() {}, nil
	}

	client, err := auth.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	l.Info("token denylist: redis")
	return auth.NewRedisDenylist(client), func() { _ = client.Close() }, nil
}
