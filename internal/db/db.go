package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/snnyvrz/bookreviews/internal/config"
	"github.com/snnyvrz/bookreviews/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	initialRetryInterval = 500 * time.Millisecond
	maxRetryInterval     = 5 * time.Second
)

// ConnectWithRetry opens the postgres store, retrying with exponential
// backoff while the server comes up. Requests never retry; only startup does.
func ConnectWithRetry(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	var database *gorm.DB
	attempt := 0

	connect := func() error {
		attempt++
		d, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return err
		}
		if err := Ping(ctx, d); err != nil {
			if sqlDB, dbErr := d.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return err
		}
		database = d
		return nil
	}

	notify := func(err error, next time.Duration) {
		log.Warn("db not ready",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.DBMaxAttempts),
			slog.Duration("retry_in", next),
			slog.String("error", err.Error()),
		)
	}

	if err := backoff.RetryNotify(connect, newBackOff(ctx, cfg.DBMaxAttempts), notify); err != nil {
		return nil, fmt.Errorf("could not connect to db after %d attempts: %w", attempt, err)
	}

	log.Info("db connected", slog.Int("attempt", attempt))
	return database, nil
}

func newBackOff(ctx context.Context, maxAttempts int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initialRetryInterval
	exp.MaxInterval = maxRetryInterval
	exp.MaxElapsedTime = 0

	retries := 0
	if maxAttempts > 1 {
		retries = maxAttempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

func Ping(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(model.All()...)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
