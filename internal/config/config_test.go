package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ReleaseRequiresSSL(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "require", cfg.DBSSLMode)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("JWT_EXPIRY", "forever")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTPPort:      70000,
		JWTSecret:     "short",
		JWTExpiry:     time.Hour,
		LogLevel:      "verbose",
		DBMaxAttempts: 1,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:    "db",
		DBPort:    "5432",
		DBUser:    "books",
		DBPass:    "secret",
		DBName:    "reviews",
		DBSSLMode: "disable",
		TZ:        "UTC",
	}

	assert.Equal(t,
		"host=db user=books password=secret dbname=reviews port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)
}
