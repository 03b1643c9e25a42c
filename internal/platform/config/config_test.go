package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.BalanceSweepInterval)
	assert.True(t, cfg.RunMigrations)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ADDR", ":9999")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("BALANCE_SWEEP_INTERVAL", "1h")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.EmailEnabled)
	assert.Equal(t, time.Hour, cfg.BalanceSweepInterval)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("EMAIL_ENABLED", "not-a-bool")
	t.Setenv("BALANCE_SWEEP_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.False(t, cfg.EmailEnabled)
	assert.Equal(t, 24*time.Hour, cfg.BalanceSweepInterval)
}

func validTestConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/orbithr",
		Environment:        "development",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 120,
		BirthdayDigestHour: 8,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validTestConfig().Validate())

	missing := validTestConfig()
	missing.DatabaseURL = " "
	assert.Error(t, missing.Validate())

	prod := validTestConfig()
	prod.Environment = "production"
	assert.Error(t, prod.Validate(), "production requires a JWT secret")
	prod.JWTSecret = "strong-secret"
	assert.NoError(t, prod.Validate())

	prodSeed := validTestConfig()
	prodSeed.Environment = "production"
	prodSeed.JWTSecret = "strong-secret"
	prodSeed.RunSeed = true
	assert.Error(t, prodSeed.Validate(), "seeding in production needs an explicit admin password")

	badHour := validTestConfig()
	badHour.BirthdayDigestHour = 24
	assert.Error(t, badHour.Validate())

	smtp := validTestConfig()
	smtp.EmailEnabled = true
	assert.Error(t, smtp.Validate(), "EMAIL_ENABLED requires SMTP_HOST")
	smtp.SMTPHost = "smtp.example.com"
	assert.NoError(t, smtp.Validate())
}
