package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Majorsoln/BOS-sub001/pkg/config"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// TestLoad_Defaults verifies that Load() returns sensible defaults when no
// environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RATE_LIMIT_HUMAN_RPM", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("SYSTEM_HEALTH_MODE", "")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Contains(t, cfg.DatabaseURL, "localhost")
	assert.Equal(t, 60, cfg.RateLimitHuman)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, security.ModeNormal, cfg.SystemHealth)
}

// TestLoad_Overrides verifies that environment variables correctly
// override default values.
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DATABASE_URL", "postgres://production:5432/db")
	t.Setenv("RATE_LIMIT_HUMAN_RPM", "120")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("SYSTEM_HEALTH_MODE", "DEGRADED")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "postgres://production:5432/db", cfg.DatabaseURL)
	assert.Equal(t, 120, cfg.RateLimitHuman)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, security.ModeDegraded, cfg.SystemHealth)
}

// TestLoad_InvalidRateLimitFallsBackToDefault covers envInt's silent
// fallback on unparsable values.
func TestLoad_InvalidRateLimitFallsBackToDefault(t *testing.T) {
	t.Setenv("RATE_LIMIT_HUMAN_RPM", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("SYSTEM_HEALTH_MODE", "READ_ONLY")

	cfg := config.Load()

	assert.Equal(t, 60, cfg.RateLimitHuman)
	assert.Equal(t, security.ModeReadOnly, cfg.SystemHealth)
}
