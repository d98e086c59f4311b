// Package config loads server configuration from the environment, with a
// YAML profile loader for per-environment rate-limit and health overrides.
package config

import (
	"os"
	"strconv"

	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// Config holds process-wide server configuration.
type Config struct {
	Port           string
	LogLevel       string
	DatabaseURL    string
	RateLimitHuman int // requests per minute, HUMAN tier base
	RateLimitBurst int
	SystemHealth   security.HealthMode
}

// Load reads configuration from environment variables, applying defaults
// matching the reference deployment.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://bos@localhost:5432/bos?sslmode=disable"
	}

	humanRPM := envInt("RATE_LIMIT_HUMAN_RPM", 60)
	burst := envInt("RATE_LIMIT_BURST", 10)

	health := security.ModeNormal
	switch os.Getenv("SYSTEM_HEALTH_MODE") {
	case "DEGRADED":
		health = security.ModeDegraded
	case "READ_ONLY":
		health = security.ModeReadOnly
	}

	return &Config{
		Port:           port,
		LogLevel:       logLevel,
		DatabaseURL:    dbURL,
		RateLimitHuman: humanRPM,
		RateLimitBurst: burst,
		SystemHealth:   health,
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
