package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "dev-secret-change-in-production"

// Config holds the application configuration.
type Config struct {
	ServerPort           int
	Env                  string
	DatabasePath         string
	JWTSecret            string
	SessionTTL           time.Duration
	SessionSweepSchedule string
	RateLimitRPS         float64
	RateLimitBurst       int
	AllowedOrigins       []string
	LogLevel             string
}

// Load loads configuration from the environment (and an optional .env file)
// or sets defaults.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "168"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		ServerPort:           port,
		Env:                  getEnv("APP_ENV", "development"),
		DatabasePath:         getEnv("DATABASE_PATH", "./formbay.db"),
		JWTSecret:            getEnv("JWT_SECRET", devSecret),
		SessionTTL:           time.Duration(ttlHours) * time.Hour,
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 10m"),
		RateLimitRPS:         rps,
		RateLimitBurst:       burst,
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Env == "production" && (cfg.JWTSecret == "" || cfg.JWTSecret == devSecret) {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
