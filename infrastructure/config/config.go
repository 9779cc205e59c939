package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the service configuration, loaded from the environment.
type Config struct {
	DatabaseURL string
	ServerHost  string
	ServerPort  string
	Environment string

	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// ApprovalThreshold is the amount above which a transfer must be
	// reviewed by a second party before execution.
	ApprovalThreshold decimal.Decimal

	RedisURL          string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	LogLevel  string
	LogFormat string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL       = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret         = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL          = errors.New("invalid token TTL format")
	ErrInvalidApprovalThreshold = errors.New("invalid APPROVAL_THRESHOLD format")
)

// Load reads configuration from the environment, loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("ENV", "development"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("JWT_ISSUER", "fundbridge"),

		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequests: getEnvOrDefaultInt("RATE_LIMIT_REQUESTS", 30),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", false),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	accessTokenTTL, err := parseSeconds(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "900"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	rateLimitWindow, err := parseSeconds(getEnvOrDefault("RATE_LIMIT_WINDOW", "60"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitWindow = rateLimitWindow

	threshold, err := decimal.NewFromString(getEnvOrDefault("APPROVAL_THRESHOLD", "1000000"))
	if err != nil || threshold.IsNegative() {
		return nil, ErrInvalidApprovalThreshold
	}
	cfg.ApprovalThreshold = threshold

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
