package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	DatabaseURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	LoginPath     string
	SweepInterval time.Duration

	TokenStore string
	RedisURL   string

	RateLimitEnabled  bool
	RateLimitAttempts int
	RateLimitWindow   time.Duration

	ServerHost string
	ServerPort string

	LogLevel    string
	LogFormat   string
	Environment string
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrMissingRedisURL    = errors.New("REDIS_URL is required for the selected backend")
	ErrInvalidTokenStore  = errors.New("TOKEN_STORE must be postgres or redis")
	ErrInvalidDuration    = errors.New("invalid duration value")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LoginPath:   getEnvOrDefault("LOGIN_PATH", "/api/auth/login"),
		TokenStore:  getEnvOrDefault("TOKEN_STORE", StorePostgres),
		RedisURL:    getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "json"),
		Environment: getEnvOrDefault("ENV", "development"),

		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitAttempts: getEnvOrDefaultInt("RATE_LIMIT_ATTEMPTS", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.TokenStore != StorePostgres && cfg.TokenStore != StoreRedis {
		return nil, ErrInvalidTokenStore
	}
	if cfg.TokenStore == StoreRedis && cfg.RedisURL == "" {
		return nil, ErrMissingRedisURL
	}

	var err error
	if cfg.AccessTokenTTL, err = parseSeconds(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "1800")); err != nil {
		return nil, ErrInvalidDuration
	}
	if cfg.RefreshTokenTTL, err = parseSeconds(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "1209600")); err != nil {
		return nil, ErrInvalidDuration
	}
	if cfg.SweepInterval, err = parseSeconds(getEnvOrDefault("TOKEN_SWEEP_INTERVAL", "3600")); err != nil {
		return nil, ErrInvalidDuration
	}
	if cfg.RateLimitWindow, err = parseSeconds(getEnvOrDefault("RATE_LIMIT_WINDOW", "900")); err != nil {
		return nil, ErrInvalidDuration
	}

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
