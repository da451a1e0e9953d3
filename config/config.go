// Package config loads and validates application configuration from
// environment variables. All problems found while loading are collected and
// reported together so a misconfigured deployment fails fast with one message
// instead of dying on the first missing variable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig holds the settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
// JWTSecret has no fallback on purpose: a guessable default signing key is
// worse than refusing to boot.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration // session token lifetime, 24h by default
	AdminEmail    string        // bootstrap admin, created when no admin row exists
	AdminPassword string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// MediaConfig holds settings for the on-disk media store.
type MediaConfig struct {
	// Dir is the root under which songs/, songpic/ and artistpic/ live.
	Dir string
}

// RateLimitConfig holds the per-IP limiter settings for credential endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// AppConfig is the top-level configuration structure.
type AppConfig struct {
	DB        *PoolConfig
	Auth      *AuthConfig
	Server    *ServerConfig
	Media     *MediaConfig
	RateLimit *RateLimitConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvFloat(key string, defaultValue float64, errs *[]string) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueFloat, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected number, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueFloat
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig builds an AppConfig from the environment. It returns a single
// aggregated error listing every missing or malformed variable.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)
	if poolSize < 1 || poolSize > 100 {
		errs = append(errs, fmt.Sprintf("DB_POOL_SIZE (%d) must be between 1 and 100", poolSize))
		poolSize = 10
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", 24*time.Hour, &errs)

	cfg := &AppConfig{
		DB: &PoolConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxSize:  poolSize,
		},
		Auth: &AuthConfig{
			JWTSecret:     jwtSecret,
			TokenDuration: tokenDuration,
			AdminEmail:    getOptionalEnv("ADMIN_EMAIL", "admin@vibescape.com"),
			AdminPassword: getOptionalEnv("ADMIN_PASSWORD", "admin123"),
		},
		Server: &ServerConfig{
			Port: getOptionalEnv("PORT", "3030"),
		},
		Media: &MediaConfig{
			Dir: getOptionalEnv("MEDIA_DIR", "./media"),
		},
		RateLimit: &RateLimitConfig{
			RequestsPerSecond: getOptionalEnvFloat("AUTH_RATE_LIMIT_RPS", 1, &errs),
			Burst:             getOptionalEnvInt("AUTH_RATE_LIMIT_BURST", 5, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return cfg, nil
}
