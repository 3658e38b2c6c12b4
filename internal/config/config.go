package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	AppEnv   string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Identity IdentityConfig
	CORS     CORSConfig
	Rate     RateLimitConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type CacheConfig struct {
	Backend  string
	StatsTTL time.Duration
}

// IdentityConfig describes how identity provider tokens are verified.
type IdentityConfig struct {
	JWTSecret   string
	Issuer      string
	OperatorIDs []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type JobsConfig struct {
	ReminderInterval  time.Duration
	ReminderWindow    time.Duration
	LifecycleInterval time.Duration
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	var errs []string

	cfg := &Config{
		AppEnv: getEnvOrDefault("APP_ENV", "development"),
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnvOrDefault("CACHE_BACKEND", CacheBackendMemory)),
		},
		Identity: IdentityConfig{
			JWTSecret:   os.Getenv("IDENTITY_JWT_SECRET"),
			Issuer:      os.Getenv("IDENTITY_JWT_ISSUER"),
			OperatorIDs: splitList(os.Getenv("OPERATOR_IDS")),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}
	cfg.loadDatabase()

	cfg.Server.Port = parseInt("PORT", "8080", &errs)
	cfg.Redis.DB = parseInt("REDIS_DB", "0", &errs)
	cfg.Rate.RPS = parseFloat("RATE_LIMIT_RPS", "10", &errs)
	cfg.Rate.Burst = parseInt("RATE_LIMIT_BURST", "20", &errs)
	cfg.Cache.StatsTTL = parseDuration("STATS_CACHE_TTL", "5m", &errs)
	cfg.Jobs.ReminderInterval = parseDuration("REMINDER_INTERVAL", "10m", &errs)
	cfg.Jobs.ReminderWindow = parseDuration("REMINDER_WINDOW", "24h", &errs)
	cfg.Jobs.LifecycleInterval = parseDuration("LIFECYCLE_INTERVAL", "15m", &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parse failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadDatabase() {
	c.Database.URL = os.Getenv("DATABASE_URL")
	if c.Database.URL != "" {
		return
	}

	c.Database.Host = getEnvOrDefault("PG_HOST", "localhost")
	c.Database.Port = getEnvOrDefault("PG_PORT", "5432")
	c.Database.User = os.Getenv("PG_USER")
	c.Database.Password = os.Getenv("PG_PASSWORD")
	c.Database.Name = os.Getenv("PG_DB")
	c.Database.SSLMode = getEnvOrDefault("PG_SSLMODE", "disable")

	if c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required (or PG_USER, PG_DB)")
	}
	if len(c.Identity.JWTSecret) < 16 {
		errs = append(errs, "IDENTITY_JWT_SECRET must be at least 16 characters")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}
	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		errs = append(errs, "CACHE_BACKEND must be one of: memory, redis")
	}
	if c.Rate.RPS <= 0 || c.Rate.Burst < 1 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1")
	}
	if c.Jobs.ReminderInterval <= 0 || c.Jobs.LifecycleInterval <= 0 {
		errs = append(errs, "job intervals must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// IsOperator reports whether the identity subject may review verifications.
func (c *Config) IsOperator(identityID string) bool {
	for _, id := range c.Identity.OperatorIDs {
		if id == identityID {
			return true
		}
	}
	return false
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt(key, def string, errs *[]string) int {
	v, err := strconv.Atoi(getEnvOrDefault(key, def))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %v", key, err))
	}
	return v
}

func parseFloat(key, def string, errs *[]string) float64 {
	v, err := strconv.ParseFloat(getEnvOrDefault(key, def), 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %v", key, err))
	}
	return v
}

func parseDuration(key, def string, errs *[]string) time.Duration {
	v, err := time.ParseDuration(getEnvOrDefault(key, def))
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %v", key, err))
	}
	return v
}
