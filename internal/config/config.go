package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// MCP transport
	Transport          string `envconfig:"MCP_TRANSPORT" default:"stdio"` // stdio or http
	HTTPAddr           string `envconfig:"MCP_HTTP_ADDR" default:"localhost:8080"`
	AuthToken          string `envconfig:"MCP_AUTH_TOKEN" default:""`
	MaxConcurrentCalls int    `envconfig:"MAX_CONCURRENT_CALLS" default:"50"`

	// Cache
	CacheEnabled bool   `envconfig:"CACHE_ENABLED" default:"true"`
	CacheBackend string `envconfig:"CACHE_BACKEND" default:"disk"` // disk or redis
	CacheDir     string `envconfig:"CACHE_DIR" default:".cache"`
	RedisURL     string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Upstream rate limits (requests per second per source)
	DefaultRateLimit float64 `envconfig:"DEFAULT_RATE_LIMIT" default:"5"`
	ESPNRateLimit    float64 `envconfig:"ESPN_RATE_LIMIT" default:"10"`
	NCAARateLimit    float64 `envconfig:"NCAA_RATE_LIMIT" default:"5"`

	// HTTP fetching
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Predictor model service
	PredictorURL     string        `envconfig:"PREDICTOR_URL" default:""`
	PredictorTimeout time.Duration `envconfig:"PREDICTOR_TIMEOUT" default:"5s"`

	// Database (collector only)
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cbb_archive"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cbb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Scheduler
	EnableScheduler        bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	CacheSweepCron         string `envconfig:"CACHE_SWEEP_CRON" default:"0 3 * * *"`
	RankingsPrefetchCron   string `envconfig:"RANKINGS_PREFETCH_CRON" default:"0 * * * *"`
	TeamRefreshCron        string `envconfig:"TEAM_REFRESH_CRON" default:"0 2 * * *"`
	ActiveGamePollInterval int    `envconfig:"ACTIVE_GAME_POLL_INTERVAL" default:"60"` // seconds

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Transport != "stdio" && c.Transport != "http" {
		return fmt.Errorf("MCP_TRANSPORT must be stdio or http, got %q", c.Transport)
	}

	if c.CacheBackend != "disk" && c.CacheBackend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be disk or redis, got %q", c.CacheBackend)
	}

	if c.DefaultRateLimit <= 0 {
		return fmt.Errorf("DEFAULT_RATE_LIMIT must be positive")
	}

	if c.MaxConcurrentCalls <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_CALLS must be positive")
	}

	if c.AuthToken == "" && c.Transport == "http" && c.IsProduction() {
		return fmt.Errorf("MCP_AUTH_TOKEN is required for HTTP transport in production")
	}

	return nil
}

// RateLimits returns the per-source rate limit map for the limiter registry.
func (c *Config) RateLimits() map[string]float64 {
	return map[string]float64{
		"espn": c.ESPNRateLimit,
		"ncaa": c.NCAARateLimit,
	}
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
