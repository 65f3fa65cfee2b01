package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Logging  LoggingConfig  `envconfig:"LOGGING"`
	Cache    CacheConfig    `envconfig:"CACHE"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Insight  InsightConfig  `envconfig:"INSIGHT"`
	Data     DataConfig     `envconfig:"DATA"`
	Warmer   WarmerConfig   `envconfig:"WARMER"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Telegram TelegramConfig `envconfig:"TELEGRAM"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"600s"`
	Backend string        `envconfig:"CACHE_BACKEND" default:"memory"` // memory or redis
}

// RedisConfig represents redis connection parameters
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" required:"false"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Locking  bool   `envconfig:"REDIS_LOCKING" default:"false"`
}

// InsightConfig represents AI insight summarizer configuration
type InsightConfig struct {
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY" required:"false"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	CacheDuration time.Duration `envconfig:"INSIGHT_CACHE_DURATION" default:"3600s"`
	RateLimit     float64       `envconfig:"INSIGHT_RATE_LIMIT" default:"0.5"` // requests per second
	MaxFailures   int           `envconfig:"INSIGHT_MAX_FAILURES" default:"3"`
	Cooldown      time.Duration `envconfig:"INSIGHT_BREAKER_COOLDOWN" default:"5m"`
}

// DataConfig represents message source configuration
type DataConfig struct {
	File                string `envconfig:"DATA_FILE" required:"false"`
	TelegramUpdatesFile string `envconfig:"TELEGRAM_UPDATES_FILE" required:"false"` // saved getUpdates batch
	DefaultSource       string `envconfig:"DEFAULT_SOURCE" default:"telegram"`
}

// WarmerConfig represents the cache warmer worker
type WarmerConfig struct {
	Enabled  bool          `envconfig:"WARM_ENABLED" default:"false"`
	Interval time.Duration `envconfig:"WARM_INTERVAL" default:"5m"`
	Coins    []string      `envconfig:"WARM_COINS" default:"bitcoin,ethereum,solana"`
}

// ServerConfig represents the HTTP API server; it also serves /metrics
type ServerConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":5000"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// TelegramConfig represents the alert notifier
type TelegramConfig struct {
	BotToken        string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID          int64         `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
	AlertInterval   time.Duration `envconfig:"TELEGRAM_ALERT_INTERVAL" default:"1m"`
	SummaryInterval time.Duration `envconfig:"TELEGRAM_SUMMARY_INTERVAL" default:"24h"`
}

// Enabled returns true if both the bot token and the target chat are set
func (c *TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	// Process environment variables
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache_backend must be memory or redis, got %q", c.Cache.Backend)
	}

	if c.UsesRedis() && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	if c.Insight.CacheDuration <= 0 {
		return fmt.Errorf("insight_cache_duration must be positive")
	}
	if c.Insight.RateLimit <= 0 {
		return fmt.Errorf("insight_rate_limit must be positive")
	}
	if c.Insight.MaxFailures <= 0 {
		return fmt.Errorf("insight_max_failures must be positive")
	}

	switch strings.ToLower(c.Data.DefaultSource) {
	case "twitter", "telegram":
	default:
		return fmt.Errorf("default_source must be twitter or telegram, got %q", c.Data.DefaultSource)
	}

	if c.Warmer.Enabled && c.Warmer.Interval <= 0 {
		return fmt.Errorf("warm_interval must be positive")
	}

	if c.Telegram.Enabled() && (c.Telegram.AlertInterval <= 0 || c.Telegram.SummaryInterval <= 0) {
		return fmt.Errorf("telegram intervals must be positive")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("http_addr is required")
	}

	return nil
}

// UsesRedis returns true if any component needs a redis connection
func (c *Config) UsesRedis() bool {
	return c.Cache.Backend == "redis" || c.Redis.Locking
}

// Addr returns host:port of the redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InsightEnabled returns true if the Gemini summarizer is configured
func (c *InsightConfig) InsightEnabled() bool {
	return c.GeminiAPIKey != ""
}
