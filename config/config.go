package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Rates     RatesConfig
	Cache     CacheConfig
	Snapshot  SnapshotConfig
	Matching  MatchingConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Concurrency    int      `mapstructure:"concurrency"`
}

// RatesConfig holds exchange rate API configuration
type RatesConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Debug             bool          `mapstructure:"debug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type        string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL    string        `mapstructure:"redis_url"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// SnapshotConfig holds builder snapshot storage configuration
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MatchingConfig holds search matching configuration
type MatchingConfig struct {
	MinScore           float64 `mapstructure:"min_score"`
	EnableFuzzy        bool    `mapstructure:"enable_fuzzy"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chemsearch/")

	// CHEMSEARCH_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("CHEMSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads KEY=VALUE pairs from path into the environment.
// Variables that are already set win; a missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading %s: %w", path, err)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.concurrency", 8)

	// Exchange rate API defaults
	v.SetDefault("rates.base_url", "https://api.frankfurter.app")
	v.SetDefault("rates.api_key", "")
	v.SetDefault("rates.timeout", "10s")
	v.SetDefault("rates.requests_per_second", 5)
	v.SetDefault("rates.burst", 10)
	v.SetDefault("rates.max_retries", 3)
	v.SetDefault("rates.debug", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.redis_prefix", "chemsearch:")
	v.SetDefault("cache.ttl", "1h")

	// Snapshot defaults
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.path", "chemsearch.db")

	// Matching defaults
	v.SetDefault("matching.min_score", 0)
	v.SetDefault("matching.enable_fuzzy", true)
	v.SetDefault("matching.enable_debug_logging", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Rates.BaseURL == "" {
		return fmt.Errorf("exchange rate API base URL is required (set CHEMSEARCH_RATES_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Snapshot.Enabled && config.Snapshot.Path == "" {
		return fmt.Errorf("snapshot path is required when snapshots are enabled")
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 100 {
		return fmt.Errorf("matching min score must be between 0 and 100, got: %v", config.Matching.MinScore)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
