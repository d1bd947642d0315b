package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// isolate runs the test in an empty directory so no stray config.yaml or
// .env file is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Rates.BaseURL != "https://api.frankfurter.app" {
			t.Errorf("Rates.BaseURL = %s, want https://api.frankfurter.app", cfg.Rates.BaseURL)
		}
		if cfg.Rates.Timeout != 10*time.Second {
			t.Errorf("Rates.Timeout = %v, want 10s", cfg.Rates.Timeout)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if !cfg.Snapshot.Enabled || cfg.Snapshot.Path != "chemsearch.db" {
			t.Errorf("Snapshot = %+v, want enabled at chemsearch.db", cfg.Snapshot)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("CHEMSEARCH_SERVER_PORT", "9090")
		t.Setenv("CHEMSEARCH_SERVER_ENVIRONMENT", "production")
		t.Setenv("CHEMSEARCH_RATES_BASE_URL", "https://rates.example.com")
		t.Setenv("CHEMSEARCH_RATES_API_KEY", "secret")
		t.Setenv("CHEMSEARCH_CACHE_TYPE", "redis")
		t.Setenv("CHEMSEARCH_CACHE_REDIS_URL", "redis://localhost:6379")
		t.Setenv("CHEMSEARCH_CACHE_TTL", "24h")
		t.Setenv("CHEMSEARCH_MATCHING_MIN_SCORE", "55")
		t.Setenv("CHEMSEARCH_LOG_FORMAT", "json")
		t.Setenv("CHEMSEARCH_RATELIMIT_PER_IP", "200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Rates.BaseURL != "https://rates.example.com" {
			t.Errorf("Rates.BaseURL = %s, want https://rates.example.com", cfg.Rates.BaseURL)
		}
		if cfg.Rates.APIKey != "secret" {
			t.Errorf("Rates.APIKey = %s, want secret", cfg.Rates.APIKey)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Matching.MinScore != 55 {
			t.Errorf("Matching.MinScore = %v, want 55", cfg.Matching.MinScore)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("reads config.yaml", func(t *testing.T) {
		isolate(t)
		yaml := "server:\n  port: \"7070\"\nmatching:\n  min_score: 30\n"
		if err := os.WriteFile("config.yaml", []byte(yaml), 0644); err != nil {
			t.Fatalf("Failed to write config.yaml: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Matching.MinScore != 30 {
			t.Errorf("Matching.MinScore = %v, want 30", cfg.Matching.MinScore)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		isolate(t)
		t.Setenv("CHEMSEARCH_CACHE_TYPE", "invalid")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		isolate(t)
		t.Setenv("CHEMSEARCH_CACHE_TYPE", "redis")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
		if err != nil && !strings.HasPrefix(err.Error(), "invalid configuration:") {
			t.Errorf("Load() error = %v, want invalid configuration", err)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		isolate(t)

		if err := loadEnvFile(".env"); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		isolate(t)

		envContent := `
# Comment line
CHEMSEARCH_TEST_VAR_1=value1
CHEMSEARCH_TEST_VAR_2="value two"
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("CHEMSEARCH_TEST_VAR_1")
			os.Unsetenv("CHEMSEARCH_TEST_VAR_2")
		})

		if err := loadEnvFile(".env"); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("CHEMSEARCH_TEST_VAR_1") != "value1" {
			t.Errorf("CHEMSEARCH_TEST_VAR_1 = %s, want value1", os.Getenv("CHEMSEARCH_TEST_VAR_1"))
		}
		if os.Getenv("CHEMSEARCH_TEST_VAR_2") != "value two" {
			t.Errorf("CHEMSEARCH_TEST_VAR_2 = %s, want value two", os.Getenv("CHEMSEARCH_TEST_VAR_2"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("CHEMSEARCH_TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("CHEMSEARCH_TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(".env"); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("CHEMSEARCH_TEST_OVERRIDE") != "existing-value" {
			t.Errorf("CHEMSEARCH_TEST_OVERRIDE = %s, want existing-value", os.Getenv("CHEMSEARCH_TEST_OVERRIDE"))
		}
	})

	t.Run("feeds Load", func(t *testing.T) {
		isolate(t)
		t.Cleanup(func() { os.Unsetenv("CHEMSEARCH_SERVER_PORT") })

		if err := os.WriteFile(".env", []byte("CHEMSEARCH_SERVER_PORT=6060"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "6060" {
			t.Errorf("Server.Port = %s, want 6060", cfg.Server.Port)
		}
	})
}

func validConfig() *Config {
	return &Config{
		Rates:    RatesConfig{BaseURL: "https://api.frankfurter.app"},
		Cache:    CacheConfig{Type: "memory"},
		Snapshot: SnapshotConfig{Enabled: true, Path: "chemsearch.db"},
		Log:      LogConfig{Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing rates base url", func(c *Config) { c.Rates.BaseURL = "" }, true},
		{"invalid cache type", func(c *Config) { c.Cache.Type = "invalid-type" }, true},
		{"redis with url", func(c *Config) { c.Cache.Type = "redis"; c.Cache.RedisURL = "redis://localhost:6379" }, false},
		{"redis without url", func(c *Config) { c.Cache.Type = "redis" }, true},
		{"snapshots without path", func(c *Config) { c.Snapshot.Path = "" }, true},
		{"snapshots disabled without path", func(c *Config) { c.Snapshot = SnapshotConfig{} }, false},
		{"min score too high", func(c *Config) { c.Matching.MinScore = 101 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit.PerIP = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
