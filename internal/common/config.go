package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment" validate:"omitempty,oneof=development production"`
	Provider    ProviderConfig `toml:"provider" validate:"required"`
	Cache       CacheConfig    `toml:"cache" validate:"required"`
	Logging     LoggingConfig  `toml:"logging" validate:"required"`
}

// ProviderConfig configures the upstream market data API.
type ProviderConfig struct {
	BaseURL   string `toml:"base_url" validate:"required,url"`
	APIKey    string `toml:"api_key"`
	Timeout   string `toml:"timeout"`                     // e.g. "30s"
	RateLimit int    `toml:"rate_limit" validate:"gte=0"` // requests per second, 0 = default
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	DefaultTTLSeconds int    `toml:"default_ttl_seconds" validate:"gte=0"`
	CleanupSchedule   string `toml:"cleanup_schedule"` // cron expression, empty disables sweeps
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
}

// NewDefaultConfig returns the baseline configuration before file and
// environment overrides.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Provider: ProviderConfig{
			BaseURL:   "http://localhost:8200",
			Timeout:   "30s",
			RateLimit: 10,
		},
		Cache: CacheConfig{
			DefaultTTLSeconds: 3600,
			CleanupSchedule:   "@every 10m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env.
// A missing file keeps the defaults; a present but unreadable file is an
// error.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration using go-playground/validator tags.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("QUANTLENS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if baseURL := os.Getenv("QUANTLENS_PROVIDER_BASE_URL"); baseURL != "" {
		config.Provider.BaseURL = baseURL
	}
	if apiKey := os.Getenv("QUANTLENS_PROVIDER_API_KEY"); apiKey != "" {
		config.Provider.APIKey = apiKey
	}
	if timeout := os.Getenv("QUANTLENS_PROVIDER_TIMEOUT"); timeout != "" {
		config.Provider.Timeout = timeout
	}
	if rateLimit := os.Getenv("QUANTLENS_PROVIDER_RATE_LIMIT"); rateLimit != "" {
		if v, err := strconv.Atoi(rateLimit); err == nil {
			config.Provider.RateLimit = v
		}
	}

	if ttl := os.Getenv("QUANTLENS_CACHE_DEFAULT_TTL_SECONDS"); ttl != "" {
		if v, err := strconv.Atoi(ttl); err == nil {
			config.Cache.DefaultTTLSeconds = v
		}
	}
	if schedule := os.Getenv("QUANTLENS_CACHE_CLEANUP_SCHEDULE"); schedule != "" {
		config.Cache.CleanupSchedule = schedule
	}

	if level := os.Getenv("QUANTLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("QUANTLENS_LOG_OUTPUT"); output != "" {
		parts := strings.Split(output, ",")
		outputs := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				outputs = append(outputs, p)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}
