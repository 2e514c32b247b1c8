package config

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go-gold-exchange/exchange"
	"go-gold-exchange/gold"
	"go-gold-exchange/ratesapi"
)

// Config holds application configuration.
type Config struct {
	Port string

	// RatesURL latest rates document keyed against USD
	RatesURL      string
	RatesCacheTTL time.Duration

	// GoldFeedURL empty selects the static gold price
	GoldFeedURL   string
	GoldMockPrice float64

	FetchTimeout time.Duration
	// RefreshInterval zero disables periodic refresh
	RefreshInterval time.Duration

	MissingRatePolicy exchange.Policy
	LogLevel          string
	// RefreshRateLimit limiter rate format, e.g. "30-M"
	RefreshRateLimit string
}

// Load loads configuration from environment variables and a .env file if present.
func Load(logger log.Logger) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("RATES_URL", ratesapi.DefaultURL)
	v.SetDefault("RATES_CACHE_TTL", "1m")
	v.SetDefault("GOLD_FEED_URL", "")
	v.SetDefault("GOLD_MOCK_PRICE", float64(gold.DefaultPricePerGram))
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("REFRESH_INTERVAL", "0s")
	v.SetDefault("MISSING_RATE_POLICY", "strict")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REFRESH_RATE_LIMIT", "30-M")
	v.AutomaticEnv()

	return fromViper(v, logger)
}

func fromViper(v *viper.Viper, logger log.Logger) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		RatesURL:         v.GetString("RATES_URL"),
		GoldFeedURL:      v.GetString("GOLD_FEED_URL"),
		GoldMockPrice:    v.GetFloat64("GOLD_MOCK_PRICE"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		RefreshRateLimit: v.GetString("REFRESH_RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		level.Warn(logger).Log("msg", "PORT not set, using default", "port", cfg.Port)
	}

	cfg.RatesCacheTTL = duration(v, logger, "RATES_CACHE_TTL", time.Minute)
	cfg.FetchTimeout = duration(v, logger, "FETCH_TIMEOUT", 5*time.Second)
	cfg.RefreshInterval = duration(v, logger, "REFRESH_INTERVAL", 0)

	if cfg.GoldMockPrice <= 0 {
		return nil, fmt.Errorf("GOLD_MOCK_PRICE must be positive, got %v", cfg.GoldMockPrice)
	}

	policy, err := exchange.ParsePolicy(v.GetString("MISSING_RATE_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("MISSING_RATE_POLICY: %w", err)
	}
	cfg.MissingRatePolicy = policy

	return cfg, nil
}

// duration reads key as a time.Duration, falling back to def with a warning when unparsable.
func duration(v *viper.Viper, logger log.Logger, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		level.Warn(logger).Log("msg", "invalid duration, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}

// LevelOption maps LOG_LEVEL to a go-kit level filter.
func (c *Config) LevelOption() level.Option {
	switch c.LogLevel {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
