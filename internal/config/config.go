// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the analytics engine configuration.
type Config struct {
	Port int `env:"ENGINE_PORT" envDefault:"8090"`

	// Upstream feeds
	OddsFeedURL        string `env:"ODDS_FEED_URL" envDefault:"https://api.the-odds-api.com"`
	OddsAPIKey         string `env:"ODDS_API_KEY"`
	PerformanceFeedURL string `env:"PERFORMANCE_FEED_URL" envDefault:"http://localhost:8095"`

	// Persistence. Empty values fall back to in-memory stores.
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Windows (parsed as seconds)
	MetricBucketSec     int `env:"METRIC_BUCKET_SEC" envDefault:"3600"`
	MetricsTTLSec       int `env:"METRICS_TTL_SEC" envDefault:"300"`
	InsightTTLSec       int `env:"INSIGHT_TTL_SEC" envDefault:"180"`
	RefreshIntervalSec  int `env:"REFRESH_INTERVAL_SEC" envDefault:"180"`
	AggregateTimeoutSec int `env:"AGGREGATE_TIMEOUT_SEC" envDefault:"10"`

	// Computed durations (not from env)
	MetricBucket     time.Duration `env:"-"`
	MetricsTTL       time.Duration `env:"-"`
	InsightTTL       time.Duration `env:"-"`
	RefreshInterval  time.Duration `env:"-"`
	AggregateTimeout time.Duration `env:"-"`

	// HTTP
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.MetricBucket = time.Duration(cfg.MetricBucketSec) * time.Second
	cfg.MetricsTTL = time.Duration(cfg.MetricsTTLSec) * time.Second
	cfg.InsightTTL = time.Duration(cfg.InsightTTLSec) * time.Second
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSec) * time.Second
	cfg.AggregateTimeout = time.Duration(cfg.AggregateTimeoutSec) * time.Second

	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.MetricBucket < time.Second {
		return fmt.Errorf("metric bucket must be at least 1 second")
	}
	if c.InsightTTL < time.Second {
		return fmt.Errorf("insight TTL must be at least 1 second")
	}
	if c.MetricsTTL < c.InsightTTL {
		return fmt.Errorf("metrics TTL must not be shorter than insight TTL")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
