package config

import (
	"time"

	"github.com/beerescue/service-storefront/internal/common/config"
)

// CatalogConfig points at the external Catalog/Booking API.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig bounds per-IP request rates.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ServiceConfig holds all configuration for the storefront service.
type ServiceConfig struct {
	Port                    string
	AppEnv                  string
	DBConfig                config.DatabaseConfig
	JWTConfig               config.JWTConfig
	KafkaConfig             config.KafkaConfig
	RedisConfig             config.RedisConfig
	CatalogConfig           CatalogConfig
	RateLimit               RateLimitConfig
	ScreenTTL               time.Duration
	SessionTTL              time.Duration
	SessionPurgeInterval    time.Duration
	ReviewStatusConcurrency int
}

// Load reads configuration from STOREFRONT_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("STOREFRONT")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("CATALOG_BASE_URL", "http://localhost:8000")
	v.SetDefault("CATALOG_TIMEOUT", "10s")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("SCREEN_TTL", "30m")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_PURGE_INTERVAL", "1h")
	v.SetDefault("REVIEW_STATUS_CONCURRENCY", 4)

	concurrency := v.GetInt("REVIEW_STATUS_CONCURRENCY")
	if concurrency < 1 {
		concurrency = 1
	}

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		CatalogConfig: CatalogConfig{
			BaseURL: v.GetString("CATALOG_BASE_URL"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		ScreenTTL:               v.GetDuration("SCREEN_TTL"),
		SessionTTL:              v.GetDuration("SESSION_TTL"),
		SessionPurgeInterval:    v.GetDuration("SESSION_PURGE_INTERVAL"),
		ReviewStatusConcurrency: concurrency,
	}, nil
}
