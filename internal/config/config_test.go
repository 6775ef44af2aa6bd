package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "storefront", cfg.DBConfig.DBName)
	assert.Equal(t, 10*time.Second, cfg.CatalogConfig.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.ScreenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SessionPurgeInterval)
	assert.Equal(t, 4, cfg.ReviewStatusConcurrency)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_SERVICE_PORT", "9090")
	t.Setenv("STOREFRONT_CATALOG_BASE_URL", "https://api.example.test")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STOREFRONT_REVIEW_STATUS_CONCURRENCY", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "https://api.example.test", cfg.CatalogConfig.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 1, cfg.ReviewStatusConcurrency)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("STOREFRONT_APP_ENV", "production")
	t.Setenv("STOREFRONT_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
