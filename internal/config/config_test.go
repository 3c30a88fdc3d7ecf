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
	assert.Equal(t, 8010, cfg.HTTPPort)
	assert.Equal(t, "elasticsearch", cfg.SearchEngine)
	assert.Equal(t, "http://localhost:9200", cfg.ElasticsearchURL)
	assert.Equal(t, "ecommerce_", cfg.ElasticsearchPrefix)
	assert.True(t, cfg.FuzzySearch)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 10*time.Minute, cfg.SyncWindow)
	assert.Equal(t, 3, cfg.FullReindexHour)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "search-service", cfg.KafkaConsumerGroup)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("SEARCH_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSearchEngine(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "sqlite")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid search engine")
}

func TestLoad_WindowMustCoverInterval(t *testing.T) {
	t.Setenv("SEARCH_SYNC_INTERVAL", "10m")
	t.Setenv("SEARCH_SYNC_WINDOW", "5m")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync window")
}

func TestLoad_InvalidReindexHour(t *testing.T) {
	t.Setenv("SEARCH_FULL_REINDEX_HOUR", "24")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid full reindex hour")
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "memory")
	t.Setenv("ELASTICSEARCH_URL", "http://es.prod:9200")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SEARCH_FUZZY", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.SearchEngine)
	assert.Equal(t, "http://es.prod:9200", cfg.ElasticsearchURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.FuzzySearch)
}

func TestPostgresAndRedisConfig(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, "ecommerce", pg.DBName)

	rd := cfg.Redis()
	assert.Equal(t, "cache.internal", rd.Host)
	assert.Equal(t, "cache.internal:6379", rd.Addr())
}
