// Package config loads the search service configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/chandan1708/AI-Enabled-E-commerce/pkg/config"
	"github.com/chandan1708/AI-Enabled-E-commerce/pkg/database"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Elasticsearch
	ElasticsearchURL    string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchPrefix string `env:"ELASTICSEARCH_INDEX_PREFIX" envDefault:"ecommerce_"`
	FuzzySearch         bool   `env:"SEARCH_FUZZY" envDefault:"true"`

	// Background sync
	SyncInterval    time.Duration `env:"SEARCH_SYNC_INTERVAL" envDefault:"5m"`
	SyncWindow      time.Duration `env:"SEARCH_SYNC_WINDOW" envDefault:"10m"`
	FullReindexHour int           `env:"SEARCH_FULL_REINDEX_HOUR" envDefault:"3"`

	// Catalog database
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"ecommerce"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"ecommerce_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"ecommerce"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis (trending cache)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"search-service"`

	// Admin auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.SearchEngine != "elasticsearch" && c.SearchEngine != "memory" {
		return fmt.Errorf("invalid search engine: %s", c.SearchEngine)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive: %s", c.SyncInterval)
	}
	if c.SyncWindow < c.SyncInterval {
		return fmt.Errorf("sync window %s must cover the sync interval %s", c.SyncWindow, c.SyncInterval)
	}
	if c.FullReindexHour < 0 || c.FullReindexHour > 23 {
		return fmt.Errorf("invalid full reindex hour: %d", c.FullReindexHour)
	}
	return nil
}

// Postgres returns the catalog database connection configuration.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// Redis returns the cache connection configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
