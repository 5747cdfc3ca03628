package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the pricetag service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Catalog backend: "file" loads a JSON catalog into memory,
	// "postgres" queries the products table.
	CatalogBackend string `env:"CATALOG_BACKEND" envDefault:"file"`
	CatalogPath    string `env:"CATALOG_PATH" envDefault:"catalog.json"`

	// PostgreSQL (catalog backend "postgres")
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"pricetag"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"pricetag_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"pricetag_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis session store; empty keeps sessions in process memory.
	RedisURL        string `env:"REDIS_URL" envDefault:""`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"72"`

	// Label pipeline
	ImageFetchTimeoutSeconds int    `env:"IMAGE_FETCH_TIMEOUT_SECONDS" envDefault:"5"`
	ImageFit                 string `env:"IMAGE_FIT" envDefault:"contain"`
	BarcodeCacheSize         int    `env:"BARCODE_CACHE_SIZE" envDefault:"512"`
	ProductCacheSize         int    `env:"PRODUCT_CACHE_SIZE" envDefault:"2000"`
	DigitFallback            bool   `env:"DIGIT_FALLBACK" envDefault:"true"`

	// Bot command layer
	BulkCommandMax int    `env:"BULK_COMMAND_MAX" envDefault:"100"`
	BotOutputDir   string `env:"BOT_OUTPUT_DIR" envDefault:"."`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogBackend {
	case "file", "postgres":
	default:
		return fmt.Errorf("invalid CATALOG_BACKEND %q, must be file or postgres", c.CatalogBackend)
	}
	switch c.ImageFit {
	case "contain", "cover":
	default:
		return fmt.Errorf("invalid IMAGE_FIT %q, must be contain or cover", c.ImageFit)
	}
	if c.ImageFetchTimeoutSeconds < 1 {
		return fmt.Errorf("IMAGE_FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.BulkCommandMax < 1 {
		return fmt.Errorf("BULK_COMMAND_MAX must be positive")
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
