package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config carries every runtime setting of the storefront. All values come
// from the environment; optional subsystems (Kafka relay, projections) stay
// disabled when their settings are empty.
type Config struct {
	HTTPPort           string
	Env                string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	// Commerce platform storefront API.
	StoreDomain     string
	StorefrontToken string
	APIVersion      string

	// Sealed session cookie.
	SessionSecret     string
	SessionCookieName string

	// Platform webhook shared secret.
	WebhookSecret string

	RedisAddr     string
	RedisPassword string

	PostgresDSN   string
	MigrationsDir string

	CatalogDBPath        string
	CatalogMigrationsDir string

	KafkaBrokers []string
	KafkaTopic   string
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")

// Load reads the configuration from the environment. It fails fast when the
// session secret is missing; everything else has a workable default or marks
// an optional subsystem as disabled.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB

		StoreDomain:     getEnv("STORE_DOMAIN", ""),
		StorefrontToken: getEnv("STOREFRONT_ACCESS_TOKEN", ""),
		APIVersion:      getEnv("STOREFRONT_API_VERSION", "2025-01"),

		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "storefront_session"),

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations/postgres"),

		CatalogDBPath:        getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrationsDir: getEnv("CATALOG_MIGRATIONS_DIR", "migrations/sqlite"),

		KafkaTopic: getEnv("KAFKA_WEBHOOK_TOPIC", "storefront-webhooks"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.SessionSecret == "" {
		return nil, ErrMissingSessionSecret
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening
// (Secure session cookies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// StorefrontEndpoint is the GraphQL endpoint of the platform storefront API.
func (c *Config) StorefrontEndpoint() string {
	return "https://" + c.StoreDomain + "/api/" + c.APIVersion + "/graphql.json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
