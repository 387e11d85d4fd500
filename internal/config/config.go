// Package config provides centralized configuration management for the blood bank service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Ledger attribution policies accepted by LEDGER_ATTRIBUTION.
const (
	AttributionScoped   = "scoped"
	AttributionObserved = "observed"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Ledger   LedgerConfig
	Monitor  MonitorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 15s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// StoreConfig selects the storage backend for users and the ledger.
type StoreConfig struct {
	// Driver is one of postgres, mongo, memory (default: postgres)
	Driver string `env:"STORE_DRIVER" default:"postgres"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required when STORE_DRIVER=postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string (required when STORE_DRIVER=mongo)
	URI string `env:"MONGO_URI" envAlt:"MONGO_URL"`

	// Database is the database name (default: bloodbank)
	Database string `env:"MONGO_DATABASE" default:"bloodbank"`

	// ConnectTimeout bounds the initial connect and ping (default: 10s)
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// RedisConfig holds Redis settings for the idempotency guard.
// Leaving Addr empty disables the guard.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" default:"0"`

	// PoolSize is the maximum number of socket connections (default: 20)
	PoolSize int `env:"REDIS_POOL_SIZE" default:"20"`

	// IdempotencyTTL is how long a claimed Idempotency-Key is remembered (default: 24h)
	IdempotencyTTL time.Duration `env:"REDIS_IDEMPOTENCY_TTL" default:"24h"`
}

// KafkaConfig holds ledger event publishing settings.
// Leaving Brokers empty disables publishing.
type KafkaConfig struct {
	// Brokers is a comma-separated list of broker addresses
	Brokers []string `env:"KAFKA_BROKERS"`

	// Topic receives inventory.recorded and stock.low events (default: bloodbank.ledger)
	Topic string `env:"KAFKA_TOPIC" default:"bloodbank.ledger"`
}

// CORSConfig holds cross-origin settings for the browser client.
type CORSConfig struct {
	// AllowedOrigins is a comma-separated list of origins (default: *)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per client IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// LedgerConfig holds inventory ledger behaviour.
type LedgerConfig struct {
	// Attribution selects the record attribution table: scoped or observed (default: scoped)
	Attribution string `env:"LEDGER_ATTRIBUTION" default:"scoped"`

	// RecentLimit caps the unscoped recent-records listing (default: 1000)
	RecentLimit int `env:"LEDGER_RECENT_LIMIT" default:"1000"`

	// MaxQuantityML caps a single record's quantity (default: 1000000)
	MaxQuantityML int64 `env:"LEDGER_MAX_QUANTITY_ML" default:"1000000"`
}

// MonitorConfig holds low-stock monitor settings.
type MonitorConfig struct {
	// Enabled starts the background monitor (default: true)
	Enabled bool `env:"MONITOR_ENABLED" default:"true"`

	// Interval is how often stock is checked (default: 15m)
	Interval time.Duration `env:"MONITOR_INTERVAL" default:"15m"`

	// LowStockML is the availability below which a group is reported (default: 1000)
	LowStockML int64 `env:"MONITOR_LOW_STOCK_ML" default:"1000"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
