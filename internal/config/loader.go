package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := populate(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// populate walks the config sections and fills each tagged field.
func populate(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := populate(fv); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		raw, err := lookup(field.Tag)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}

		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}

	return nil
}

// lookup resolves a field's raw value: primary env var, then alternate, then default.
func lookup(tag reflect.StructTag) (string, error) {
	name := tag.Get("env")

	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if alt := tag.Get("envAlt"); alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, nil
		}
	}
	if tag.Get("required") == "true" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return tag.Get("default"), nil
}

// assign converts raw into the field's type.
func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)

	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)

	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem().Kind())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))

	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Store.Driver) {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, "MONGO_URI is required when STORE_DRIVER=mongo")
		}
		if c.Mongo.Database == "" {
			errs = append(errs, "MONGO_DATABASE must not be empty")
		}
		if c.Mongo.ConnectTimeout <= 0 {
			errs = append(errs, "MONGO_CONNECT_TIMEOUT must be positive")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER (%q) must be one of: postgres, mongo, memory", c.Store.Driver))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	if c.Redis.Addr != "" && c.Redis.IdempotencyTTL <= 0 {
		errs = append(errs, "REDIS_IDEMPOTENCY_TTL must be positive when REDIS_ADDR is set")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, "KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}

	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	validAttribution := map[string]bool{AttributionScoped: true, AttributionObserved: true}
	if !validAttribution[strings.ToLower(c.Ledger.Attribution)] {
		errs = append(errs, fmt.Sprintf("LEDGER_ATTRIBUTION (%q) must be one of: scoped, observed", c.Ledger.Attribution))
	}
	if c.Ledger.RecentLimit <= 0 {
		errs = append(errs, "LEDGER_RECENT_LIMIT must be positive")
	}
	if c.Ledger.MaxQuantityML <= 0 {
		errs = append(errs, "LEDGER_MAX_QUANTITY_ML must be positive")
	}

	if c.Monitor.Enabled {
		if c.Monitor.Interval <= 0 {
			errs = append(errs, "MONITOR_INTERVAL must be positive when the monitor is enabled")
		}
		if c.Monitor.LowStockML < 0 {
			errs = append(errs, "MONITOR_LOW_STOCK_ML must be non-negative")
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Connection strings and passwords are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Store: {Driver: %q}, ", c.Store.Driver)
	fmt.Fprintf(&b, "Database: {URL: %s, MaxConns: %d, MinConns: %d}, ",
		mask(c.Database.URL), c.Database.MaxConns, c.Database.MinConns)
	fmt.Fprintf(&b, "Mongo: {URI: %s, Database: %q}, ", mask(c.Mongo.URI), c.Mongo.Database)
	fmt.Fprintf(&b, "Redis: {Addr: %q, Password: %s}, ", c.Redis.Addr, mask(c.Redis.Password))
	fmt.Fprintf(&b, "Kafka: {Brokers: %v, Topic: %q}, ", c.Kafka.Brokers, c.Kafka.Topic)
	fmt.Fprintf(&b, "Ledger: {Attribution: %q, RecentLimit: %d}, ", c.Ledger.Attribution, c.Ledger.RecentLimit)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return `""`
	}
	return "[MASKED]"
}
