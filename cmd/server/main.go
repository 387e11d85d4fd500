package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/BloodBank/internal/config"
	"github.com/JonMunkholm/BloodBank/internal/core"
	"github.com/JonMunkholm/BloodBank/internal/events"
	"github.com/JonMunkholm/BloodBank/internal/logging"
	"github.com/JonMunkholm/BloodBank/internal/storage/memory"
	"github.com/JonMunkholm/BloodBank/internal/storage/mongo"
	"github.com/JonMunkholm/BloodBank/internal/storage/postgres"
	"github.com/JonMunkholm/BloodBank/internal/storage/redis"
	"github.com/JonMunkholm/BloodBank/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	opts := core.Options{RecentLimit: cfg.Ledger.RecentLimit, MaxQuantity: cfg.Ledger.MaxQuantityML}

	opts.Policy, err = core.ParseAttributionPolicy(cfg.Ledger.Attribution)
	if err != nil {
		slog.Error("invalid attribution policy", "error", err)
		os.Exit(1)
	}

	// Idempotency keys need Redis; without it the guard is a no-op.
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		opts.Claims = redis.NewClaims(client, cfg.Redis.IdempotencyTTL)
		slog.Info("idempotency guard enabled", "ttl", cfg.Redis.IdempotencyTTL.String())
	}

	publisher := events.Noop()
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		slog.Info("publishing ledger events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close event publisher", "error", err)
		}
	}()
	opts.Events = publisher

	service := core.NewService(store, opts)
	slog.Info("ledger service ready",
		"attribution", service.Policy(),
		"recent_limit", cfg.Ledger.RecentLimit,
		"max_quantity_ml", cfg.Ledger.MaxQuantityML,
	)
	server := web.NewServer(service, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Monitor.Enabled {
		go service.StartStockMonitor(jobCtx, core.MonitorConfig{
			Interval:   cfg.Monitor.Interval,
			LowStockML: cfg.Monitor.LowStockML,
		})
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// openStore connects the configured ledger backend and prepares its
// schema. The returned func releases the connection.
func openStore(ctx context.Context, cfg *config.Config) (core.Store, func(), error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.New(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("connected to postgres", "max_conns", cfg.Database.MaxConns)
		return store, pool.Close, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				slog.Warn("mongo disconnect failed", "error", err)
			}
		}
		store := mongo.New(client, cfg.Mongo.Database)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeClient()
			return nil, nil, err
		}
		slog.Info("connected to mongo", "database", cfg.Mongo.Database)
		return store, closeClient, nil

	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
