// Package redis implements core.ClaimStore on Redis for idempotent ledger writes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/BloodBank/internal/config"
	"github.com/JonMunkholm/BloodBank/internal/core"
)

const idempotencyKeyPrefix = "idem:"

// Claims records idempotency keys with SETNX and a TTL.
type Claims struct {
	client *redis.Client
	ttl    time.Duration
}

// Verify interface compliance
var _ core.ClaimStore = (*Claims)(nil)

// Connect opens a client from cfg and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewClaims remembers claimed keys for ttl.
func NewClaims(client *redis.Client, ttl time.Duration) *Claims {
	return &Claims{client: client, ttl: ttl}
}

// Claim returns true the first time key is seen within the TTL.
func (c *Claims) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return ok, nil
}

// Release forgets key so a failed request can be retried.
func (c *Claims) Release(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
