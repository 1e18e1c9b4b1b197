package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/infrastructure/config"
)

// RedisSubmissionGuard implements payables.IdempotencyStore using Redis.
// SETNX gives the single-in-flight guarantee across process instances.
type RedisSubmissionGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSubmissionGuard creates a Redis-backed submission guard
func NewRedisSubmissionGuard(cfg config.RedisConfig) (*RedisSubmissionGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSubmissionGuard{
		client:    client,
		keyPrefix: "guard:",
	}, nil
}

// NewRedisSubmissionGuardWithClient creates a guard with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisSubmissionGuardWithClient(client *redis.Client, keyPrefix string) *RedisSubmissionGuard {
	if keyPrefix == "" {
		keyPrefix = "guard:"
	}
	return &RedisSubmissionGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire claims the key for the TTL. Returns true if newly claimed,
// false if another holder exists.
func (g *RedisSubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submission claim: %w", err)
	}
	return claimed, nil
}

// Release frees the key. Releasing an unclaimed key is a no-op.
func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release submission claim: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisSubmissionGuard) Close() error {
	return g.client.Close()
}

var _ payables.IdempotencyStore = (*RedisSubmissionGuard)(nil)
