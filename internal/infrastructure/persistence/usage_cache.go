package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appbilling "github.com/tracepulse/backend/internal/application/billing"
	"github.com/tracepulse/backend/internal/domain/billing"
	"github.com/tracepulse/backend/internal/infrastructure/config"
)

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisUsageCache caches usage snapshots in Redis with a short TTL.
// The dashboard polls usage frequently; the cache keeps those reads off
// the users table.
type RedisUsageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUsageCache creates a usage snapshot cache
func NewRedisUsageCache(client *redis.Client, ttl time.Duration) *RedisUsageCache {
	return &RedisUsageCache{client: client, ttl: ttl}
}

func usageCacheKey(userID uuid.UUID) string {
	return "usage:" + userID.String()
}

// Get retrieves a cached snapshot; a miss returns (nil, nil)
func (c *RedisUsageCache) Get(ctx context.Context, userID uuid.UUID) (*billing.UsageSnapshot, error) {
	data, err := c.client.Get(ctx, usageCacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot billing.UsageSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cached usage snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set stores a snapshot with the configured TTL
func (c *RedisUsageCache) Set(ctx context.Context, userID uuid.UUID, snapshot billing.UsageSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode usage snapshot: %w", err)
	}
	return c.client.Set(ctx, usageCacheKey(userID), data, c.ttl).Err()
}

// Invalidate drops the cached snapshot for a user
func (c *RedisUsageCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, usageCacheKey(userID)).Err()
}

// Ensure RedisUsageCache implements SnapshotCache
var _ appbilling.SnapshotCache = (*RedisUsageCache)(nil)
