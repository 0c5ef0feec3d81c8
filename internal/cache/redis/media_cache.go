// Package redis provides a redis-backed media result cache keyed by exact
// request identity.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nvoss/hearth/internal/domain"
)

const keyPrefix = "hearth:media:"

// MediaCache implements domain.MediaCache on top of redis.
type MediaCache struct {
	client *redis.Client
}

// Config contains redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewMediaCache creates a new redis media cache and verifies connectivity.
func NewMediaCache(ctx context.Context, config Config) (*MediaCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &MediaCache{client: client}, nil
}

// Get retrieves a cached media result, or domain.ErrCacheMiss.
func (c *MediaCache) Get(ctx context.Context, req *domain.MediaRequest) (*domain.MediaResult, error) {
	key := keyPrefix + domain.MediaCacheKey(req)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var result domain.MediaResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}

	return &result, nil
}

// Set stores a media result with a TTL.
func (c *MediaCache) Set(
	ctx context.Context,
	req *domain.MediaRequest,
	res *domain.MediaResult,
	ttl time.Duration,
) error {
	encoded, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	key := keyPrefix + domain.MediaCacheKey(req)
	if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}

	return nil
}

// Close releases the redis connection.
func (c *MediaCache) Close() error {
	return c.client.Close()
}
