package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"price-scout/models"
	"price-scout/utils"
)

const (
	defaultKeyPrefix  = "pricescout:search:"
	connectionTimeout = 5 * time.Second
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis: address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Address, err)
	}
	return client, nil
}

// RedisCache stores aggregated results in Redis with a TTL set at write time,
// so expiry is enforced by the server.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *utils.Logger
}

// NewRedisCache wraps client. A non-positive ttl uses DefaultTTL.
func NewRedisCache(client redis.Cmdable, ttl time.Duration, logger *utils.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, prefix: defaultKeyPrefix, logger: logger}
}

// Get treats transport and decode errors as a miss; they are logged, not returned.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.AggregatedResult, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("[cache] redis get %q failed: %v", key, err)
		return nil, false
	}

	var result models.AggregatedResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("[cache] redis entry %q is not a valid result: %v", key, err)
		return nil, false
	}
	if result.Results == nil {
		result.Results = []*models.Listing{}
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value *models.AggregatedResult) error {
	if value == nil {
		return ErrNilResult
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis cache: encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set %q: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Has(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		c.logger.Warn("[cache] redis exists %q failed: %v", key, err)
		return false
	}
	return n > 0
}
