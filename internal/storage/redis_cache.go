package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient is the subset of *redis.Client the cache talks to.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisCache struct {
	client RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewRedisCache(opts RedisOptions, ttl time.Duration) ExecutionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisCacheWithClient(client, ttl)
}

func NewRedisCacheWithClient(client RedisClient, ttl time.Duration) ExecutionCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		logger: logger.NewNamedLogger("redis-cache"),
	}
}

// Redis failures degrade to cache misses; execution never depends on the cache.
func (c *redisCache) Get(ctx context.Context, key string) (solution.ExecutionResult, bool) {
	val, err := c.client.Get(ctx, constants.RedisKeyPrefix+key).Result()
	if err == redis.Nil {
		return solution.ExecutionResult{}, false
	}
	if err != nil {
		c.logger.Warnf("Failed to read cache entry %s: %s", key, err)
		return solution.ExecutionResult{}, false
	}

	var result solution.ExecutionResult
	if err := json.Unmarshal([]byte(val), &result); err != nil || !result.Valid() {
		c.logger.Warnf("Discarding malformed cache entry %s", key)
		return solution.ExecutionResult{}, false
	}
	return result, true
}

func (c *redisCache) Set(ctx context.Context, key string, result solution.ExecutionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warnf("Failed to encode cache entry %s: %s", key, err)
		return
	}
	if err := c.client.Set(ctx, constants.RedisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("Failed to write cache entry %s: %s", key, err)
	}
}
