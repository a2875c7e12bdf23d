// Package storage caches remote execution results so an identical program run
// against an identical input is only sent to the backend once.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

type ExecutionCache interface {
	// Get returns the cached result for key and whether it was present.
	Get(ctx context.Context, key string) (solution.ExecutionResult, bool)
	Set(ctx context.Context, key string, result solution.ExecutionResult)
}

// ExecutionKey hashes everything that influences the backend's answer.
func ExecutionKey(language, version, source, stdin string) string {
	h := sha256.New()
	for _, part := range []string{language, version, source, stdin} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NewExecutionCache picks the backend named by kind ("none", "memory" or "redis").
func NewExecutionCache(kind string, ttl time.Duration, redisOpts RedisOptions) (ExecutionCache, error) {
	switch kind {
	case constants.ExecutionCacheNone:
		return nil, nil
	case constants.ExecutionCacheMemory:
		return NewMemoryCache(ttl, constants.CacheMaxEntries), nil
	case constants.ExecutionCacheRedis:
		return NewRedisCache(redisOpts, ttl), nil
	default:
		return nil, errors.ErrUnknownCacheBackend
	}
}

type cacheEntry struct {
	result   solution.ExecutionResult
	cachedAt time.Time
}

type memoryCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     *zap.SugaredLogger
}

type MemoryCache interface {
	ExecutionCache
	// CleanExpired drops every entry older than the TTL and returns how many were removed.
	CleanExpired() int
	Len() int
}

func NewMemoryCache(ttl time.Duration, maxEntries int) MemoryCache {
	return newMemoryCache(ttl, maxEntries, time.Now)
}

func newMemoryCache(ttl time.Duration, maxEntries int, now func() time.Time) *memoryCache {
	return &memoryCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		logger:     logger.NewNamedLogger("cache"),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (solution.ExecutionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return solution.ExecutionResult{}, false
	}
	if c.ttl > 0 && c.now().Sub(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.logger.Debugf("Cache entry %s expired", key)
		return solution.ExecutionResult{}, false
	}
	return entry.result, true
}

func (c *memoryCache) Set(_ context.Context, key string, result solution.ExecutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestEntry()
	}
	c.entries[key] = cacheEntry{result: result, cachedAt: c.now()}
	c.logger.Debugf("Cached execution result %s", key)
}

func (c *memoryCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.cachedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Infof("Cleaned %d expired cache entries", removed)
	}
	return removed
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestEntry must be called with mu held.
func (c *memoryCache) evictOldestEntry() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
		c.logger.Debugf("Evicted oldest cache entry: %s", oldestKey)
	}
}

// SweepExpired runs CleanExpired every interval until ctx is done.
func SweepExpired(ctx context.Context, cache MemoryCache, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cache.CleanExpired()
		}
	}
}
