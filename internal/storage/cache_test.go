package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mini-maxit/grader/internal/storage"
	"github.com/mini-maxit/grader/pkg/constants"
	customErrors "github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/solution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestExecutionKey(t *testing.T) {
	a := storage.ExecutionKey("python", "3.10.0", "print(1)", "1")
	assert.Len(t, a, 64)
	assert.Equal(t, a, storage.ExecutionKey("python", "3.10.0", "print(1)", "1"))

	// Field boundaries are significant.
	assert.NotEqual(t, storage.ExecutionKey("ab", "", "c", ""), storage.ExecutionKey("a", "b", "c", ""))
	assert.NotEqual(t, a, storage.ExecutionKey("python", "3.10.0", "print(1)", "2"))
	assert.NotEqual(t, a, storage.ExecutionKey("java", "3.10.0", "print(1)", "1"))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	cache := storage.NewMemoryCache(time.Minute, 10)

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Set(ctx, "k", solution.Succeeded("odd", 12))
	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, solution.Succeeded("odd", 12), got)
	assert.Equal(t, 1, cache.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cache := storage.NewMemoryCacheWithClock(time.Minute, 10, clock.now)

	cache.Set(ctx, "a", solution.Succeeded("1", 0))
	clock.advance(30 * time.Second)
	cache.Set(ctx, "b", solution.Succeeded("2", 0))

	clock.advance(45 * time.Second)
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok, "entry older than the TTL must miss")
	_, ok = cache.Get(ctx, "b")
	assert.True(t, ok)

	clock.advance(time.Minute)
	assert.Equal(t, 1, cache.CleanExpired())
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	cache := storage.NewMemoryCacheWithClock(time.Hour, 2, clock.now)

	cache.Set(ctx, "first", solution.Succeeded("1", 0))
	clock.advance(time.Second)
	cache.Set(ctx, "second", solution.Succeeded("2", 0))
	clock.advance(time.Second)
	cache.Set(ctx, "third", solution.Succeeded("3", 0))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get(ctx, "first")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "third")
	assert.True(t, ok)

	// Overwriting an existing key does not evict.
	cache.Set(ctx, "third", solution.Succeeded("33", 0))
	assert.Equal(t, 2, cache.Len())
	_, ok = cache.Get(ctx, "second")
	assert.True(t, ok)
}

func TestSweepExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cache := storage.NewMemoryCache(10*time.Millisecond, 10)
	cache.Set(ctx, "k", solution.Succeeded("1", 0))

	done := make(chan struct{})
	go func() {
		storage.SweepExpired(ctx, cache, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return cache.Len() == 0 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("sweeper did not stop after cancellation")
	}
}

func TestNewExecutionCache(t *testing.T) {
	c, err := storage.NewExecutionCache(constants.ExecutionCacheNone, time.Minute, storage.RedisOptions{})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = storage.NewExecutionCache(constants.ExecutionCacheMemory, time.Minute, storage.RedisOptions{})
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = storage.NewExecutionCache("disk", time.Minute, storage.RedisOptions{})
	assert.ErrorIs(t, err, customErrors.ErrUnknownCacheBackend)
}

type fakeRedis struct {
	data   map[string]string
	getErr error
	setErr error
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := storage.NewRedisCacheWithClient(client, 5*time.Minute)

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.Set(ctx, "k", solution.Succeeded("even", 3.5))
	assert.Contains(t, client.data, constants.RedisKeyPrefix+"k")
	assert.Equal(t, 5*time.Minute, client.ttls[constants.RedisKeyPrefix+"k"])

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, solution.Succeeded("even", 3.5), got)
}

func TestRedisCache_ErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := storage.NewRedisCacheWithClient(client, time.Minute)

	client.data[constants.RedisKeyPrefix+"bad"] = "{not json"
	_, ok := cache.Get(ctx, "bad")
	assert.False(t, ok)

	client.getErr = errors.New("connection refused")
	_, ok = cache.Get(ctx, "bad")
	assert.False(t, ok)

	client.setErr = errors.New("connection refused")
	assert.NotPanics(t, func() { cache.Set(ctx, "x", solution.Failed("boom")) })
}
