package storage

import "time"

func NewMemoryCacheWithClock(ttl time.Duration, maxEntries int, now func() time.Time) MemoryCache {
	return newMemoryCache(ttl, maxEntries, now)
}
