package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerfeed/backend/internal/application/adapter"
)

// memoryCacheEntry tracks one cached value and its expiry.
type memoryCacheEntry struct {
	value     string
	expiresAt time.Time
}

// memoryFeedCache implements the adapter.FeedCache interface in process
// memory, for deployments that run without Redis.
type memoryFeedCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

// NewMemoryFeedCache creates a new in-memory feed cache instance.
func NewMemoryFeedCache() adapter.FeedCache {
	return &memoryFeedCache{entries: make(map[string]memoryCacheEntry)}
}

// Get retrieves a cached value.
func (c *memoryFeedCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores a value with a time to live.
func (c *memoryFeedCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryCacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a cached value.
func (c *memoryFeedCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// memorySyncLocker implements the adapter.SyncLocker interface in process
// memory. It only excludes syncs within a single process.
type memorySyncLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewMemorySyncLocker creates a new in-memory sync locker instance.
func NewMemorySyncLocker() adapter.SyncLocker {
	return &memorySyncLocker{locks: make(map[string]time.Time)}
}

// Acquire takes the lock for a key.
func (l *memorySyncLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, held := l.locks[key]; held && now.Before(expiry) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)
	return true, nil
}

// Release frees the lock for a key.
func (l *memorySyncLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, key)
	return nil
}
