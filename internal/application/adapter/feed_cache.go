// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// FeedCache defines the interface for caching provider responses that change
// rarely, such as institution lists.
type FeedCache interface {
	// Get retrieves a cached value. Returns ok=false on a miss.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores a value with a time to live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a cached value.
	Delete(ctx context.Context, key string) error
}

// SyncLocker defines the interface for the mutual exclusion that keeps two
// syncs of the same link from overlapping.
type SyncLocker interface {
	// Acquire takes the lock for a key. Returns false when another holder
	// has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the lock for a key.
	Release(ctx context.Context, key string) error
}
