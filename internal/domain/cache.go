package domain

import (
	"context"
	"time"
)

// CacheError is a sentinel raised by Cache implementations.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss means the key does not exist or has expired.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache holds short-lived auth state: revoked refresh tokens and
// failed sign-in counters. Values are plain strings.
type Cache interface {
	// Get returns ErrCacheMiss for an absent key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key; a zero ttl keeps it until deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
	// CountWithin increments the counter at key and returns the new value.
	// The window is applied when the counter is created and is not
	// extended by later increments.
	CountWithin(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}
