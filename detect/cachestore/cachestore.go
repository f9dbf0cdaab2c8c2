package cachestore

import (
	"context"
)

// CacheStore holds serialized analysis results for a bounded time window.
// Values are opaque strings (JSON payloads); a Get miss or expired entry
// returns the empty string with a nil error.
type CacheStore interface {
	Get(ctx context.Context, name, key string) (string, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}
