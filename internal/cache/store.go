// Package cache provides the process-wide lookup caches used by email
// resolution: company domains, domain patterns and verification verdicts.
package cache

import (
	"context"
	"time"
)

// NoExpiry keeps an entry until it is deleted or the store is reset.
const NoExpiry time.Duration = 0

// Store is a byte-oriented key/value cache.
//
// An entry whose age has reached its TTL is absent: Get reports ok=false and
// never returns the old value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	Reset(ctx context.Context) error
}
