package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kataras/golog"
	"golang.org/x/sync/singleflight"
)

// Typed stores JSON-encoded values of type T under a key namespace.
//
// Store failures are logged and treated as misses.
type Typed[T any] struct {
	store     Store
	namespace string
	ttl       time.Duration
	group     singleflight.Group
	logger    *golog.Logger
}

// NewTyped builds a typed cache over store.
func NewTyped[T any](store Store, namespace string, ttl time.Duration, logger *golog.Logger) *Typed[T] {
	if logger == nil {
		logger = golog.Default
	}
	return &Typed[T]{store: store, namespace: namespace, ttl: ttl, logger: logger}
}

func (c *Typed[T]) key(k string) string {
	return c.namespace + ":" + k
}

// Get returns the cached value for key.
func (c *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, ok, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		c.logger.Warnf("cache get failed namespace=%s err=%v", c.namespace, err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warnf("cache decode failed namespace=%s err=%v", c.namespace, err)
		return zero, false
	}
	return v, true
}

// Set stores value under key with the cache TTL.
func (c *Typed[T]) Set(ctx context.Context, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warnf("cache encode failed namespace=%s err=%v", c.namespace, err)
		return
	}
	if err := c.store.Set(ctx, c.key(key), data, c.ttl); err != nil {
		c.logger.Warnf("cache set failed namespace=%s err=%v", c.namespace, err)
	}
}

// Fetch returns the cached value or runs load. Concurrent misses for the
// same key share one load, which runs detached from the caller's
// cancellation so one departing caller cannot fail the others. The loaded
// value is stored only when load reports it as cacheable.
func (c *Typed[T]) Fetch(ctx context.Context, key string, load func(ctx context.Context) (T, bool)) T {
	if v, ok := c.Get(ctx, key); ok {
		return v
	}
	loadCtx := context.WithoutCancel(ctx)
	res, _, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(loadCtx, key); ok {
			return v, nil
		}
		v, cacheable := load(loadCtx)
		if cacheable {
			c.Set(loadCtx, key, v)
		}
		return v, nil
	})
	return res.(T)
}

// Reset drops the entries of this namespace only.
func (c *Typed[T]) Reset(ctx context.Context) error {
	return c.store.DeletePrefix(ctx, c.namespace+":")
}
