// Package cache implements the cache-aside layer shared by the read paths.
//
// A Store is a disposable byte store with per-entry TTL. Aside wraps a Store
// with a typed read-through loader: hits never touch the loader, misses load,
// encode and store the value with an absolute expiry, and Store failures
// degrade to calling the loader directly.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
