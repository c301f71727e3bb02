// Package store is the expiring key/value layer behind async task state and
// captcha challenges. Redis backs it in deployment; the in-memory variant
// covers single-process setups and tests.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound covers both missing and expired keys.
var ErrNotFound = errors.New("store: key not found")

type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
