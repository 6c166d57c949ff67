// Package kv defines the key/value contract the client persists small
// records through, and a typed, namespaced view over it.
package kv

import (
	"context"
	"time"
)

// KV is a persistent key/value store with JSON values.
// Get on a missing or expired key returns an error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
}
