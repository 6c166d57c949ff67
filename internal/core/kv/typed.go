package kv

import (
	"context"
	"time"
)

// Typed reads and writes values of a single type under one namespace.
type Typed[T any] struct {
	store  KV
	prefix string
}

// Scoped returns a Typed[T] whose keys are stored as "namespace:key".
func Scoped[T any](store KV, namespace string) *Typed[T] {
	return &Typed[T]{
		store:  store,
		prefix: namespace + ":",
	}
}

// Key returns the full key stored for key.
func (t *Typed[T]) Key(key string) string {
	return t.prefix + key
}

// Get decodes the value stored under key.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	if err := t.store.Get(ctx, t.Key(key), &v); err != nil {
		return v, err
	}
	return v, nil
}

// Set stores value with no expiry.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	return t.store.Set(ctx, t.Key(key), value)
}

// SetTTL stores value until ttl has passed.
func (t *Typed[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.SetTTL(ctx, t.Key(key), value, ttl)
}

// Delete removes key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.Key(key))
}

// Has reports whether key holds a live value.
func (t *Typed[T]) Has(ctx context.Context, key string) (bool, error) {
	return t.store.Has(ctx, t.Key(key))
}
