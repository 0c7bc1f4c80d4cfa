package cache

import (
	"context"
	"time"
)

// Cache stores JSON encoded values under string keys
type Cache interface {
	// GetJSON decodes the cached value into dest. found is false on a miss.
	GetJSON(ctx context.Context, key string, dest interface{}) (found bool, err error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Noop never stores anything; every lookup is a miss. Used when Redis is disabled.
type Noop struct{}

// GetJSON always misses
func (Noop) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }

// SetJSON discards the value
func (Noop) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

// Delete does nothing
func (Noop) Delete(context.Context, ...string) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }
