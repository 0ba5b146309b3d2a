package ports

import (
	"context"
	"time"
)

// Cache is a small key/value cache. Get returns ("", nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// SetNX sets the key only when absent and reports whether it was set.
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
