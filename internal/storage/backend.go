package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by a Backend when nothing is stored under a key
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnavailable marks a collection that could not be read because the
	// backend is missing or failing
	ErrUnavailable = errors.New("storage unavailable")
	// ErrMalformed marks a stored value that could not be parsed
	ErrMalformed = errors.New("malformed stored value")
)

// Backend is the host key/value store. Values are opaque byte strings; the
// accessor layer owns their encoding.
type Backend interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// GetConfigPath returns a non-sensitive identifier of where data lives
	GetConfigPath() string
}
