package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a key is absent.
var ErrNotFound = errors.New("not found")

// KeyValueStore is the persistence boundary for the named collections.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SessionStore holds the ephemeral session slot: a token mapped to the
// active account's email. Entries must not outlive ttl.
type SessionStore interface {
	Put(ctx context.Context, token, email string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Remove(ctx context.Context, token string) error
}
