// internal/store/kv.go
//
// Persistence interfaces shared by the server and the CLI.
//
//   - KV holds opaque blobs by key; the ranking cache uses it.
//   - Sessions holds in-progress games keyed by session ID.
//
// Both return ErrNotFound for missing keys so callers can branch with errors.Is.

package store

import (
	"context"
	"errors"

	"github.com/peterbom/wordle-cheat/internal/game"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: not found")

// KV is a minimal key/value store for serialized artifacts.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put inserts or replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error
}

// Sessions persists game state between requests.
type Sessions interface {
	// Save stores a snapshot of g under id, replacing any earlier one.
	Save(ctx context.Context, id string, g game.Game) error

	// Get returns the latest snapshot for id, or ErrNotFound.
	Get(ctx context.Context, id string) (game.Game, error)

	// Lock waits until the caller holds id exclusively, or ctx ends. A
	// load-modify-save sequence must run under the lock; unlock releases it.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}
