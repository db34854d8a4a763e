// Package snapshot persists whole-collection blobs under well-known keys.
// The notification store overwrites its entire serialized record array on
// every mutation, so the contract is a single atomic load/save per key —
// no partial updates, no cross-process locking (last write wins).
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing was ever saved under the key.
var ErrNotFound = errors.New("snapshot not found")

// Well-known keys.
const (
	KeyNotifications = "notifications"
	KeyHandoff       = "assignment_handoff"
)

// Store is the minimal blob persistence contract. Implementations must make
// Save an atomic overwrite: a concurrent Load sees either the previous blob
// or the new one, never a torn write.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
