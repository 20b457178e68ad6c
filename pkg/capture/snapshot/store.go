package snapshot

import "errors"

// Store persists snapshot documents keyed by project token.
// Implementations must be safe for concurrent use and must replace
// atomically: a crash during Save leaves the previous snapshot intact.
type Store interface {
	// Save stores the snapshot bytes for a token, replacing any previous
	// snapshot for that token.
	Save(token string, data []byte) error

	// Load retrieves the snapshot bytes for a token.
	// Returns ErrNotFound if no snapshot exists.
	Load(token string) ([]byte, error)

	// Delete removes the snapshot for a token.
	// Returns nil if no snapshot exists.
	Delete(token string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no snapshot exists for the token.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")
)
