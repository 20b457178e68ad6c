// Package snapshot provides durable point-in-time persistence of the
// capture core's state for crash recovery.
//
// A Snapshot serializes the identity store, super properties, timed event
// timers, and the pending queue into one document keyed by project token.
// Stores guarantee atomic replace: a crash during a save never corrupts
// the previously committed snapshot.
package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/event"
	"github.com/randalmurphal/capture/pkg/capture/identity"
	"github.com/randalmurphal/capture/pkg/capture/property"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to snapshot structure.
const Version = 1

// ErrVersionMismatch indicates a snapshot written by an incompatible
// library version. Callers treat it as a cold start.
var ErrVersionMismatch = errors.New("snapshot version mismatch")

// ErrTokenMismatch indicates a snapshot written for a different project
// token. Callers treat it as a cold start.
var ErrTokenMismatch = errors.New("snapshot token mismatch")

// Snapshot is the persisted state of one capture client.
type Snapshot struct {
	// Metadata
	Version   int       `json:"version"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`

	// Core state
	Identity        identity.State       `json:"identity"`
	SuperProperties *property.Properties `json:"super_properties"`
	TimedEvents     map[string]time.Time `json:"timed_events,omitempty"`
	Queue           []event.Event        `json:"queue"`
}

// New creates a snapshot for the given token, stamped now.
func New(token string) *Snapshot {
	return &Snapshot{
		Version:         Version,
		Token:           token,
		CreatedAt:       time.Now().UTC(),
		SuperProperties: property.NewProperties(),
	}
}

// Marshal serializes the snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot, validating version and token.
// A version or token mismatch is reported with the matching sentinel so
// the caller can fall back to a cold start.
func Unmarshal(data []byte, token string) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, ErrVersionMismatch
	}
	if s.Token != token {
		return nil, ErrTokenMismatch
	}
	if s.SuperProperties == nil {
		s.SuperProperties = property.NewProperties()
	}
	return &s, nil
}
