// Package identity owns the distinct ID, name tag, and alias mappings
// that attribute events to a user or device.
package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyDistinctID indicates Identify was called with an empty ID.
var ErrEmptyDistinctID = errors.New("distinct ID must be non-empty")

// AliasConflictError indicates CreateAlias was called for an alias that
// already maps to a different canonical ID.
type AliasConflictError struct {
	// Alias is the conflicting alias.
	Alias string
	// Existing is the canonical ID the alias already maps to.
	Existing string
	// Requested is the canonical ID the caller asked for.
	Requested string
}

// Error implements the error interface.
func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("alias %q already maps to %q, cannot remap to %q",
		e.Alias, e.Existing, e.Requested)
}

// State is the persisted form of the identity store.
type State struct {
	DistinctID string            `json:"distinct_id"`
	NameTag    string            `json:"name_tag,omitempty"`
	Aliases    map[string]string `json:"aliases,omitempty"`
}

// Store holds the current distinct ID and alias mappings.
// All methods are safe for concurrent use; mutations are linearizable.
type Store struct {
	mu         sync.RWMutex
	distinctID string
	nameTag    string
	aliases    map[string]string
}

// NewStore creates a store with a freshly generated distinct ID.
// The default ID is a random UUID; hosts with a stable device identifier
// can overwrite it with Identify.
func NewStore() *Store {
	return &Store{
		distinctID: uuid.New().String(),
		aliases:    make(map[string]string),
	}
}

// DistinctID returns the current distinct ID. Never empty.
func (s *Store) DistinctID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distinctID
}

// NameTag returns the current name tag, or empty if unset.
func (s *Store) NameTag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameTag
}

// SetNameTag sets the name tag reported in event properties.
func (s *Store) SetNameTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nameTag = tag
}

// Identify switches the distinct ID used for future events. Already
// enqueued events keep the ID they were merged with. If an alias mapping
// exists for id, the canonical ID it points at is used instead.
func (s *Store) Identify(id string) error {
	if id == "" {
		return ErrEmptyDistinctID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if canonical, ok := s.aliases[id]; ok {
		s.distinctID = canonical
		return nil
	}
	s.distinctID = id
	return nil
}

// CreateAlias records alias → canonical. Re-recording the same mapping is
// a no-op; remapping an existing alias fails with AliasConflictError.
func (s *Store) CreateAlias(alias, canonical string) error {
	if alias == "" || canonical == "" {
		return ErrEmptyDistinctID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.aliases[alias]; ok {
		if existing == canonical {
			return nil
		}
		return &AliasConflictError{Alias: alias, Existing: existing, Requested: canonical}
	}
	s.aliases[alias] = canonical
	return nil
}

// Aliases returns a copy of the alias mappings.
func (s *Store) Aliases() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// Reset discards the distinct ID, name tag, and all aliases, then
// regenerates a fresh random distinct ID.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distinctID = uuid.New().String()
	s.nameTag = ""
	s.aliases = make(map[string]string)
}

// Export returns the persistable state.
func (s *Store) Export() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	aliases := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		aliases[k] = v
	}
	return State{DistinctID: s.distinctID, NameTag: s.nameTag, Aliases: aliases}
}

// Import replaces the store contents with persisted state. An empty
// distinct ID in the snapshot is replaced with a fresh UUID so the store
// never holds an absent ID.
func (s *Store) Import(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.DistinctID == "" {
		state.DistinctID = uuid.New().String()
	}
	s.distinctID = state.DistinctID
	s.nameTag = state.NameTag
	s.aliases = make(map[string]string, len(state.Aliases))
	for k, v := range state.Aliases {
		s.aliases[k] = v
	}
}
