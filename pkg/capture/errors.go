package capture

import (
	"errors"

	"github.com/randalmurphal/capture/pkg/capture/identity"
	"github.com/randalmurphal/capture/pkg/capture/property"
)

// Sentinel errors for client construction and use.
var (
	// ErrTokenRequired indicates New was called with an empty token.
	ErrTokenRequired = errors.New("project token is required")

	// ErrClientClosed indicates an operation on a closed client.
	ErrClientClosed = errors.New("client is closed")

	// ErrEventNameRequired indicates a tracking or timing call with an
	// empty event name.
	ErrEventNameRequired = errors.New("event name is required")
)

// InvalidPropertyError is the type surfaced when a caller supplies a
// property value outside the supported union. It aliases the property
// package's error so callers can match it without importing both.
type InvalidPropertyError = property.InvalidValueError

// AliasConflictError is surfaced when CreateAlias would remap an
// existing alias to a different canonical ID.
type AliasConflictError = identity.AliasConflictError
