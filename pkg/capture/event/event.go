// Package event defines the telemetry event record, the unit the pending
// queue buffers and the transport delivers.
package event

import (
	"encoding/json"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/property"
)

// Event is a named occurrence with its merged property set.
// Events are immutable once enqueued: the property set is the snapshot of
// default, super, timed, and explicit properties as they existed at the
// tracking call, never recomputed later.
type Event struct {
	// Name is the event name. Empty for custom-envelope events whose
	// shape is carried entirely in Properties.
	Name string `json:"event,omitempty"`

	// Properties is the merged property set.
	Properties *property.Properties `json:"properties"`

	// EnqueuedAt is when the event entered the pending queue.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// New creates an event with the given name and properties, stamped now.
// A nil property set is replaced with an empty one.
func New(name string, props *property.Properties) Event {
	if props == nil {
		props = property.NewProperties()
	}
	return Event{
		Name:       name,
		Properties: props,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Equal reports whether two events carry the same name, property set,
// and enqueue time.
func (e Event) Equal(other Event) bool {
	return e.Name == other.Name &&
		e.EnqueuedAt.Equal(other.EnqueuedAt) &&
		e.Properties.Equal(other.Properties)
}

// Marshal serializes the event to JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal deserializes an event from JSON.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	if e.Properties == nil {
		e.Properties = property.NewProperties()
	}
	return e, nil
}
