package capture

import (
	"context"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/event"
	"github.com/randalmurphal/capture/pkg/capture/observability"
	"github.com/randalmurphal/capture/pkg/capture/property"
)

// Track records an event with no explicit properties.
func (c *Client) Track(eventName string) error {
	return c.TrackWithProperties(eventName, nil)
}

// TrackWithProperties records an event with explicit properties.
// Property keys must be non-empty strings and values must be within the
// supported union; an invalid value fails synchronously with
// InvalidPropertyError and the event is never enqueued.
//
// If a timer is open for eventName (see TimeEvent) it is consumed and
// injected as a duration property.
func (c *Client) TrackWithProperties(eventName string, properties map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if eventName == "" {
		return ErrEventNameRequired
	}

	explicit, err := property.FromMap(properties)
	if err != nil {
		return err
	}

	c.enqueue(eventName, explicit)
	return nil
}

// TrackCustom records an event in the caller's own envelope format.
// The custom object's fields sit at the top level of the event's
// property set; the merged default and super properties are nested under
// the "properties" key.
func (c *Client) TrackCustom(customEvent map[string]any) error {
	return c.trackCustom("", customEvent)
}

// TrackCustomNamed records a custom-envelope event that also carries an
// event name, combining TrackCustom with a named track call. An open
// timer for the name is consumed as with TrackWithProperties.
func (c *Client) TrackCustomNamed(eventName string, customEvent map[string]any) error {
	if eventName == "" {
		return ErrEventNameRequired
	}
	return c.trackCustom(eventName, customEvent)
}

func (c *Client) trackCustom(eventName string, customEvent map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	envelope, err := property.FromMap(customEvent)
	if err != nil {
		return err
	}

	c.mu.Lock()
	now := time.Now().UTC()
	merged := c.buildProperties(eventName, nil, now)
	envelope.Set("properties", property.Object(merged))
	evt := event.New(eventName, envelope)
	evicted := c.queue.Enqueue(evt)
	c.mu.Unlock()

	c.recordEnqueue(eventName, evicted)
	return nil
}

// enqueue merges layers and appends the event under the client lock.
func (c *Client) enqueue(eventName string, explicit *property.Properties) {
	c.mu.Lock()
	now := time.Now().UTC()
	props := c.buildProperties(eventName, explicit, now)
	evt := event.New(eventName, props)
	evicted := c.queue.Enqueue(evt)
	c.mu.Unlock()

	c.recordEnqueue(eventName, evicted)
}

func (c *Client) recordEnqueue(eventName string, evicted int) {
	ctx := context.Background()
	name := eventName
	if name == "" {
		name = "custom"
	}
	c.cfg.metrics.RecordTrack(ctx, name)
	c.cfg.metrics.RecordQueueDepth(ctx, c.queue.Len())
	if evicted > 0 {
		c.cfg.metrics.RecordEvicted(ctx, evicted)
		observability.LogEventsEvicted(c.cfg.logger, evicted)
	}
}
