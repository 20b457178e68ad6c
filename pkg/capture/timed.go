package capture

import "time"

// TimeEvent starts a timer that is stopped and injected as a duration
// property when a matching track call for the same event name occurs.
// A second TimeEvent call for the same name overwrites the start time.
func (c *Client) TimeEvent(eventName string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if eventName == "" {
		return ErrEventNameRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timed[eventName] = time.Now().UTC()
	return nil
}

// ClearTimedEvents discards all open event timers.
func (c *Client) ClearTimedEvents() error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.timed = make(map[string]time.Time)
	return nil
}

// timedEventsLocked returns a copy of the open timers for snapshotting.
// Caller must hold c.mu.
func (c *Client) timedEventsLocked() map[string]time.Time {
	out := make(map[string]time.Time, len(c.timed))
	for name, start := range c.timed {
		out[name] = start
	}
	return out
}
