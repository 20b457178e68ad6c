package capture

import (
	"context"
	"errors"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/observability"
	"github.com/randalmurphal/capture/pkg/capture/snapshot"
)

// archive serializes the current state to the snapshot store.
// The state is copied under the component locks first, then serialized
// and written without holding any lock, so persistence never blocks
// tracking calls. Failures are logged and never propagate.
func (c *Client) archive() {
	snap := c.buildSnapshot()

	data, err := snap.Marshal()
	if err != nil {
		observability.LogSnapshotError(c.cfg.logger, "marshal", err)
		return
	}
	if err := c.cfg.store.Save(c.token, data); err != nil {
		observability.LogSnapshotError(c.cfg.logger, "save", err)
		return
	}

	observability.LogSnapshot(c.cfg.logger, len(data), len(snap.Queue))
	c.cfg.metrics.RecordSnapshot(context.Background(), int64(len(data)))
}

// buildSnapshot assembles a consistent point-in-time copy of all
// persisted state.
func (c *Client) buildSnapshot() *snapshot.Snapshot {
	snap := snapshot.New(c.token)

	c.mu.Lock()
	snap.SuperProperties = c.superProps.Clone()
	snap.TimedEvents = c.timedEventsLocked()
	c.mu.Unlock()

	snap.Identity = c.identity.Export()
	snap.Queue = c.queue.Events()
	return snap
}

// restore loads the last snapshot for the client's token, if present.
// A missing, unreadable, or mismatched snapshot is a cold start; restore
// never fails the caller.
func (c *Client) restore() {
	data, err := c.cfg.store.Load(c.token)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			observability.LogColdStart(c.cfg.logger, err.Error())
		}
		return
	}

	snap, err := snapshot.Unmarshal(data, c.token)
	if err != nil {
		observability.LogColdStart(c.cfg.logger, err.Error())
		return
	}

	c.mu.Lock()
	c.superProps = snap.SuperProperties
	c.timed = snap.TimedEvents
	if c.timed == nil {
		c.timed = make(map[string]time.Time)
	}
	c.mu.Unlock()

	c.identity.Import(snap.Identity)
	c.queue.Restore(snap.Queue)

	observability.LogRestore(c.cfg.logger, len(snap.Queue), c.identity.DistinctID())
}
