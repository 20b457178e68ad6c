/*
Package capture is a client-side telemetry library: it records named
events with structured properties, buffers them durably on the local
device, and delivers them asynchronously to a remote ingestion endpoint
in batches.

# Overview

A Client owns the full capture pipeline for one project token:

  - property merging: per-event properties are combined with process-wide
    super properties and auto-generated defaults into one immutable
    property set at tracking time
  - a bounded, durable FIFO queue of pending events
  - flush scheduling (periodic timer, app-background transition, manual
    Flush) and delivery with commit/retain semantics
  - snapshot persistence for crash recovery

# Basic Usage

	client, err := capture.New("your-project-token",
	    capture.WithServerURL("https://inputs.example.com"),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer client.Close()

	client.Track("Button Clicked")
	client.TrackWithProperties("Purchase", map[string]any{
	    "sku":   "A-1042",
	    "price": 19.99,
	})

Tracking calls validate properties synchronously, append to the queue,
and return; delivery happens in the background. Call Flush to force an
immediate delivery attempt.

# Identity

Each client carries a distinct ID attributing events to a user or
device. A fresh random UUID is generated on first start and persisted;
use Identify to switch to your own user ID and CreateAlias to link IDs.
Reset discards all identity and queued state, for example on logout.

# Timed Events

TimeEvent starts a timer that is consumed by the next matching track
call and injected as a duration property:

	client.TimeEvent("Image Upload")
	// ... upload ...
	client.Track("Image Upload") // properties include $duration

# Crash Recovery

State (identity, super properties, timers, pending queue) is snapshotted
after delivery outcomes and on background/terminate transitions, and
restored on construction when a snapshot for the same project token
exists. Snapshot storage is pluggable; see the snapshot package for the
in-memory, file, and SQLite stores.

# Multiple Instances

Clients are independent; construct one per project token. A Registry
owned by the application's composition root can hold them when several
parts of an app share instances.
*/
package capture
