package capture

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/capture/pkg/capture/config"
	"github.com/randalmurphal/capture/pkg/capture/identity"
	"github.com/randalmurphal/capture/pkg/capture/property"
	"github.com/randalmurphal/capture/pkg/capture/queue"
	"github.com/randalmurphal/capture/pkg/capture/snapshot"
	"github.com/randalmurphal/capture/pkg/capture/transport"
)

// libVersion is reported in default event properties and by LibVersion.
const libVersion = "1.0.0"

// Client is the capture pipeline for one project token.
// All methods are safe for concurrent use. Tracking and identity calls
// never block on network activity; delivery runs in the background.
type Client struct {
	token string
	cfg   clientConfig

	// mu serializes all mutations of shared state: super properties,
	// timed event timers, and composite operations spanning the
	// identity store and the queue (Reset, snapshot assembly).
	mu         sync.Mutex
	superProps *property.Properties
	timed      map[string]time.Time

	identity  *identity.Store
	queue     *queue.Queue
	flusher   *flushController
	scheduler *scheduler
	sessionID string

	closed atomic.Bool
	wg     sync.WaitGroup
}

// New creates a client for the given project token and starts its flush
// scheduler. If the snapshot store holds state for the same token, the
// client restores it; a missing, corrupt, or mismatched snapshot is a
// cold start, never an error.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transport == nil {
		cfg.transport = transport.NewHTTPTransport()
	}
	if cfg.store == nil {
		cfg.store = snapshot.NewMemoryStore()
		cfg.ownsStore = true
	}

	c := &Client{
		token:      token,
		cfg:        cfg,
		superProps: property.NewProperties(),
		timed:      make(map[string]time.Time),
		identity:   identity.NewStore(),
		queue:      queue.New(cfg.maxQueueSize),
		sessionID:  uuid.New().String(),
	}
	if cfg.nameTag != "" {
		c.identity.SetNameTag(cfg.nameTag)
	}

	c.restore()

	c.flusher = newFlushController(c)
	c.scheduler = newScheduler(c)
	c.scheduler.start()

	return c, nil
}

// FromConfig creates a client from a loaded configuration.
// Explicit options override config values. A snapshot path in the config
// selects a file-backed store owned (and closed) by the client.
func FromConfig(cfg config.Config, opts ...Option) (*Client, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{
		WithServerURL(cfg.ServerURL),
		WithFlushInterval(cfg.FlushInterval),
		WithFlushOnBackground(cfg.FlushOnBackground == nil || *cfg.FlushOnBackground),
		WithMaxQueueSize(cfg.MaxQueueSize),
		WithMaxBatchSize(cfg.MaxBatchSize),
	}

	if cfg.SnapshotPath != "" {
		store, err := snapshot.NewFileStore(cfg.SnapshotPath)
		if err != nil {
			return nil, err
		}
		base = append(base, WithSnapshotStore(store))
		base = append(base, func(c *clientConfig) { c.ownsStore = true })
	}

	return New(cfg.Token, append(base, opts...)...)
}

// Token returns the project token the client was constructed with.
func (c *Client) Token() string {
	return c.token
}

// DistinctID returns the distinct ID of the current user. Never empty.
func (c *Client) DistinctID() string {
	return c.identity.DistinctID()
}

// SetNameTag sets the current user's name, reported within event
// properties on future events.
func (c *Client) SetNameTag(tag string) {
	c.identity.SetNameTag(tag)
}

// NameTag returns the current name tag, or empty if unset.
func (c *Client) NameTag() string {
	return c.identity.NameTag()
}

// LibVersion returns the library version string.
func (c *Client) LibVersion() string {
	return libVersion
}

// Pending returns the number of events awaiting delivery.
func (c *Client) Pending() int {
	return c.queue.Len()
}

// Identify switches the distinct ID used for future events.
// Already-enqueued events keep the ID they were merged with.
func (c *Client) Identify(distinctID string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.identity.Identify(distinctID)
}

// CreateAlias records alias → distinctID for identity resolution.
// Fails with AliasConflictError if the alias already maps elsewhere.
func (c *Client) CreateAlias(alias, distinctID string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.identity.CreateAlias(alias, distinctID)
}

// Reset discards the distinct ID, aliases, super properties, event
// timers, and the entire pending queue, then regenerates a fresh random
// distinct ID. Useful when a user logs out.
func (c *Client) Reset() error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	c.mu.Lock()
	c.superProps = property.NewProperties()
	c.timed = make(map[string]time.Time)
	c.mu.Unlock()

	c.identity.Reset()
	c.queue.Clear()
	c.archive()
	return nil
}

// Flush forces an immediate delivery attempt for all pending batches.
// It returns immediately; delivery runs in the background. Manual flush
// bypasses the approver hook.
func (c *Client) Flush() {
	if c.closed.Load() {
		return
	}
	c.flusher.flushAsync(triggerManual)
}

// Archive writes the current state (distinct ID, super properties,
// timers, pending queue) to the snapshot store. The client archives
// automatically after delivery outcomes and on lifecycle transitions;
// manual calls are only needed in special circumstances.
func (c *Client) Archive() {
	if c.closed.Load() {
		return
	}
	c.archive()
}

// Close stops the scheduler, waits for in-flight work, takes a final
// snapshot, and releases owned resources. The client is unusable
// afterwards. Close is idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.scheduler.stop()
	c.wg.Wait()
	c.archive()

	if c.cfg.ownsStore {
		return c.cfg.store.Close()
	}
	return nil
}
