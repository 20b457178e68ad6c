package capture

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/config"
	"github.com/randalmurphal/capture/pkg/capture/lifecycle"
	"github.com/randalmurphal/capture/pkg/capture/observability"
	"github.com/randalmurphal/capture/pkg/capture/snapshot"
	"github.com/randalmurphal/capture/pkg/capture/transport"
)

// Approval is the result of the flush approver hook.
type Approval int

const (
	// Proceed lets the flush attempt run.
	Proceed Approval = iota

	// Defer drops the trigger; the next periodic tick or manual Flush
	// will try again. Deferred flushes are not queued.
	Defer
)

// FlushApprover is an optional hook consulted before timer- and
// background-triggered flush attempts, with the current pending count.
// Manual Flush calls bypass the hook.
type FlushApprover func(pending int) Approval

// clientConfig holds resolved construction options.
type clientConfig struct {
	serverURL         string
	flushInterval     time.Duration
	flushIntervalSet  bool
	flushOnBackground bool
	maxQueueSize      int
	maxBatchSize      int
	nameTag           string

	transport transport.Transport
	store     snapshot.Store
	ownsStore bool
	notifier  *lifecycle.Notifier
	approver  FlushApprover

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// defaultClientConfig returns the default construction configuration.
func defaultClientConfig() clientConfig {
	return clientConfig{
		serverURL:         config.DefaultServerURL,
		flushInterval:     config.DefaultFlushInterval,
		flushOnBackground: true,
		maxQueueSize:      config.DefaultMaxQueueSize,
		maxBatchSize:      config.DefaultMaxBatchSize,
		metrics:           observability.NoopMetrics{},
		spans:             observability.NoopSpanManager{},
	}
}

// Option configures client construction.
type Option func(*clientConfig)

// WithServerURL sets the ingestion endpoint.
// Default: config.DefaultServerURL.
func WithServerURL(url string) Option {
	return func(c *clientConfig) {
		if url != "" {
			c.serverURL = url
		}
	}
}

// WithFlushInterval sets the periodic flush timer interval.
// Zero disables the timer entirely; delivery then happens only on
// background transitions and manual Flush calls. Default: 60s.
func WithFlushInterval(d time.Duration) Option {
	return func(c *clientConfig) {
		if d >= 0 {
			c.flushInterval = d
			c.flushIntervalSet = true
		}
	}
}

// WithFlushOnBackground controls flushing when the app enters the
// background. Default: true.
func WithFlushOnBackground(enabled bool) Option {
	return func(c *clientConfig) {
		c.flushOnBackground = enabled
	}
}

// WithMaxQueueSize bounds the pending queue. When a new enqueue would
// exceed the bound, the oldest events are evicted first. Default: 5000.
func WithMaxQueueSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxQueueSize = n
		}
	}
}

// WithMaxBatchSize bounds how many events one delivery attempt carries.
// Default: 50.
func WithMaxBatchSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxBatchSize = n
		}
	}
}

// WithTransport injects the delivery transport.
// Default: transport.NewHTTPTransport().
func WithTransport(t transport.Transport) Option {
	return func(c *clientConfig) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithSnapshotStore injects the snapshot store used for crash recovery.
// The caller retains ownership; Close does not close an injected store.
// Default: an in-memory store (no durability across restarts).
func WithSnapshotStore(s snapshot.Store) Option {
	return func(c *clientConfig) {
		if s != nil {
			c.store = s
			c.ownsStore = false
		}
	}
}

// WithLifecycle subscribes the client to an app-lifecycle notifier so
// background and terminate transitions trigger snapshots and flushes.
func WithLifecycle(n *lifecycle.Notifier) Option {
	return func(c *clientConfig) {
		c.notifier = n
	}
}

// WithFlushApprover installs the optional flush veto hook.
func WithFlushApprover(fn FlushApprover) Option {
	return func(c *clientConfig) {
		c.approver = fn
	}
}

// WithNameTag sets the user-visible name reported in event properties.
func WithNameTag(tag string) Option {
	return func(c *clientConfig) {
		c.nameTag = tag
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *clientConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the trace span manager.
// Default: observability.NoopSpanManager{}.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *clientConfig) {
		if s != nil {
			c.spans = s
		}
	}
}
