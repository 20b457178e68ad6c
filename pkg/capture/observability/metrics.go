package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records capture pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTrack records one tracked event.
	RecordTrack(ctx context.Context, eventName string)

	// RecordEvicted records events dropped under the queue bound.
	RecordEvicted(ctx context.Context, count int)

	// RecordFlush records one flush attempt with its outcome and duration.
	RecordFlush(ctx context.Context, outcome string, batchSize int, duration time.Duration)

	// RecordQueueDepth records the pending queue depth after a mutation.
	RecordQueueDepth(ctx context.Context, depth int)

	// RecordSnapshot records a snapshot save.
	RecordSnapshot(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	tracked      metric.Int64Counter
	evicted      metric.Int64Counter
	flushes      metric.Int64Counter
	flushLatency metric.Float64Histogram
	batchSize    metric.Int64Histogram
	queueDepth   metric.Int64Gauge
	snapshotSize metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("capture")

	tracked, err := meter.Int64Counter("capture.events.tracked",
		metric.WithDescription("Number of events tracked"),
	)
	if err != nil {
		return nil, err
	}

	evicted, err := meter.Int64Counter("capture.events.evicted",
		metric.WithDescription("Number of events evicted from the full queue"),
	)
	if err != nil {
		return nil, err
	}

	flushes, err := meter.Int64Counter("capture.flush.attempts",
		metric.WithDescription("Number of flush attempts"),
	)
	if err != nil {
		return nil, err
	}

	flushLatency, err := meter.Float64Histogram("capture.flush.latency_ms",
		metric.WithDescription("Flush attempt latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	batchSize, err := meter.Int64Histogram("capture.flush.batch_size",
		metric.WithDescription("Events per delivered batch"),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64Gauge("capture.queue.depth",
		metric.WithDescription("Pending queue depth"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("capture.snapshot.size_bytes",
		metric.WithDescription("Snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		tracked:      tracked,
		evicted:      evicted,
		flushes:      flushes,
		flushLatency: flushLatency,
		batchSize:    batchSize,
		queueDepth:   queueDepth,
		snapshotSize: snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordTrack records one tracked event.
func (m *otelMetrics) RecordTrack(ctx context.Context, eventName string) {
	m.tracked.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", eventName),
	))
}

// RecordEvicted records events dropped under the queue bound.
func (m *otelMetrics) RecordEvicted(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.evicted.Add(ctx, int64(count))
}

// RecordFlush records one flush attempt.
func (m *otelMetrics) RecordFlush(ctx context.Context, outcome string, batchSize int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome),
	}
	m.flushes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.flushLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.batchSize.Record(ctx, int64(batchSize), metric.WithAttributes(attrs...))
}

// RecordQueueDepth records the pending queue depth.
func (m *otelMetrics) RecordQueueDepth(ctx context.Context, depth int) {
	m.queueDepth.Record(ctx, int64(depth))
}

// RecordSnapshot records a snapshot save.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, sizeBytes int64) {
	m.snapshotSize.Record(ctx, sizeBytes)
}
