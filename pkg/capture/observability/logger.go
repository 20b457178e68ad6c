// Package observability provides production-grade observability features
// for capture: structured logging, metrics, and delivery tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds capture context to a logger.
// Returns a new logger with token and distinct_id fields.
func EnrichLogger(logger *slog.Logger, token, distinctID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("token", token),
		slog.String("distinct_id", distinctID),
	)
}

// LogFlushStart logs the start of a flush attempt.
func LogFlushStart(logger *slog.Logger, batchID string, batchSize, pending int) {
	if logger == nil {
		return
	}
	logger.Debug("flush starting",
		slog.String("batch_id", batchID),
		slog.Int("batch_size", batchSize),
		slog.Int("pending", pending),
	)
}

// LogFlushComplete logs a successful delivery.
func LogFlushComplete(logger *slog.Logger, batchID string, batchSize int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("flush completed",
		slog.String("batch_id", batchID),
		slog.Int("batch_size", batchSize),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogFlushRetained logs a transient failure; the batch stays queued.
func LogFlushRetained(logger *slog.Logger, batchID string, err error, failures int) {
	if logger == nil {
		return
	}
	logger.Warn("flush failed, batch retained",
		slog.String("batch_id", batchID),
		slog.String("error", err.Error()),
		slog.Int("consecutive_failures", failures),
	)
}

// LogBatchDropped logs a permanent failure; the batch is discarded.
func LogBatchDropped(logger *slog.Logger, batchID string, batchSize int, err error) {
	if logger == nil {
		return
	}
	logger.Error("batch dropped after permanent failure",
		slog.String("batch_id", batchID),
		slog.Int("batch_size", batchSize),
		slog.String("error", err.Error()),
	)
}

// LogFlushDeferred logs a flush trigger vetoed by the approver hook.
func LogFlushDeferred(logger *slog.Logger, trigger string, pending int) {
	if logger == nil {
		return
	}
	logger.Debug("flush deferred by approver",
		slog.String("trigger", trigger),
		slog.Int("pending", pending),
	)
}

// LogEventsEvicted logs events dropped under the queue bound.
func LogEventsEvicted(logger *slog.Logger, count int) {
	if logger == nil {
		return
	}
	logger.Warn("events evicted from full queue",
		slog.Int("count", count),
	)
}

// LogSnapshot logs snapshot creation.
func LogSnapshot(logger *slog.Logger, sizeBytes, queued int) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot saved",
		slog.Int("size_bytes", sizeBytes),
		slog.Int("queued_events", queued),
	)
}

// LogSnapshotError logs snapshot failure (non-fatal).
func LogSnapshotError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogRestore logs a successful state restore.
func LogRestore(logger *slog.Logger, queued int, distinctID string) {
	if logger == nil {
		return
	}
	logger.Info("state restored from snapshot",
		slog.Int("queued_events", queued),
		slog.String("distinct_id", distinctID),
	)
}

// LogColdStart logs a restore that fell back to a cold start.
func LogColdStart(logger *slog.Logger, reason string) {
	if logger == nil {
		return
	}
	logger.Info("cold start",
		slog.String("reason", reason),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
