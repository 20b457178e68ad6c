package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf    *bytes.Buffer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	enc := json.NewEncoder(h.buf)
	return enc.Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(name string) slog.Handler {
	return &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds token and distinct_id", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "tok-123", "user-7")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "tok-123", record["token"])
		assert.Equal(t, "user-7", record["distinct_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "tok", "id"))
	})
}

func TestLogFlushStart(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogFlushStart(logger, "batch-1", 10, 42)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "flush starting", record["msg"])
		assert.Equal(t, "batch-1", record["batch_id"])
		assert.Equal(t, float64(10), record["batch_size"])
		assert.Equal(t, float64(42), record["pending"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogFlushStart(nil, "batch-1", 10, 42)
		})
	})
}

func TestLogFlushComplete(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogFlushComplete(logger, "batch-2", 25, 123.5)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "flush completed", record["msg"])
	assert.Equal(t, "batch-2", record["batch_id"])
	assert.Equal(t, float64(25), record["batch_size"])
	assert.Equal(t, 123.5, record["duration_ms"])

	assert.NotPanics(t, func() {
		LogFlushComplete(nil, "batch", 1, 1.0)
	})
}

func TestLogFlushRetained(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogFlushRetained(logger, "batch-3", errors.New("HTTP 503"), 2)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "flush failed, batch retained", record["msg"])
	assert.Equal(t, "HTTP 503", record["error"])
	assert.Equal(t, float64(2), record["consecutive_failures"])

	assert.NotPanics(t, func() {
		LogFlushRetained(nil, "batch", errors.New("err"), 1)
	})
}

func TestLogBatchDropped(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogBatchDropped(logger, "batch-4", 50, errors.New("HTTP 401"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "batch dropped after permanent failure", record["msg"])
	assert.Equal(t, float64(50), record["batch_size"])
	assert.Equal(t, "HTTP 401", record["error"])

	assert.NotPanics(t, func() {
		LogBatchDropped(nil, "batch", 1, errors.New("err"))
	})
}

func TestLogFlushDeferred(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogFlushDeferred(logger, "interval", 30)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "flush deferred by approver", record["msg"])
	assert.Equal(t, "interval", record["trigger"])
	assert.Equal(t, float64(30), record["pending"])

	assert.NotPanics(t, func() {
		LogFlushDeferred(nil, "manual", 0)
	})
}

func TestLogEventsEvicted(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogEventsEvicted(logger, 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "events evicted from full queue", record["msg"])
	assert.Equal(t, float64(3), record["count"])

	assert.NotPanics(t, func() {
		LogEventsEvicted(nil, 1)
	})
}

func TestSnapshotLogs(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogSnapshot(logger, 2048, 12)
	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "snapshot saved", record["msg"])
	assert.Equal(t, float64(2048), record["size_bytes"])
	assert.Equal(t, float64(12), record["queued_events"])

	LogSnapshotError(logger, "save", errors.New("disk full"))
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "save", record["operation"])
	assert.Equal(t, "disk full", record["error"])

	LogRestore(logger, 5, "user-9")
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "state restored from snapshot", record["msg"])
	assert.Equal(t, float64(5), record["queued_events"])
	assert.Equal(t, "user-9", record["distinct_id"])

	LogColdStart(logger, "token mismatch")
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "cold start", record["msg"])
	assert.Equal(t, "token mismatch", record["reason"])

	assert.NotPanics(t, func() {
		LogSnapshot(nil, 0, 0)
		LogSnapshotError(nil, "op", errors.New("err"))
		LogRestore(nil, 0, "")
		LogColdStart(nil, "reason")
	})
}

func TestTimedOperation(t *testing.T) {
	t.Run("measures duration", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(10 * time.Millisecond)
		duration := done()

		assert.GreaterOrEqual(t, duration, 10.0)
		assert.Less(t, duration, 1000.0)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(5 * time.Millisecond)
		d1 := done()
		time.Sleep(5 * time.Millisecond)
		d2 := done()

		assert.GreaterOrEqual(t, d2, d1)
	})
}
