package capture

import (
	"context"
	"sync/atomic"
	"time"

	captureerrors "github.com/randalmurphal/capture/pkg/capture/errors"
	"github.com/randalmurphal/capture/pkg/capture/observability"
	"github.com/randalmurphal/capture/pkg/capture/queue"
)

// Flush trigger names, used in logs, metrics, and spans.
const (
	triggerManual     = "manual"
	triggerInterval   = "interval"
	triggerBackground = "background"
)

// Flush outcome names for metrics.
const (
	outcomeSuccess   = "success"
	outcomeTransient = "transient"
	outcomePermanent = "permanent"
)

// flushController orchestrates delivery attempts. At most one attempt is
// in flight at any instant; inFlight is the single arbitration point
// between the periodic timer, background trigger, and manual calls.
type flushController struct {
	c *Client

	inFlight            atomic.Bool
	consecutiveFailures atomic.Int32
	lastAttempt         atomic.Int64 // unix nanos
}

func newFlushController(c *Client) *flushController {
	return &flushController{c: c}
}

// ConsecutiveFailures returns the number of delivery attempts that have
// failed transiently since the last success.
func (f *flushController) ConsecutiveFailures() int {
	return int(f.consecutiveFailures.Load())
}

// flushAsync runs one flush attempt in the background.
func (f *flushController) flushAsync(trigger string) {
	f.c.wg.Add(1)
	go func() {
		defer f.c.wg.Done()
		f.attemptFlush(context.Background(), trigger)
	}()
}

// attemptFlush drains pending batches until the queue is empty, a
// failure stops the run, or ctx expires. It is a no-op when another
// attempt is in flight or nothing is pending.
//
// inFlight is released on every exit path, including panic and
// cancellation, so a failed delivery can never wedge the pipeline.
func (f *flushController) attemptFlush(ctx context.Context, trigger string) {
	if f.c.queue.Len() == 0 {
		return
	}
	if !f.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer f.inFlight.Store(false)

	f.lastAttempt.Store(time.Now().UnixNano())

	ctx, span := f.c.cfg.spans.StartFlushSpan(ctx, trigger, f.c.queue.Len())
	var runErr error
	defer func() { f.c.cfg.spans.EndSpanWithError(span, runErr) }()

	for {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			return
		}

		batch, err := f.c.queue.BeginBatch(f.c.cfg.maxBatchSize)
		if err != nil {
			// Empty queue ends the drain; anything else means a
			// concurrent lease, which inFlight should have excluded.
			if err != queue.ErrEmptyQueue {
				runErr = err
			}
			return
		}

		if !f.deliverBatch(ctx, batch) {
			return
		}
	}
}

// deliverBatch performs one delivery and reconciles the queue.
// Returns true if the drain loop should continue with the next batch.
func (f *flushController) deliverBatch(ctx context.Context, batch queue.Batch) bool {
	logger := f.c.cfg.logger
	metrics := f.c.cfg.metrics

	observability.LogFlushStart(logger, batch.ID, len(batch.Events), f.c.queue.Len())
	done := observability.TimedOperation()

	deliverCtx, deliverSpan := f.c.cfg.spans.StartDeliverSpan(ctx, batch.ID, len(batch.Events))
	err := f.c.cfg.transport.Deliver(deliverCtx, batch.Events, f.c.token, f.c.cfg.serverURL)
	f.c.cfg.spans.EndSpanWithError(deliverSpan, err)

	durationMs := done()
	duration := time.Duration(durationMs * float64(time.Millisecond))

	if err == nil {
		// Success: the batch is committed and gone for good.
		_ = f.c.queue.CommitBatch(batch.ID)
		f.consecutiveFailures.Store(0)
		observability.LogFlushComplete(logger, batch.ID, len(batch.Events), durationMs)
		metrics.RecordFlush(ctx, outcomeSuccess, len(batch.Events), duration)
		metrics.RecordQueueDepth(ctx, f.c.queue.Len())
		f.c.archive()
		return true
	}

	if captureerrors.IsRetryable(err) {
		// Transient: restore the batch to the front of the queue. The
		// next scheduler trigger retries; the periodic interval acts as
		// natural backoff.
		_ = f.c.queue.AbortBatch(batch.ID)
		failures := f.consecutiveFailures.Add(1)
		observability.LogFlushRetained(logger, batch.ID, err, int(failures))
		metrics.RecordFlush(ctx, outcomeTransient, len(batch.Events), duration)
		return false
	}

	// Permanent: the batch can never succeed. Drop it and report.
	_ = f.c.queue.CommitBatch(batch.ID)
	observability.LogBatchDropped(logger, batch.ID, len(batch.Events), err)
	metrics.RecordFlush(ctx, outcomePermanent, len(batch.Events), duration)
	metrics.RecordQueueDepth(ctx, f.c.queue.Len())
	f.c.archive()
	return false
}
