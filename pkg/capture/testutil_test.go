package capture

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/event"
	"github.com/randalmurphal/capture/pkg/capture/property"
)

// captureTransport records delivered batches and returns a configurable
// error per attempt.
type captureTransport struct {
	mu      sync.Mutex
	batches [][]event.Event
	errs    []error // consumed in order; nil entries mean success
	block   chan struct{}
}

func newCaptureTransport() *captureTransport {
	return &captureTransport{}
}

// failWith queues errors returned by successive Deliver calls.
func (t *captureTransport) failWith(errs ...error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, errs...)
}

func (t *captureTransport) Deliver(ctx context.Context, batch []event.Event, token, endpoint string) error {
	if t.block != nil {
		select {
		case <-t.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if len(t.errs) > 0 {
		err = t.errs[0]
		t.errs = t.errs[1:]
	}
	if err != nil {
		return err
	}

	copied := make([]event.Event, len(batch))
	copy(copied, batch)
	t.batches = append(t.batches, copied)
	return nil
}

// delivered returns all successfully delivered events, in order.
func (t *captureTransport) delivered() []event.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []event.Event
	for _, batch := range t.batches {
		out = append(out, batch...)
	}
	return out
}

func (t *captureTransport) batchCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.batches)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

// propString extracts a string property from an event, or "".
func propString(evt event.Event, key string) string {
	if evt.Properties == nil {
		return ""
	}
	val, ok := evt.Properties.Get(key)
	if !ok || val.Kind() != property.KindString {
		return ""
	}
	return val.StringVal()
}

// propNumber extracts a numeric property from an event.
func propNumber(evt event.Event, key string) (float64, bool) {
	if evt.Properties == nil {
		return 0, false
	}
	val, ok := evt.Properties.Get(key)
	if !ok || val.Kind() != property.KindNumber {
		return 0, false
	}
	return val.NumberVal(), true
}
