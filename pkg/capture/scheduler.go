package capture

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/lifecycle"
	"github.com/randalmurphal/capture/pkg/capture/observability"
)

// schedulerState tracks the scheduler's lifecycle.
type schedulerState int

const (
	// stateIdle means the scheduler has not started or has stopped.
	stateIdle schedulerState = iota

	// stateScheduled means the periodic timer is armed.
	stateScheduled

	// stateSuspended means timer triggering is disabled (interval zero);
	// only background transitions and manual calls can trigger a flush.
	stateSuspended
)

// scheduler decides when flush attempts occur: the periodic timer, the
// app-background transition, and lifecycle-driven snapshots. Manual
// Flush calls go straight to the controller and bypass the approver.
type scheduler struct {
	c *Client

	mu    sync.Mutex
	state schedulerState

	stopCh   chan struct{}
	stopOnce sync.Once

	events      <-chan lifecycle.Event
	unsubscribe func()
}

func newScheduler(c *Client) *scheduler {
	s := &scheduler{
		c:      c,
		stopCh: make(chan struct{}),
	}
	if c.cfg.notifier != nil {
		s.events, s.unsubscribe = c.cfg.notifier.Subscribe()
	}
	return s
}

// start launches the scheduler goroutine.
func (s *scheduler) start() {
	s.mu.Lock()
	if s.c.cfg.flushInterval > 0 {
		s.state = stateScheduled
	} else {
		s.state = stateSuspended
	}
	s.mu.Unlock()

	s.c.wg.Add(1)
	go s.run()
}

// stop halts the scheduler and detaches from the lifecycle stream.
func (s *scheduler) stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// State returns the current scheduler state.
func (s *scheduler) State() schedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *scheduler) run() {
	defer s.c.wg.Done()
	defer func() {
		s.mu.Lock()
		s.state = stateIdle
		s.mu.Unlock()
	}()

	var tick <-chan time.Time
	if s.c.cfg.flushInterval > 0 {
		ticker := time.NewTicker(s.c.cfg.flushInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-s.stopCh:
			return
		case <-tick:
			s.trigger(context.Background(), triggerInterval)
		case evt, ok := <-s.events:
			if !ok {
				s.events = nil
				continue
			}
			s.handleLifecycle(evt)
		}
	}
}

// handleLifecycle reacts to one app-lifecycle transition.
func (s *scheduler) handleLifecycle(evt lifecycle.Event) {
	switch evt.Kind {
	case lifecycle.Background:
		// Snapshot first so state survives even if the flush is cut off.
		s.c.archive()
		if s.c.cfg.flushOnBackground {
			ctx := context.Background()
			if evt.Budget > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, evt.Budget)
				defer cancel()
			}
			s.trigger(ctx, triggerBackground)
		}
	case lifecycle.Terminate:
		s.c.archive()
	case lifecycle.Foreground:
		// Nothing to do; the periodic timer keeps running.
	}
}

// trigger consults the approver hook and, unless vetoed, runs one flush
// attempt synchronously on the scheduler goroutine. A vetoed trigger is
// dropped with no retry scheduled.
func (s *scheduler) trigger(ctx context.Context, trigger string) {
	pending := s.c.queue.Len()
	if pending == 0 {
		return
	}

	if approver := s.c.cfg.approver; approver != nil {
		if approver(pending) == Defer {
			observability.LogFlushDeferred(s.c.cfg.logger, trigger, pending)
			return
		}
	}

	s.c.flusher.attemptFlush(ctx, trigger)
}
