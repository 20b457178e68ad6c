package lifecycle_test

import (
	"testing"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "foreground", lifecycle.Foreground.String())
	assert.Equal(t, "background", lifecycle.Background.String())
	assert.Equal(t, "terminate", lifecycle.Terminate.String())
	assert.Equal(t, "unknown", lifecycle.Kind(99).String())
}

func TestNotifier_PublishSubscribe(t *testing.T) {
	n := lifecycle.NewNotifier()
	defer n.Close()

	ch, unsub := n.Subscribe()
	defer unsub()

	n.Publish(lifecycle.Event{Kind: lifecycle.Background, Budget: 5 * time.Second})

	select {
	case evt := <-ch:
		assert.Equal(t, lifecycle.Background, evt.Kind)
		assert.Equal(t, 5*time.Second, evt.Budget)
	case <-time.After(time.Second):
		t.Fatal("did not receive published event")
	}
}

func TestNotifier_FanOut(t *testing.T) {
	n := lifecycle.NewNotifier()
	defer n.Close()

	ch1, unsub1 := n.Subscribe()
	defer unsub1()
	ch2, unsub2 := n.Subscribe()
	defer unsub2()

	n.Publish(lifecycle.Event{Kind: lifecycle.Terminate})

	for _, ch := range []<-chan lifecycle.Event{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, lifecycle.Terminate, evt.Kind)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := lifecycle.NewNotifier()
	defer n.Close()

	ch, unsub := n.Subscribe()
	unsub()

	// Channel is closed on unsubscribe
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe doesn't panic
	n.Publish(lifecycle.Event{Kind: lifecycle.Foreground})

	// Unsubscribing twice is a no-op
	unsub()
}

func TestNotifier_PublishNeverBlocks(t *testing.T) {
	n := lifecycle.NewNotifier()
	defer n.Close()

	_, unsub := n.Subscribe()
	defer unsub()

	// Nobody is draining; the buffer fills and further publishes drop
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(lifecycle.Event{Kind: lifecycle.Foreground})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with a full subscriber buffer")
	}
}

func TestNotifier_Close(t *testing.T) {
	n := lifecycle.NewNotifier()

	ch, _ := n.Subscribe()
	n.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// Publish after close is a no-op
	n.Publish(lifecycle.Event{Kind: lifecycle.Background})

	// Subscribe after close returns a closed channel
	ch2, unsub := n.Subscribe()
	require.NotNil(t, unsub)
	_, ok = <-ch2
	assert.False(t, ok)

	// Close is idempotent
	n.Close()
}
