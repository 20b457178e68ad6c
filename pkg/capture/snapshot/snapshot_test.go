package snapshot_test

import (
	"testing"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/event"
	"github.com/randalmurphal/capture/pkg/capture/identity"
	"github.com/randalmurphal/capture/pkg/capture/property"
	"github.com/randalmurphal/capture/pkg/capture/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSnapshot(t *testing.T, token string) *snapshot.Snapshot {
	t.Helper()

	snap := snapshot.New(token)
	snap.Identity = identity.State{
		DistinctID: "user-42",
		NameTag:    "Pat",
		Aliases:    map[string]string{"nick": "user-42"},
	}
	snap.SuperProperties.Set("plan", property.String("pro"))
	snap.TimedEvents = map[string]time.Time{
		"Upload": time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	props := property.NewProperties()
	props.Set("n", property.Number(1))
	snap.Queue = []event.Event{event.New("Clicked", props)}
	return snap
}

func TestSnapshot_RoundTrip(t *testing.T) {
	snap := buildSnapshot(t, "tok-1")

	data, err := snap.Marshal()
	require.NoError(t, err)

	restored, err := snapshot.Unmarshal(data, "tok-1")
	require.NoError(t, err)

	assert.Equal(t, snap.Identity, restored.Identity)
	assert.True(t, snap.SuperProperties.Equal(restored.SuperProperties))
	require.Len(t, restored.Queue, 1)
	assert.True(t, snap.Queue[0].Equal(restored.Queue[0]))
	assert.True(t, snap.TimedEvents["Upload"].Equal(restored.TimedEvents["Upload"]))
}

func TestUnmarshal_TokenMismatch(t *testing.T) {
	data, err := buildSnapshot(t, "tok-1").Marshal()
	require.NoError(t, err)

	_, err = snapshot.Unmarshal(data, "other-token")
	assert.ErrorIs(t, err, snapshot.ErrTokenMismatch)
}

func TestUnmarshal_VersionMismatch(t *testing.T) {
	snap := buildSnapshot(t, "tok-1")
	snap.Version = snapshot.Version + 1
	data, err := snap.Marshal()
	require.NoError(t, err)

	_, err = snapshot.Unmarshal(data, "tok-1")
	assert.ErrorIs(t, err, snapshot.ErrVersionMismatch)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	_, err := snapshot.Unmarshal([]byte("{not json"), "tok-1")
	assert.Error(t, err)
}
