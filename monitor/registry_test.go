package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/lantern/beacon"
	"github.com/srg/lantern/monitor"
)

func record(uuid string, major, minor uint16, rssi int) *beacon.Beacon {
	return &beacon.Beacon{
		Identity: beacon.Identity{UUID: uuid, Major: major, Minor: minor},
		RSSI:     rssi,
	}
}

func TestRegistryApply(t *testing.T) {
	r := monitor.NewRegistry()
	require.True(t, r.IsEmpty())

	first := record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -65)
	assert.Equal(t, monitor.ApplyCreated, r.Apply(first))
	assert.Equal(t, 1, r.Len())

	changed := record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -70)
	assert.Equal(t, monitor.ApplyUpdated, r.Apply(changed))
	assert.Equal(t, 1, r.Len(), "same identity must not create a second record")

	steady := record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -70)
	assert.Equal(t, monitor.ApplyRenewed, r.Apply(steady))

	got, ok := r.Get(first.Identity)
	require.True(t, ok)
	assert.Equal(t, -70, got.RSSI)
}

func TestRegistryDistinctIdentities(t *testing.T) {
	r := monitor.NewRegistry()

	r.Apply(record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -65))
	r.Apply(record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 3, -65))
	r.Apply(record("ffffffff-dffb-48d2-b060-d0f5a71096e0", 1, 2, -65))

	assert.Equal(t, 3, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	r := monitor.NewRegistry()
	b := record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -65)
	r.Apply(b)

	removed, ok := r.Remove(b.Identity)
	require.True(t, ok)
	assert.Equal(t, b, removed)
	assert.True(t, r.IsEmpty())

	_, ok = r.Remove(b.Identity)
	assert.False(t, ok, "removing an absent identity is a negative result, not an error")
}

func TestRegistrySnapshotAndClear(t *testing.T) {
	r := monitor.NewRegistry()
	r.Apply(record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 1, 2, -65))
	r.Apply(record("e2c56db5-dffb-48d2-b060-d0f5a71096e0", 3, 4, -70))

	snapshot := r.Snapshot()
	assert.Len(t, snapshot, 2)

	r.Clear()
	assert.True(t, r.IsEmpty())
	assert.Len(t, snapshot, 2, "snapshots survive a clear")
}
