package monitor

import (
	"github.com/cornelk/hashmap"

	"github.com/srg/lantern/beacon"
)

// ApplyResult classifies what applying a detection did to the registry.
type ApplyResult int

const (
	// ApplyCreated means the identity was not present and was inserted.
	ApplyCreated ApplyResult = iota
	// ApplyUpdated means the identity was present and its RSSI changed.
	ApplyUpdated
	// ApplyRenewed means the identity was present with unchanged RSSI;
	// only its expiry deadline moved.
	ApplyRenewed
)

// Registry owns the set of currently-present beacons, keyed by identity.
// Records are replaced wholesale, never mutated, so readers can hold on to
// snapshots safely.
type Registry struct {
	beacons *hashmap.Map[string, *beacon.Beacon]
}

func NewRegistry() *Registry {
	return &Registry{beacons: hashmap.New[string, *beacon.Beacon]()}
}

// Apply inserts or replaces the record for b's identity and reports what
// happened. The caller is responsible for having set b.ExpiresAt.
func (r *Registry) Apply(b *beacon.Beacon) ApplyResult {
	key := b.Key()
	existing, present := r.beacons.Get(key)
	r.beacons.Set(key, b)

	switch {
	case !present:
		return ApplyCreated
	case existing.RSSI != b.RSSI:
		return ApplyUpdated
	default:
		return ApplyRenewed
	}
}

// Remove deletes and returns the record for the identity, if present.
func (r *Registry) Remove(id beacon.Identity) (*beacon.Beacon, bool) {
	key := id.Key()
	existing, present := r.beacons.Get(key)
	if !present {
		return nil, false
	}
	r.beacons.Del(key)
	return existing, true
}

// Get returns the current record for the identity, if present.
func (r *Registry) Get(id beacon.Identity) (*beacon.Beacon, bool) {
	return r.beacons.Get(id.Key())
}

func (r *Registry) IsEmpty() bool {
	return r.beacons.Len() == 0
}

func (r *Registry) Len() int {
	return r.beacons.Len()
}

// Snapshot returns copies of all present records.
func (r *Registry) Snapshot() []beacon.Beacon {
	out := make([]beacon.Beacon, 0, r.beacons.Len())
	r.beacons.Range(func(_ string, b *beacon.Beacon) bool {
		out = append(out, *b)
		return true
	})
	return out
}

// Clear drops every record without producing expiration results.
func (r *Registry) Clear() {
	r.beacons = hashmap.New[string, *beacon.Beacon]()
}
