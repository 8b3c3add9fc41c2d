package monitor

import (
	"time"

	"github.com/srg/lantern/beacon"
)

// Status describes what the scanner side of the monitor is doing.
type Status int

const (
	// StatusOff is published once, on teardown.
	StatusOff Status = iota
	// StatusScanning marks an active phase with no beacon present.
	StatusScanning
	// StatusFastScanning marks an active phase with beacons present.
	StatusFastScanning
	// StatusNotScanning marks an idle phase.
	StatusNotScanning
)

func (s Status) String() string {
	switch s {
	case StatusOff:
		return "Off"
	case StatusScanning:
		return "Scanning"
	case StatusFastScanning:
		return "FastScanning"
	case StatusNotScanning:
		return "NotScanning"
	default:
		return "Unknown"
	}
}

// EventType marks what happened to a beacon, or that the scanner status
// changed.
type EventType int

const (
	// EventDetected is the first sighting of an identity.
	EventDetected EventType = iota
	// EventUpdated is a sighting of a present identity with changed RSSI.
	EventUpdated
	// EventExpired is an identity removed after its timeout.
	EventExpired
	// EventStatusChanged is a scanner status transition.
	EventStatusChanged
)

func (t EventType) String() string {
	switch t {
	case EventDetected:
		return "detected"
	case EventUpdated:
		return "updated"
	case EventExpired:
		return "expired"
	case EventStatusChanged:
		return "status"
	default:
		return "unknown"
	}
}

// Event is one notification from the monitor. Beacon events carry a full
// record snapshot; status events carry the new status and a nil Beacon.
type Event struct {
	Type      EventType      `json:"type"`
	Beacon    *beacon.Beacon `json:"beacon,omitempty"`
	Status    Status         `json:"status,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
