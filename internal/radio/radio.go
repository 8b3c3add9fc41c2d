// Package radio abstracts the BLE radio behind the single capability
// surface the monitor needs: start delivering raw advertisement detections,
// stop, release the adapter. One implementation exists per radio stack;
// the monitor is written once against the interface.
package radio

import "github.com/sirupsen/logrus"

// Detection is one raw advertisement sighting as reported by the radio.
type Detection struct {
	// Payload is the raw advertising-report bytes.
	Payload []byte
	// RSSI is the signal strength measured for this reception.
	RSSI int
	// Address is the hardware address of the sender, empty if unknown.
	Address string
}

// Handler receives detections while a scan is running. It is called from
// the radio's own goroutine and must not block.
type Handler func(Detection)

// Scanner is the control surface of a BLE radio in observer role.
type Scanner interface {
	// Start begins an advertising scan, delivering detections to h until
	// Stop is called. Starting an already running scan is an error.
	Start(h Handler) error
	// Stop ends the running scan, if any. It does not wait for in-flight
	// deliveries to drain; callers holding locks a handler contends on can
	// therefore invoke it safely. Only Close waits.
	Stop() error
	// Close stops any running scan, waits for delivery to cease and
	// releases the adapter.
	Close() error
}

// Factory creates the platform scanner. It is a variable so tests can
// substitute a fake radio.
var Factory = func(logger *logrus.Logger) (Scanner, error) {
	return NewBLEScanner(logger)
}
