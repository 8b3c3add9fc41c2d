// Package monitor tracks which proximity beacons are nearby right now.
//
// It drives an adaptive duty-cycled scan over the radio, decodes
// advertisement frames into beacon records, tracks per-beacon liveness
// with one-shot expiration timers and fans out Detected, Updated, Expired
// and StatusChanged events to a subscriber channel.
//
// All registry and timer mutation is serialized under one mutex: radio
// callbacks, expiration firings and phase transitions all enter through
// it, so detection and expiration handling never interleave for the same
// identity.
package monitor

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/srg/lantern/beacon"
	"github.com/srg/lantern/internal/radio"
	"github.com/srg/lantern/internal/ringchan"
	"github.com/srg/lantern/pkg/config"
)

// ErrAlreadyStarted is returned by Start on a running monitor.
var ErrAlreadyStarted = errors.New("monitor already started")

const eventBufferSize = 128

// Monitor is one beacon-monitoring subsystem instance.
type Monitor struct {
	cfg    *config.Config
	logger *logrus.Logger
	clock  clockwork.Clock

	mu       sync.Mutex
	scanner  radio.Scanner
	registry *Registry
	expiry   *expirations
	events   *ringchan.RingChannel[Event]
	phase    clockwork.Timer
	scanning bool
	started  bool
	stopped  bool
}

// Option customizes a Monitor at construction.
type Option func(*Monitor)

// WithClock substitutes the wall clock, primarily for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Monitor) { m.clock = clock }
}

// WithScanner substitutes the radio scanner. Without this option the
// monitor opens the platform radio on Start.
func WithScanner(s radio.Scanner) Option {
	return func(m *Monitor) { m.scanner = s }
}

// New creates a monitor. A nil cfg means defaults; a nil logger means a
// fresh default logger.
func New(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Monitor {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}

	m := &Monitor{
		cfg:      cfg,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
		registry: NewRegistry(),
		events:   ringchan.New[Event](eventBufferSize),
	}
	m.expiry = newExpirations(m.clock)

	for _, opt := range opts {
		opt(m)
	}
	// Options may have replaced the clock.
	m.expiry.clock = m.clock

	return m
}

// Events returns the notification channel. Delivery is best effort: when
// the consumer falls behind, the oldest undelivered event is dropped. The
// channel is closed by Stop.
func (m *Monitor) Events() <-chan Event {
	return m.events.C()
}

// Beacons returns a snapshot of the currently-present beacons.
func (m *Monitor) Beacons() []beacon.Beacon {
	return m.registry.Snapshot()
}

// Start opens the radio if none was injected and begins the first active
// scan phase. An unavailable radio is fatal: the monitor does not start.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	if m.scanner == nil {
		s, err := radio.Factory(m.logger)
		if err != nil {
			return fmt.Errorf("radio unavailable: %w", err)
		}
		m.scanner = s
	}

	m.started = true
	m.logger.WithFields(logrus.Fields{
		"scan_interval":      m.cfg.ScanInterval,
		"fast_scan_interval": m.cfg.FastScanInterval,
		"expiration":         m.cfg.ExpirationInterval,
	}).Info("Beacon monitor starting")

	m.enterActiveLocked()
	return nil
}

// Stop tears the monitor down: the phase timer and every armed expiration
// timer are cancelled, the radio is stopped and released, the registry is
// cleared without firing Expired events, a final Off status is published
// and the event channel is closed. No callback runs after Stop returns.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started || m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true

	if m.phase != nil {
		m.phase.Stop()
	}
	m.expiry.CancelAll()
	m.registry.Clear()
	m.scanning = false
	scanner := m.scanner
	m.mu.Unlock()

	// Closed outside the lock: Close waits for in-flight detection
	// callbacks, which may themselves be blocked on the lock. They observe
	// stopped and become no-ops.
	if err := scanner.Close(); err != nil {
		m.logger.WithError(err).Warn("Failed to close radio")
	}

	m.logger.Info("Beacon monitor stopped")
	m.events.Send(Event{Type: EventStatusChanged, Status: StatusOff, Timestamp: m.clock.Now()})
	m.events.Close()
}

// enterActiveLocked begins an active scan phase: publish the duty-mode
// status, start the radio and schedule the transition to idle. A scan
// start failure is logged and retried on the next active phase.
func (m *Monitor) enterActiveLocked() {
	if m.stopped {
		return
	}

	if m.registry.IsEmpty() {
		m.publishStatusLocked(StatusScanning)
	} else {
		m.publishStatusLocked(StatusFastScanning)
	}

	if err := m.scanner.Start(m.handleDetection); err != nil {
		m.logger.WithError(err).
			WithField("reason", scanFailureReason(err)).
			Error("Failed to start scan, will retry next cycle")
	} else {
		m.scanning = true
	}

	m.phase = m.clock.AfterFunc(m.cfg.ActiveScanDuration, m.enterIdle)
}

func (m *Monitor) enterActive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enterActiveLocked()
}

// enterIdle ends the active phase: stop the radio and wait for the next
// cycle. The idle gap is short while any beacon is present.
func (m *Monitor) enterIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	if m.scanning {
		if err := m.scanner.Stop(); err != nil {
			m.logger.WithError(err).Warn("Failed to stop scan")
		}
		m.scanning = false
	}
	m.publishStatusLocked(StatusNotScanning)

	interval := m.cfg.ScanInterval
	if !m.registry.IsEmpty() {
		interval = m.cfg.FastScanInterval
	}
	m.phase = m.clock.AfterFunc(interval, m.enterActive)
}

// handleDetection is the radio callback: decode, filter, apply to the
// registry, re-arm expiration, publish.
func (m *Monitor) handleDetection(d radio.Detection) {
	b, ok := beacon.Decode(d.Payload, d.RSSI, d.Address)
	if !ok {
		// Not a beacon; a normal negative result.
		return
	}

	if m.cfg.UUIDFilter != "" && b.UUID != m.cfg.UUIDFilter {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || !m.started {
		return
	}

	b.ExpiresAt = m.clock.Now().Add(m.cfg.ExpirationInterval)
	result := m.registry.Apply(b)

	// Every detection renews the deadline, including unchanged-RSSI
	// sightings: a continuously visible beacon must never expire.
	id := b.Identity
	m.expiry.Arm(id.Key(), m.cfg.ExpirationInterval, func() { m.expire(id) })

	switch result {
	case ApplyCreated:
		m.logger.WithFields(logrus.Fields{
			"beacon":    id,
			"rssi":      b.RSSI,
			"proximity": b.Proximity,
		}).Info("Beacon detected")
		m.events.Send(Event{Type: EventDetected, Beacon: b, Timestamp: m.clock.Now()})
	case ApplyUpdated:
		m.logger.WithFields(logrus.Fields{
			"beacon":    id,
			"rssi":      b.RSSI,
			"proximity": b.Proximity,
		}).Debug("Beacon updated")
		m.events.Send(Event{Type: EventUpdated, Beacon: b, Timestamp: m.clock.Now()})
	case ApplyRenewed:
		// Deadline advanced, nothing to announce.
	}
}

// expire fires when an identity was not re-detected before its deadline.
// Firing for an identity no longer present is a no-op.
func (m *Monitor) expire(id beacon.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	record, present := m.registry.Get(id)
	if !present {
		return
	}

	// A timer whose deadline was reached is past cancellation: a
	// re-detection racing with the firing re-arms first and the stale
	// callback still runs. The renewed deadline identifies such a firing;
	// it must not touch the record or the freshly armed timer.
	if record.ExpiresAt.After(m.clock.Now()) {
		return
	}

	m.expiry.Forget(id.Key())
	m.registry.Remove(id)

	m.logger.WithField("beacon", id).Info("Beacon expired")
	m.events.Send(Event{Type: EventExpired, Beacon: record, Timestamp: m.clock.Now()})
}

// scanFailureReason classifies a scan start failure into a stable
// human-readable description for the log line.
func scanFailureReason(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, os.ErrPermission),
		strings.Contains(msg, "permission"),
		strings.Contains(msg, "operation not permitted"):
		return "adapter access denied"
	case strings.Contains(msg, "already"):
		return "scan already running"
	case strings.Contains(msg, "can't init"),
		strings.Contains(msg, "no device"),
		strings.Contains(msg, "down"),
		strings.Contains(msg, "disabled"):
		return "adapter unavailable"
	default:
		return "internal radio error"
	}
}

func (m *Monitor) publishStatusLocked(s Status) {
	m.logger.WithField("status", s).Debug("Scanner status changed")
	m.events.Send(Event{Type: EventStatusChanged, Status: s, Timestamp: m.clock.Now()})
}
