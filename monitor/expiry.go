package monitor

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// expirations tracks one one-shot timer per present beacon identity. All
// methods are called under the monitor mutex; the struct itself does no
// locking.
type expirations struct {
	clock  clockwork.Clock
	timers map[string]clockwork.Timer
}

func newExpirations(clock clockwork.Clock) *expirations {
	return &expirations{
		clock:  clock,
		timers: make(map[string]clockwork.Timer),
	}
}

// Arm schedules fn after d for the identity key, replacing any timer
// already armed for it. Two expirations are never outstanding for the same
// identity.
func (e *expirations) Arm(key string, d time.Duration, fn func()) {
	if t, ok := e.timers[key]; ok {
		t.Stop()
	}
	e.timers[key] = e.clock.AfterFunc(d, fn)
}

// Forget drops the bookkeeping for a fired or cancelled timer.
func (e *expirations) Forget(key string) {
	if t, ok := e.timers[key]; ok {
		t.Stop()
		delete(e.timers, key)
	}
}

// CancelAll stops every armed timer. Used on teardown; no expiration fires
// afterwards.
func (e *expirations) CancelAll() {
	for key, t := range e.timers {
		t.Stop()
		delete(e.timers, key)
	}
}

func (e *expirations) Len() int {
	return len(e.timers)
}
