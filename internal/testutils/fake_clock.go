package testutils

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// FakeClock is a deterministic clockwork.Clock for tests. Unlike the
// clockwork fake, callbacks scheduled with AfterFunc fire synchronously
// inside Advance, in deadline order, so a test can advance time and
// immediately assert on the effects. Timers armed by a firing callback
// participate in the same Advance when they fall inside its window.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	clock   *FakeClock
	when    time.Time
	fn      func(at time.Time)
	ch      chan time.Time
	stopped bool
}

// NewFakeClock creates a FakeClock at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Advance moves the clock to now+d, firing every due waiter in deadline
// order before returning.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		w := c.popDueLocked(target)
		if w == nil {
			break
		}
		c.now = w.when
		c.mu.Unlock()
		w.fn(w.when)
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// popDueLocked removes and returns the earliest waiter due at or before
// target, nil if none.
func (c *FakeClock) popDueLocked(target time.Time) *fakeWaiter {
	sort.SliceStable(c.waiters, func(i, j int) bool {
		return c.waiters[i].when.Before(c.waiters[j].when)
	})
	for i := 0; i < len(c.waiters); i++ {
		w := c.waiters[i]
		if w.stopped {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			i--
			continue
		}
		if w.when.After(target) {
			return nil
		}
		c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
		return w
	}
	return nil
}

// removeLocked drops w from the waiter list if it is still queued.
func (c *FakeClock) removeLocked(w *fakeWaiter) {
	for i, queued := range c.waiters {
		if queued == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *FakeClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Sleep blocks until the clock has been advanced past d.
func (c *FakeClock) Sleep(d time.Duration) {
	<-c.After(d)
}

func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	return c.NewTimer(d).Chan()
}

// AfterFunc schedules f to run during an Advance that reaches now+d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) clockwork.Timer {
	return c.schedule(d, func(time.Time) { f() })
}

func (c *FakeClock) NewTimer(d time.Duration) clockwork.Timer {
	ch := make(chan time.Time, 1)
	w := c.schedule(d, func(at time.Time) { ch <- at })
	w.ch = ch
	return w
}

func (c *FakeClock) NewTicker(d time.Duration) clockwork.Ticker {
	if d <= 0 {
		panic("testutils: non-positive ticker interval")
	}
	t := &fakeTicker{clock: c, interval: d, ch: make(chan time.Time, 1)}
	t.arm()
	return t
}

func (c *FakeClock) schedule(d time.Duration, fn func(time.Time)) *fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &fakeWaiter{clock: c, when: c.now.Add(d), fn: fn}
	c.waiters = append(c.waiters, w)
	return w
}

// fakeWaiter doubles as the clockwork.Timer handle.

func (w *fakeWaiter) Chan() <-chan time.Time {
	return w.ch
}

func (w *fakeWaiter) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	wasArmed := !w.stopped
	w.stopped = true
	return wasArmed
}

func (w *fakeWaiter) Reset(d time.Duration) bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	wasArmed := !w.stopped
	w.stopped = false
	w.when = w.clock.now.Add(d)
	w.clock.removeLocked(w)
	w.clock.waiters = append(w.clock.waiters, w)
	return wasArmed
}

type fakeTicker struct {
	clock    *FakeClock
	interval time.Duration
	ch       chan time.Time
	stopped  bool
	mu       sync.Mutex
}

func (t *fakeTicker) arm() {
	t.clock.schedule(t.interval, func(at time.Time) {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()
		if stopped {
			return
		}
		select {
		case t.ch <- at:
		default:
		}
		t.arm()
	})
}

func (t *fakeTicker) Chan() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Reset(d time.Duration) {
	t.mu.Lock()
	t.interval = d
	t.mu.Unlock()
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}
