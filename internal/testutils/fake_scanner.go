package testutils

import (
	"sync"

	"github.com/srg/lantern/internal/radio"
)

// FakeScanner is a scriptable radio.Scanner. Detections injected while a
// scan is running are delivered synchronously to the registered handler,
// mirroring how the real radio calls back from its scan goroutine.
type FakeScanner struct {
	mu        sync.Mutex
	handler   radio.Handler
	running   bool
	closed    bool
	starts    int
	stops     int
	startErrs []error
}

func NewFakeScanner() *FakeScanner {
	return &FakeScanner{}
}

// FailNextStart queues an error to be returned by the next Start call.
func (f *FakeScanner) FailNextStart(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErrs = append(f.startErrs, err)
}

func (f *FakeScanner) Start(h radio.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.startErrs) > 0 {
		err := f.startErrs[0]
		f.startErrs = f.startErrs[1:]
		return err
	}

	f.starts++
	f.running = true
	f.handler = h
	return nil
}

func (f *FakeScanner) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.running = false
	f.handler = nil
	return nil
}

func (f *FakeScanner) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.running = false
	f.handler = nil
	return nil
}

// Inject delivers a detection to the monitor, as the radio would during an
// active scan. Detections injected while idle are dropped.
func (f *FakeScanner) Inject(d radio.Detection) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()

	if h != nil {
		h(d)
	}
}

func (f *FakeScanner) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *FakeScanner) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *FakeScanner) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *FakeScanner) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
