// Package ringchan provides a bounded channel with overwrite-oldest
// semantics, used to fan events out to subscribers without ever blocking
// the producer.
package ringchan

// RingChannel wraps a buffered channel so that producers never block: when
// the buffer is full the oldest element is dropped to make room. Consumers
// read it like an ordinary channel via C().
type RingChannel[T any] struct {
	ch chan T
}

// New creates a RingChannel with the given capacity.
func New[T any](capacity int) *RingChannel[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &RingChannel[T]{ch: make(chan T, capacity)}
}

// C returns the receive side. Consumers can range over it until Close.
func (rc *RingChannel[T]) C() <-chan T {
	return rc.ch
}

// Send inserts v, dropping the oldest buffered element if the buffer is
// full. Returns true when an element was dropped.
func (rc *RingChannel[T]) Send(v T) bool {
	select {
	case rc.ch <- v:
		return false
	default:
	}

	dropped := false
	select {
	case <-rc.ch:
		dropped = true
	default:
	}
	rc.ch <- v
	return dropped
}

// TrySend inserts v only if there is room.
func (rc *RingChannel[T]) TrySend(v T) bool {
	select {
	case rc.ch <- v:
		return true
	default:
		return false
	}
}

// Len returns the number of buffered elements.
func (rc *RingChannel[T]) Len() int {
	return len(rc.ch)
}

// Cap returns the buffer capacity.
func (rc *RingChannel[T]) Cap() int {
	return cap(rc.ch)
}

// Close closes the receive side. Sending after Close panics; callers must
// serialize Close against producers.
func (rc *RingChannel[T]) Close() {
	close(rc.ch)
}
