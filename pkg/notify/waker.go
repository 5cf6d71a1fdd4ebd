package notify

// PollResult is the outcome of a single Poll call: either the permit was
// consumed and the Notified is done, or the caller must wait to be woken.
type PollResult int

const (
	// Pending means no permit is available yet; the caller has been (or
	// will be) registered and must wait for Wake to be called.
	Pending PollResult = iota
	// Ready means a permit was consumed. Further polls of the same
	// Notified also return Ready (see the Notified type's docs).
	Ready
)

func (r PollResult) String() string {
	if r == Ready {
		return "Ready"
	}
	return "Pending"
}

// Waker is the scheduler hand-off this package assumes but does not
// implement. The waker a Notified registers is woken at most once, by the
// NotifyOne/NotifyLast/Cancel call that dequeues its waiter, and only after
// that call has released the waiter queue's lock — never while it is held.
//
// WillWake reports whether calling Wake on the receiver would wake the same
// logical waiter as calling Wake on other. It is advisory: false negatives
// (reporting false when the two wakers are in fact equivalent) are always
// safe and simply cause a redundant waker replacement; false positives are
// not.
type Waker interface {
	Wake()
	WillWake(other Waker) bool
}

// chanWaker is the built-in Waker used by Notified.Wait. It wakes by
// sending on a buffered channel of size 1, so a Wake that races ahead of
// the receiver's select is never lost.
//
// Modeled on the closed-channel/buffered-channel wakeup idiom used for
// semaphore and notify-style primitives elsewhere in the ecosystem (a
// waiter parks on "its own" channel and is woken by a single send).
type chanWaker struct {
	ch chan struct{}
}

func newChanWaker() *chanWaker {
	return &chanWaker{ch: make(chan struct{}, 1)}
}

func (w *chanWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
		// Already has a pending wake queued; at most one permit is ever
		// meaningful to this waker, so a second send would be redundant.
	}
}

func (w *chanWaker) WillWake(other Waker) bool {
	o, ok := other.(*chanWaker)
	return ok && o.ch == w.ch
}
