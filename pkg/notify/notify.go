// Package notify implements a single-permit asynchronous notification
// primitive: a producer signals an event, a consumer waits for it, and
// neither side exchanges any data beyond the fact that something happened.
// It behaves like a semaphore whose permit count saturates at one.
//
// A Notify holds at most one stored permit. Notified() builds a handle a
// consumer drives with Poll/Enable (for callers writing their own
// scheduler loop) or Wait (for ordinary blocking use). NotifyOne wakes the
// oldest registered waiter, or stores a permit if none is registered;
// NotifyLast does the same but wakes the newest waiter instead.
//
// If NotifyOne is called before any Notified is polled, the next Poll (or
// Enable, or Wait) completes immediately, consuming that permit. Extra
// NotifyOne calls beyond the first coalesce into the same single permit.
package notify

import (
	"sync"

	"go.uber.org/atomic"
)

// Notify permit states. Transitions out of stateWaiting require holding
// Notify.mu; stateEmpty <-> stateNotified transitions are lock-free CAS.
// See the invariants documented on the Notify type below.
const (
	stateEmpty    uint32 = iota // no permit, no waiters
	stateWaiting                // waiters non-empty, no permit
	stateNotified               // permit stored, waiters empty
)

// notifyStrategy selects dequeue order for a NotifyOne/NotifyLast call.
type notifyStrategy int

const (
	strategyFifo notifyStrategy = iota // NotifyOne: wake the oldest waiter
	strategyLifo                       // NotifyLast: wake the newest waiter
)

func (s notifyStrategy) tag() uint32 {
	if s == strategyLifo {
		return notificationOneLifo
	}
	return notificationOneFifo
}

// Notify is a shared, process-local notification object.
//
// Invariants (hold between every public operation):
//   - state == stateEmpty  <=> no permit stored and waiters is empty.
//   - state == stateNotified => a permit is stored and waiters is empty.
//   - state == stateWaiting => waiters is non-empty and no permit is stored.
//
// The zero value is an empty Notify (no permit, no waiters) and is ready to
// use; New returns one.
type Notify struct {
	state atomic.Uint32

	mu      sync.Mutex
	waiters waitList
}

// New returns a Notify with no stored permit and no waiters.
func New() *Notify {
	return &Notify{}
}

// Notified returns a new handle bound to n. Constructing one has no side
// effect on n's state; it only begins participating once polled, enabled,
// or waited on.
func (n *Notify) Notified() *Notified {
	return &Notified{
		notify: n,
		state:  notifiedInit,
		waiter: newWaiter(),
	}
}

// NotifyOne wakes the oldest currently registered waiter. If none is
// registered, a permit is stored for the next Notified to consume.
//
// At most one permit is ever stored: many sequential calls to NotifyOne
// with no intervening successful poll collapse into a single permit.
func (n *Notify) NotifyOne() {
	n.notifyWithStrategy(strategyFifo)
}

// NotifyLast behaves like NotifyOne but wakes the most recently registered
// waiter instead of the oldest one.
func (n *Notify) NotifyLast() {
	n.notifyWithStrategy(strategyLifo)
}

func (n *Notify) notifyWithStrategy(s notifyStrategy) {
	curr := n.state.Load()

	// Fast path: no one is queued (or a permit is already stored). The
	// NOTIFIED -> NOTIFIED compare-and-swap below is deliberate, not a
	// no-op: it is a publication fence establishing happens-before with a
	// consumer racing in on the same transition in poll_notified's Init
	// branch (see Notified.Poll).
	for curr == stateEmpty || curr == stateNotified {
		if n.state.CompareAndSwap(curr, stateNotified) {
			return
		}
		curr = n.state.Load()
	}

	// state == stateWaiting: the lock is required to transition out of it.
	n.mu.Lock()
	curr = n.state.Load()
	waker := n.notifyLocked(curr, s)
	n.mu.Unlock()

	// Wake strictly after releasing mu: Wake may run arbitrary user code,
	// including code that re-enters this Notify.
	if waker != nil {
		waker.Wake()
	}
}

// notifyLocked implements the slow path of notifyWithStrategy. Caller must
// hold n.mu and have freshly reloaded curr under that lock. Returns the
// waker to wake after unlocking, or nil if no waiter was dequeued.
func (n *Notify) notifyLocked(curr uint32, s notifyStrategy) Waker {
	switch curr {
	case stateEmpty, stateNotified:
		// Lost the race: someone already flipped state to stateNotified
		// (or it was already there) between our lock-free peek and taking
		// the lock. Nothing queued to wake; make sure a permit is stored.
		n.state.Store(stateNotified)
		return nil

	case stateWaiting:
		var w *waiter
		if s == strategyFifo {
			w = n.waiters.popBack()
		} else {
			w = n.waiters.popFront()
		}
		// Invariant: state == stateWaiting implies waiters is non-empty,
		// so this pop cannot fail.

		waker := w.waker
		w.waker = nil
		w.notification.Store(s.tag())

		if n.waiters.isEmpty() {
			// Transitioning out of stateWaiting requires the lock, which
			// we hold, so a plain store suffices.
			n.state.Store(stateEmpty)
		}
		return waker

	default:
		panic("notify: corrupt state")
	}
}
