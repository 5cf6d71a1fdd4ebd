package notify

import "context"

// notified local states. Distinct from Notify's own state constants above
// — this tracks one consumer's progress, not the shared permit.
const (
	notifiedInit uint8 = iota
	notifiedWaiting
	notifiedDone
)

// Notified is a handle returned by Notify.Notified, driven to completion by
// repeated calls to Poll (or the convenience Wait), consuming at most one
// permit. It is fused: once Poll/Wait reports Ready, every subsequent call
// also reports Ready without touching the Notify again.
//
// A Notified must not be copied after its first Poll/Enable/Wait call —
// construct one at a time via Notify.Notified and keep it behind the
// pointer that Notify.Notified returns.
type Notified struct {
	notify *Notify
	state  uint8
	waiter *waiter
}

// Enable consumes a pending permit synchronously if one is stored, without
// registering a waker. It reports true if a permit was consumed. Calling
// Enable repeatedly before any Poll is the idiomatic way to avoid a
// lost-wakeup race between a side-channel check (e.g. a queue pop) and
// beginning to wait: enable first, recheck the side channel, and only then
// Wait or Poll — if no permit was stored, Enable has already queued this
// Notified, so a concurrent NotifyOne arriving after Enable notifies it
// instead of getting lost.
func (f *Notified) Enable() bool {
	return f.Poll(nil) == Ready
}

// Poll drives this Notified's state machine once. w is the waker to
// register if no permit is available yet; it may be nil (as Enable passes),
// in which case no wake registration occurs but a pending permit is still
// consumed if present.
//
// Poll never blocks and never calls Wake while holding the Notify's
// internal lock. When replacing a registered waker it does call the stored
// waker's WillWake under that lock.
func (f *Notified) Poll(w Waker) PollResult {
	switch f.state {
	case notifiedDone:
		return Ready

	case notifiedWaiting:
		return f.pollWaiting(w)

	default: // notifiedInit
		return f.pollInit(w)
	}
}

func (f *Notified) pollInit(w Waker) PollResult {
	n := f.notify

	// Fast path: a permit may already be stored.
	if n.state.CompareAndSwap(stateNotified, stateEmpty) {
		f.state = notifiedDone
		return Ready
	}

	for {
		n.mu.Lock()
		curr := n.state.Load()
		switch curr {
		case stateEmpty:
			if !n.state.CompareAndSwap(stateEmpty, stateWaiting) {
				// Raced with a concurrent NotifyOne/NotifyLast storing a
				// permit between our load and the CAS. Release the lock
				// and retry from the top of the loop.
				n.mu.Unlock()
				continue
			}
		case stateNotified:
			if n.state.CompareAndSwap(stateNotified, stateEmpty) {
				n.mu.Unlock()
				f.state = notifiedDone
				return Ready
			}
			n.mu.Unlock()
			continue
		case stateWaiting:
			// Already the right state; proceed to register below.
		}

		if w != nil {
			f.waiter.waker = w
		}
		n.waiters.pushFront(f.waiter)
		f.state = notifiedWaiting
		n.mu.Unlock()
		return Pending
	}
}

func (f *Notified) pollWaiting(w Waker) PollResult {
	n := f.notify

	if f.waiter.notification.Load() != notificationNone {
		// Ownership of the waker slot transferred to us the moment the
		// producer release-stored the notification tag; safe to touch it
		// without the lock.
		f.waiter.waker = nil
		f.waiter.notification.Store(notificationNone)
		f.state = notifiedDone
		return Ready
	}

	n.mu.Lock()
	if f.waiter.notification.Load() != notificationNone {
		n.mu.Unlock()
		f.waiter.waker = nil
		f.waiter.notification.Store(notificationNone)
		f.state = notifiedDone
		return Ready
	}

	if w != nil && (f.waiter.waker == nil || !f.waiter.waker.WillWake(w)) {
		f.waiter.waker = w
	}
	n.mu.Unlock()
	return Pending
}

// Cancel abandons this Notified. It is the Go stand-in for Rust's implicit
// Drop: call it when you stop polling a Notified before it reaches Ready
// (Wait calls it automatically via defer). Calling Cancel on a Notified
// that is Init or already Done is a no-op.
//
// If this Notified had already been targeted by a producer but never
// observed the notification (i.e. it was notified-but-not-polled when
// cancelled), the pending permit is forwarded to another waiter — or
// re-stored on the Notify — using the same FIFO/LIFO strategy the producer
// used. No permit is ever lost to cancellation.
//
// Cancel leaves a Waiting Notified in the Done state, so a later Poll
// reports Ready even though this Notified consumed no permit.
func (f *Notified) Cancel() {
	if f.state != notifiedWaiting {
		return
	}
	n := f.notify

	n.mu.Lock()
	n.waiters.remove(f.waiter)
	if n.waiters.isEmpty() && n.state.Load() == stateWaiting {
		n.state.Store(stateEmpty)
	}

	var waker Waker
	if tag := f.waiter.notification.Load(); tag != notificationNone {
		strategy := strategyFifo
		if tag == notificationOneLifo {
			strategy = strategyLifo
		}
		waker = n.notifyLocked(n.state.Load(), strategy)
	}
	n.mu.Unlock()

	if waker != nil {
		waker.Wake()
	}

	f.state = notifiedDone
}

// Wait blocks until notified or until ctx is done, whichever comes first.
// It is the ordinary blocking entry point for callers that do not want to
// write their own Poll loop; internally it drives Poll with a small
// channel-backed Waker.
//
// If ctx is done before a permit arrives, Wait cancels its registration
// (see Cancel) and returns ctx.Err(). A permit that was in flight when
// cancellation raced in is forwarded to another waiter, never lost.
func (f *Notified) Wait(ctx context.Context) error {
	if f.Enable() {
		return nil
	}

	w := newChanWaker()
	if f.Poll(w) == Ready {
		return nil
	}

	select {
	case <-w.ch:
		f.Poll(nil) // observe the notification, transition to Done
		return nil
	case <-ctx.Done():
		f.Cancel()
		return ctx.Err()
	}
}
