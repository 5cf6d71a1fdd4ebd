package notify

import "go.uber.org/atomic"

// notification tag values. Room is left for a future "All" variant the way
// the upstream primitive this is modeled on reserves one for its (not
// implemented here) broadcast sibling.
const (
	notificationNone uint32 = iota
	notificationOneFifo
	notificationOneLifo
)

// waiter is the intrusive queue node embedded in every Notified. It is
// only ever reached through a *waiter, never copied, so its address is
// stable for as long as it is linked into a Notify's queue — this is the
// Go stand-in for the pinning the original primitive needs to keep a
// linked-list back-reference valid.
type waiter struct {
	prev, next *waiter
	linked     bool

	// waker is dual-owned: protected by the owning Notify's mutex while
	// notification is notificationNone, exclusively owned by the Notified
	// holding this waiter once notification becomes non-zero. The
	// release-store of notification below is the single transfer point.
	waker Waker

	// notification is written exactly once between None states, by
	// whichever producer (NotifyOne/NotifyLast, or a Drop/Cancel path
	// forwarding a pending wake) dequeues this waiter. Release-stored;
	// acquire-loaded by the owning Notified.
	notification atomic.Uint32
}

func newWaiter() *waiter {
	w := &waiter{}
	w.notification.Store(notificationNone)
	return w
}

// waitList is an intrusive doubly linked list of *waiter, prepend-only at
// the front, with O(1) removal from anywhere given the node pointer. Not
// safe for concurrent use; callers hold Notify.mu.
//
// Hand-rolled rather than backed by container/list: container/list boxes
// each value in its own *Element wrapper, which would mean a waiter and its
// list node have different addresses — and this queue's whole point is that
// a notify_locked dequeue (or a Cancel-time removal) operates on the very
// pointer the waiter itself owns.
type waitList struct {
	head, tail *waiter
	len        int
}

func (l *waitList) isEmpty() bool {
	return l.len == 0
}

// pushFront links w at the front of the list. Consumers always register
// here, so the tail is always the oldest waiter.
func (l *waitList) pushFront(w *waiter) {
	w.prev = nil
	w.next = l.head
	if l.head != nil {
		l.head.prev = w
	}
	l.head = w
	if l.tail == nil {
		l.tail = w
	}
	w.linked = true
	l.len++
}

// popBack removes and returns the oldest (tail) waiter, or nil if empty.
// Used for FIFO notification.
func (l *waitList) popBack() *waiter {
	w := l.tail
	if w == nil {
		return nil
	}
	l.remove(w)
	return w
}

// popFront removes and returns the newest (head) waiter, or nil if empty.
// Used for LIFO notification.
func (l *waitList) popFront() *waiter {
	w := l.head
	if w == nil {
		return nil
	}
	l.remove(w)
	return w
}

// remove unlinks w from the list. It is a no-op if w is not currently
// linked (tracked via w.linked), matching the "remove is a no-op if the
// node is not linked" collaborator contract in spec.md §6.
func (l *waitList) remove(w *waiter) {
	if !w.linked {
		return
	}
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		l.head = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		l.tail = w.prev
	}
	w.prev, w.next = nil, nil
	w.linked = false
	l.len--
}
