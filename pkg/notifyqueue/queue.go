// Package notifyqueue implements an unbounded multi-producer
// single-consumer value queue on top of pkg/notify: a mutex-guarded
// buffer paired with a Notify for wakeups, so a Send can never race a
// Recv into losing a wakeup.
package notifyqueue

import (
	"context"
	"sync"

	"github.com/sawdustofmind/notify/pkg/notify"
)

// Queue is an unbounded FIFO queue of values of type T. The zero value is
// not ready to use; construct one with New.
type Queue[T any] struct {
	mu     sync.Mutex
	values []T

	notify *notify.Notify
}

// New returns an empty Queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{notify: notify.New()}
}

// Send appends a value and wakes a waiting receiver, if any. Send never
// blocks.
func (q *Queue[T]) Send(v T) {
	q.mu.Lock()
	q.values = append(q.values, v)
	q.mu.Unlock()

	// Notify after releasing the queue lock so the waiter queue mutex is
	// never nested under it longer than necessary, and so a reentrant
	// waker cannot observe q.mu held.
	q.notify.NotifyOne()
}

// TryRecv pops a value without blocking. It reports false if the queue is
// currently empty.
func (q *Queue[T]) TryRecv() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.values) == 0 {
		var zero T
		return zero, false
	}
	v := q.values[0]
	q.values = q.values[1:]
	return v, true
}

// Recv blocks until a value is available or ctx is done. It follows the
// enable-then-recheck-then-wait loop described on notify.Notified.Enable:
// Enable is called before TryRecv on every iteration so a Send racing in
// between the previous TryRecv and the wait is never missed.
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	for {
		n := q.notify.Notified()
		n.Enable()

		if v, ok := q.TryRecv(); ok {
			// Drop the registration Enable may have made, forwarding any
			// notification it already received.
			n.Cancel()
			return v, nil
		}

		if err := n.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}

// Len reports the number of values currently buffered.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.values)
}
