// Package notifygroup composes multiple pkg/notify handles into a single
// fan-in wait: the idiomatic Go analogue of racing several `Notified`
// futures together with a select. Exactly one winner is reported. A loser
// still waiting when the wait ends is cancelled, so a permit that reaches
// it later is forwarded; a loser that completed concurrently with the
// winner has already consumed its permit, and that permit is discarded.
package notifygroup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sawdustofmind/notify/pkg/notify"
)

// WaitAny blocks until the first of ns becomes Ready, or ctx is done,
// whichever happens first. It returns the index into ns of whichever
// Notified won the race. Every other Notified in ns that is still waiting
// is Cancelled, so a permit delivered to it but not yet observed is
// forwarded (per pkg/notify's forwarding-on-cancel guarantee) to whoever
// else is waiting on that same Notify, or stored there. A loser whose Wait
// completed before it was cancelled has consumed its permit; this call
// discards it.
//
// WaitAny panics if ns is empty.
func WaitAny(ctx context.Context, ns ...*notify.Notified) (int, error) {
	if len(ns) == 0 {
		panic("notifygroup: WaitAny requires at least one Notified")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	winner := make(chan int, 1)

	for i, n := range ns {
		i, n := i, n
		g.Go(func() error {
			if err := n.Wait(ctx); err != nil {
				return err
			}
			select {
			case winner <- i:
			default:
				// Another Notified already won; this one's permit was
				// already consumed by its own Wait and is simply
				// discarded here (matches "at most one result" fan-in
				// semantics).
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case i := <-winner:
		cancel() // stop and Cancel every other Notified's Wait
		<-done
		return i, nil
	case err := <-done:
		// Every goroutine finished without anyone winning: either the
		// caller's ctx was already done, or every Wait errored.
		select {
		case i := <-winner:
			return i, nil
		default:
			return -1, err
		}
	}
}
