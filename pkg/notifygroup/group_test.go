package notifygroup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sawdustofmind/notify/pkg/notify"
)

func TestWaitAnyPicksAlreadyNotified(t *testing.T) {
	n1, n2 := notify.New(), notify.New()
	n2.NotifyOne()

	idx, err := WaitAny(context.Background(), n1.Notified(), n2.Notified())
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

func TestWaitAnyPicksFirstToFire(t *testing.T) {
	n1, n2, n3 := notify.New(), notify.New(), notify.New()

	go func() {
		time.Sleep(30 * time.Millisecond)
		n2.NotifyOne()
	}()

	idx, err := WaitAny(context.Background(), n1.Notified(), n2.Notified(), n3.Notified())
	require.NoError(t, err)
	require.Equal(t, 1, idx)
}

func TestWaitAnyRespectsContext(t *testing.T) {
	n1, n2 := notify.New(), notify.New()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := WaitAny(ctx, n1.Notified(), n2.Notified())
	require.Error(t, err)
}

func TestWaitAnyPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		_, _ = WaitAny(context.Background())
	})
}
