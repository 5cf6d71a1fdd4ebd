package notifyqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendThenRecv(t *testing.T) {
	q := New[int]()
	q.Send(7)

	v, err := q.Recv(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestRecvBlocksUntilSend(t *testing.T) {
	q := New[string]()

	done := make(chan string, 1)
	go func() {
		v, err := q.Recv(context.Background())
		require.NoError(t, err)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("Recv returned before any Send")
	case <-time.After(50 * time.Millisecond):
	}

	q.Send("hello")

	select {
	case v := <-done:
		require.Equal(t, "hello", v)
	case <-time.After(2 * time.Second):
		t.Fatal("Recv did not wake up after Send")
	}
}

func TestTryRecvEmpty(t *testing.T) {
	q := New[int]()
	_, ok := q.TryRecv()
	require.False(t, ok)
}

func TestRecvRespectsContext(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFIFOOrdering(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Send(i)
	}
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		v, err := q.Recv(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}
