package reqreply

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_GetBlocksUntilAnswer(t *testing.T) {
	b := New[string, int]()
	var woken bool

	result := make(chan int, 1)
	go func() {
		v, err := b.Get(context.Background(), "question", func() { woken = true })
		require.NoError(t, err)
		result <- v
	}()

	require.Eventually(t, func() bool {
		req, ok := b.Pending()
		return ok && req == "question"
	}, time.Second, time.Millisecond)

	assert.True(t, woken)
	b.Answer(42)

	select {
	case v := <-result:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after Answer")
	}
}

func TestBridge_CancelUnblocksGet(t *testing.T) {
	b := New[string, int]()
	errCh := make(chan error, 1)
	go func() {
		_, err := b.Get(context.Background(), "question", nil)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		_, ok := b.Pending()
		return ok
	}, time.Second, time.Millisecond)

	b.Cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrCanceled)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after Cancel")
	}
}

func TestBridge_SecondConcurrentGetFailsBusy(t *testing.T) {
	b := New[string, int]()
	go b.Get(context.Background(), "first", nil)

	require.Eventually(t, func() bool {
		_, ok := b.Pending()
		return ok
	}, time.Second, time.Millisecond)

	_, err := b.Get(context.Background(), "second", nil)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestBridge_ContextCancelUnblocksGet(t *testing.T) {
	b := New[string, int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := b.Get(ctx, "question", nil)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		_, ok := b.Pending()
		return ok
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after context cancel")
	}

	// After a context-cancel unblocks Get, a stale Answer must not panic
	// or be delivered to nobody.
	assert.NotPanics(t, func() { b.Answer(1) })
}
