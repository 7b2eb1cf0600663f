package llm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	t.Run("burst then wait", func(t *testing.T) {
		rl := newRateLimiter(600) // one token per 100ms
		defer rl.Close()
		ctx := context.Background()

		for i := 0; i < 600; i++ {
			require.True(t, rl.tryAcquire(), "token %d", i+1)
		}
		assert.False(t, rl.tryAcquire())

		start := time.Now()
		require.NoError(t, rl.wait(ctx))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("context cancellation", func(t *testing.T) {
		rl := newRateLimiter(1)
		defer rl.Close()
		require.NoError(t, rl.wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() { done <- rl.wait(ctx) }()

		time.Sleep(10 * time.Millisecond)
		cancel()

		err := <-done
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limiter canceled")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("non-positive rate defaults", func(t *testing.T) {
		rl := newRateLimiter(0)
		defer rl.Close()
		assert.Equal(t, 60, rl.capacity)
	})

	t.Run("close twice", func(t *testing.T) {
		rl := newRateLimiter(5)
		rl.Close()
		assert.NotPanics(t, rl.Close)
	})
}

type countingClient struct {
	reply string
	err   error
	calls atomic.Int32
	last  Request
}

func (c *countingClient) Complete(_ context.Context, req Request) (string, error) {
	c.calls.Add(1)
	c.last = req
	return c.reply, c.err
}

func TestLimitedClient(t *testing.T) {
	inner := &countingClient{reply: "ok"}
	lc := &limitedClient{next: inner, limiter: newRateLimiter(2)}
	defer func() { _ = lc.Close() }()

	for i := 0; i < 2; i++ {
		out, err := lc.Complete(context.Background(), Request{Prompt: "p"})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err := lc.Complete(ctx, Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}
