package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBackoff(cfg *Config) (*ExponentialBackoff, *[]time.Duration) {
	eb := NewExponentialBackoff(cfg)
	var slept []time.Duration
	eb.wait = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return eb, &slept
}

func TestExponentialBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	eb, slept := newTestBackoff(&Config{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2})

	calls := 0
	err := eb.Execute(func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *slept)
}

func TestExponentialBackoff_StopsOnPermanentError(t *testing.T) {
	eb, slept := newTestBackoff(nil)
	permanent := errors.New("password authentication failed")

	calls := 0
	err := eb.Execute(func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.False(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestExponentialBackoff_ExhaustsAttempts(t *testing.T) {
	eb, slept := newTestBackoff(&Config{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 1500 * time.Millisecond, Multiplier: 2})

	err := eb.Execute(func() error { return context.DeadlineExceeded })

	assert.True(t, IsMaxRetriesExceeded(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond}, *slept)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("connection refused")), "message text alone is not enough")
	assert.True(t, IsTransient(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.True(t, IsTransient(fmt.Errorf("ping: %w", syscall.ECONNRESET)))
	assert.True(t, IsTransient(&net.DNSError{IsTimeout: true}))
}

func TestExponentialBackoff_StopsWhenContextDone(t *testing.T) {
	eb := NewExponentialBackoff(&Config{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 2})
	refused := fmt.Errorf("dial: %w", syscall.ECONNREFUSED)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := eb.ExecuteContext(ctx, func(context.Context) error {
		calls++
		cancel()
		return refused
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.False(t, IsMaxRetriesExceeded(err))
}

func TestExponentialBackoff_PassesContextToAttempts(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "ping")

	err := NewExponentialBackoff(nil).ExecuteContext(ctx, func(attemptCtx context.Context) error {
		assert.Equal(t, "ping", attemptCtx.Value(key{}))
		return nil
	})

	assert.NoError(t, err)
}
