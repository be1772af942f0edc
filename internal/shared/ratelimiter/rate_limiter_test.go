package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.WaitIfNeeded(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 3, rl.count)
}

func TestRateLimiter_WaitsForNextWindow(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rl.WaitIfNeeded(ctx))
	start := time.Now()
	require.NoError(t, rl.WaitIfNeeded(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, 1, rl.count)
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	current := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return current }
	rl.lastReset = current

	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	current = current.Add(time.Minute)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	assert.Equal(t, 1, rl.count)
	assert.Equal(t, current, rl.lastReset)
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, rl.count, "canceled wait must not consume a slot")
}

func TestRateLimiter_CancelWhileAnotherCallerWaits(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	// 1件目の待機者はウィンドウが明けるまで待ち続ける
	blockedCtx, cancelBlocked := context.WithCancel(context.Background())
	blocked := make(chan error, 1)
	go func() { blocked <- rl.WaitIfNeeded(blockedCtx) }()
	t.Cleanup(func() {
		cancelBlocked()
		<-blocked
	})
	time.Sleep(20 * time.Millisecond)

	// 2件目は1件目の待機に関係なく自分のctxで中断できる
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- rl.WaitIfNeeded(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("canceled caller stayed blocked behind another waiter")
	}
}

func TestRateLimiter_ConcurrentCallers(t *testing.T) {
	rl := NewRateLimiter(100, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rl.WaitIfNeeded(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, rl.count)
}
