package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwait_PacesRequests(t *testing.T) {
	limiter := New(20*time.Millisecond, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Await(context.Background()))
	}
	elapsed := time.Since(start)

	// First slot is free, the next two wait one interval each.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestAwait_BurstAllowance(t *testing.T) {
	limiter := New(50*time.Millisecond, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Await(context.Background()))
	}

	assert.Less(t, time.Since(start), 25*time.Millisecond)
}

func TestAwait_ContextCancelled(t *testing.T) {
	limiter := New(time.Hour, 1)
	require.NoError(t, limiter.Await(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, limiter.Await(ctx))
}

func TestAwait_ConcurrentCallersSerialized(t *testing.T) {
	limiter := New(10*time.Millisecond, 1)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = limiter.Await(context.Background())
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPerWindow(t *testing.T) {
	limiter := PerWindow(120, time.Minute, 1)
	assert.Equal(t, 500*time.Millisecond, limiter.Interval())

	// A zero request count falls back to one per window.
	limiter = PerWindow(0, time.Minute, 1)
	assert.Equal(t, time.Minute, limiter.Interval())
}

func TestNew_Defaults(t *testing.T) {
	limiter := New(0, 0)
	assert.Equal(t, time.Millisecond, limiter.Interval())
}
