package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkProcessed_FirstTimeOnly(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	fresh, err := store.MarkProcessed(context.Background(), "FAIRE:evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(context.Background(), "FAIRE:evt-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestMarkProcessed_ExpiredKeyCanBeReprocessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	fresh, err := store.MarkProcessed(context.Background(), "FAIRE:evt-1", 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, fresh)

	time.Sleep(20 * time.Millisecond)

	fresh, err = store.MarkProcessed(context.Background(), "FAIRE:evt-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestIsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	processed, err := store.IsProcessed(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(context.Background(), "FAIRE:evt-1", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(context.Background(), "FAIRE:evt-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestMarkProcessed_ConcurrentSingleWinner(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := store.MarkProcessed(context.Background(), "contested", time.Hour)
			if err == nil && fresh {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestCleanup_RemovesExpiredEntries(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "short", time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(context.Background(), "long", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestClose_Idempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
