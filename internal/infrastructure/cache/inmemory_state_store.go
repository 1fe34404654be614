package cache

import (
	"context"
	"sync"
	"time"

	"github.com/commercehub/backend/internal/domain/automation"
)

// lastFiredRetention bounds how long a fire record is kept past its cooldown
// window. It must outlive the longest per-tick claim so redelivered schedule
// ticks stay idempotent.
const lastFiredRetention = 72 * time.Hour

// fireRecord is one claimed fire with its expiry
type fireRecord struct {
	firedAt   time.Time
	expiresAt time.Time
}

// InMemoryStateStore implements automation.StateStore with a mutex-guarded
// map. The lock makes TryFire a compare-and-set: concurrent evaluators of
// the same automation cannot both claim a fire inside the cooldown window.
// Per-tick claim keys accumulate one record per fire, so a sweeper drops
// records past their retention.
type InMemoryStateStore struct {
	mu        sync.Mutex
	fires     map[string]fireRecord
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStateStore creates an in-memory automation state store and
// starts its expiry sweeper.
func NewInMemoryStateStore() *InMemoryStateStore {
	store := &InMemoryStateStore{
		fires:    make(map[string]fireRecord),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// TryFire atomically claims a fire for the key unless a previous fire is
// still inside the cooldown window
func (s *InMemoryStateStore) TryFire(ctx context.Context, key string, cooldown time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if cooldown > 0 {
		if rec, ok := s.fires[key]; ok && now.Before(rec.expiresAt) && now.Sub(rec.firedAt) < cooldown {
			return false, nil
		}
	}

	retention := lastFiredRetention
	if cooldown > retention {
		retention = cooldown
	}
	s.fires[key] = fireRecord{firedAt: now, expiresAt: now.Add(retention)}
	return true, nil
}

// LastFiredAt returns the recorded last fire time, zero when never fired or
// the record has already been swept
func (s *InMemoryStateStore) LastFiredAt(ctx context.Context, key string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.fires[key]
	if !ok || s.now().After(rec.expiresAt) {
		return time.Time{}, nil
	}
	return rec.firedAt, nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryStateStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored fire records (for testing/monitoring)
func (s *InMemoryStateStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fires)
}

// SetClock overrides the clock (for testing)
func (s *InMemoryStateStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *InMemoryStateStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStateStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, rec := range s.fires {
		if now.After(rec.expiresAt) {
			delete(s.fires, key)
		}
	}
}

// Ensure InMemoryStateStore implements StateStore
var _ automation.StateStore = (*InMemoryStateStore)(nil)
