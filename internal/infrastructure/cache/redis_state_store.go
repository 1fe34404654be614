package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commercehub/backend/internal/domain/automation"
)

// RedisStateStore implements automation.StateStore on Redis so concurrent
// evaluators across instances share cooldown state. SETNX with the cooldown
// as TTL makes the claim atomic: the first evaluator to set the claim key
// wins, everyone else is inside the window until it expires.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore creates a Redis-backed automation state store
func NewRedisStateStore(cfg RedisConfig) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStateStore{
		client:    client,
		keyPrefix: "automation:state:",
	}, nil
}

// NewRedisStateStoreWithClient creates a store sharing an existing client
func NewRedisStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "automation:state:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix}
}

// TryFire atomically claims a fire for the key. With a cooldown the claim
// key carries the window as its TTL; without one the fire is always claimed.
// The last-fired record expires after its retention so per-tick keys cannot
// accumulate forever.
func (s *RedisStateStore) TryFire(ctx context.Context, key string, cooldown time.Duration) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if cooldown > 0 {
		claimed, err := s.client.SetNX(ctx, s.keyPrefix+"claim:"+key, now, cooldown).Result()
		if err != nil {
			return false, fmt.Errorf("failed to claim automation fire: %w", err)
		}
		if !claimed {
			return false, nil
		}
	}

	retention := lastFiredRetention
	if cooldown > retention {
		retention = cooldown
	}
	if err := s.client.Set(ctx, s.keyPrefix+"last:"+key, now, retention).Err(); err != nil {
		return false, fmt.Errorf("failed to record last fire time: %w", err)
	}
	return true, nil
}

// LastFiredAt returns the recorded last fire time, zero when never fired
func (s *RedisStateStore) LastFiredAt(ctx context.Context, key string) (time.Time, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+"last:"+key).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last fire time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt last fire time %q: %w", val, err)
	}
	return t, nil
}

// Close closes the Redis client
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStateStore implements StateStore
var _ automation.StateStore = (*RedisStateStore)(nil)
