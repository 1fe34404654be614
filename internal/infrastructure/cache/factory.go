package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/shared"
)

// StoreFactory creates the idempotency and automation state stores based on
// whether Redis is reachable.
type StoreFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateIdempotencyStore tries Redis first and falls back to in-memory when
// allowed. In-memory stores do not share state across instances, which can
// let a replayed webhook through in distributed deployments.
func (f *StoreFactory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for webhook idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// CreateStateStore tries Redis first and falls back to in-memory when
// allowed. In-memory state cannot prevent double-fires across instances.
func (f *StoreFactory) CreateStateStore() (automation.StateStore, error) {
	store, err := NewRedisStateStore(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis automation state store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for automation state but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory automation state store",
		zap.Error(err),
	)
	return NewInMemoryStateStore(), nil
}
