package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants whose schedule triggers are evaluated
type TenantProvider interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TickHandler receives scheduler ticks. The automation service implements it.
type TickHandler interface {
	HandleTick(ctx context.Context, tenantID uuid.UUID, lastCheck, now time.Time) error
}

// TickSchedulerConfig holds configuration for the tick scheduler
type TickSchedulerConfig struct {
	// CheckInterval is how often schedule triggers are evaluated
	CheckInterval time.Duration
}

// DefaultTickSchedulerConfig returns the default tick scheduler configuration
func DefaultTickSchedulerConfig() TickSchedulerConfig {
	return TickSchedulerConfig{
		CheckInterval: time.Minute,
	}
}

// TickScheduler drives schedule-triggered automations: every check interval
// it hands each active tenant a (lastCheck, now) window. Fires due inside
// the window are claimed through the shared state store, so running several
// instances is safe.
type TickScheduler struct {
	config         TickSchedulerConfig
	handler        TickHandler
	tenantProvider TenantProvider
	logger         *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastCheck time.Time
}

// NewTickScheduler creates a tick scheduler
func NewTickScheduler(
	config TickSchedulerConfig,
	handler TickHandler,
	tenantProvider TenantProvider,
	logger *zap.Logger,
) *TickScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &TickScheduler{
		config:         config,
		handler:        handler,
		tenantProvider: tenantProvider,
		logger:         logger,
	}
}

// Start starts the scheduler loop
func (s *TickScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.lastCheck = time.Now()
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Tick scheduler started",
		zap.Duration("check_interval", s.config.CheckInterval),
	)
	return nil
}

// Stop stops the scheduler and waits for the loop to drain
func (s *TickScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Tick scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TickScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

// tick evaluates all tenants for the window since the previous tick
func (s *TickScheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	lastCheck := s.lastCheck
	s.lastCheck = now
	s.mu.Unlock()

	tenantIDs, err := s.tenantProvider.GetAllActiveTenantIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list active tenants", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		if err := s.handler.HandleTick(ctx, tenantID, lastCheck, now); err != nil {
			s.logger.Warn("tick handling failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
}
