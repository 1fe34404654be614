package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/standard"
)

// Handler consumes webhook events from the bus. EventTypes lists the event
// types the handler subscribes to; "*" matches every type.
type Handler interface {
	EventTypes() []string
	Handle(ctx context.Context, tenantID uuid.UUID, event *standard.StandardWebhookEvent) error
}

// Bus is an in-process pub/sub bus for normalized webhook events. It sits
// behind the webhook processor as its event sink and fans deliveries out to
// subscribed handlers synchronously. A failing handler never blocks the
// others; its error is logged and dispatch continues.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	running  atomic.Bool
}

// NewBus creates an in-process webhook event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for its declared event types. Passing
// explicit event types overrides the handler's own declaration.
func (b *Bus) Subscribe(handler Handler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Handle dispatches one webhook event to every matching subscriber. It
// implements the webhook processor's EventSink.
func (b *Bus) Handle(ctx context.Context, tenantID uuid.UUID, event *standard.StandardWebhookEvent) error {
	for _, handler := range b.matching(event.EventType) {
		if err := b.dispatch(ctx, handler, tenantID, event); err != nil {
			b.logger.Error("handler failed to process webhook event",
				zap.String("event_type", event.EventType),
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Start marks the bus running
func (b *Bus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("webhook event bus started")
	return nil
}

// Stop marks the bus stopped
func (b *Bus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("webhook event bus stopped")
	return nil
}

func (b *Bus) matching(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	matched := make([]Handler, 0, len(b.handlers[eventType])+len(b.handlers["*"]))
	matched = append(matched, b.handlers[eventType]...)
	matched = append(matched, b.handlers["*"]...)
	return matched
}

// dispatch isolates handler panics so one bad subscriber cannot take the
// ingress pipeline down
func (b *Bus) dispatch(ctx context.Context, handler Handler, tenantID uuid.UUID, event *standard.StandardWebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, tenantID, event)
}
