package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/standard"
)

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu     sync.Mutex
	events []*standard.StandardWebhookEvent
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, _ uuid.UUID, event *standard.StandardWebhookEvent) error {
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	if h.panic {
		panic("handler exploded")
	}
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testEvent(eventType string) *standard.StandardWebhookEvent {
	return &standard.StandardWebhookEvent{
		Platform:  standard.PlatformFaire,
		EventType: eventType,
		EventID:   uuid.NewString(),
	}
}

func TestBus_RoutesByEventType(t *testing.T) {
	bus := NewBus(zap.NewNop())

	orders := &recordingHandler{types: []string{"order.created"}}
	inventory := &recordingHandler{types: []string{"inventory.updated"}}
	bus.Subscribe(orders)
	bus.Subscribe(inventory)

	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("order.created")))

	assert.Equal(t, 1, orders.count())
	assert.Zero(t, inventory.count())
}

func TestBus_WildcardReceivesEverything(t *testing.T) {
	bus := NewBus(zap.NewNop())

	all := &recordingHandler{types: []string{"*"}}
	bus.Subscribe(all)

	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("order.created")))
	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("inventory.updated")))

	assert.Equal(t, 2, all.count())
}

func TestBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewBus(zap.NewNop())

	h := &recordingHandler{types: []string{"*"}}
	bus.Subscribe(h, "order.cancelled")

	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("order.created")))
	assert.Zero(t, h.count())

	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("order.cancelled")))
	assert.Equal(t, 1, h.count())
}

func TestBus_HandlerErrorDoesNotBlockOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	failing := &recordingHandler{types: []string{"order.created"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"order.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Handle(context.Background(), uuid.New(), testEvent("order.created")))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestBus_PanicIsolated(t *testing.T) {
	bus := NewBus(zap.NewNop())

	panicking := &recordingHandler{types: []string{"order.created"}, panic: true}
	healthy := &recordingHandler{types: []string{"order.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Handle(context.Background(), uuid.New(), testEvent("order.created"))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestBus_StartStop(t *testing.T) {
	bus := NewBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}
