package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New())}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  interface{}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	invoices := &testHandler{eventTypes: []string{"MutationCommitted"}}
	other := &testHandler{eventTypes: []string{"Other"}}
	all := &testHandler{}

	bus.Subscribe(invoices)
	bus.Subscribe(other)
	bus.Subscribe(all, []string{}...)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("MutationCommitted")))

	assert.Equal(t, 1, invoices.count())
	assert.Equal(t, 0, other.count())
	assert.Equal(t, 1, all.count())
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := &testHandler{eventTypes: []string{"E"}, err: errors.New("cache down")}
	panicking := &testHandler{eventTypes: []string{"E"}, panicWith: "boom"}
	healthy := &testHandler{eventTypes: []string{"E"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("E"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, 2, recorded.FilterMessage("Event handler failed").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &testHandler{eventTypes: []string{"E"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))
	assert.Zero(t, h.count())
	assert.Zero(t, bus.registry.Len())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.Running())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}
