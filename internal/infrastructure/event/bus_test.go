package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodshop/backend/internal/domain/operations"
	"github.com/foodshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingHandler captures the events it receives
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newDayOpenedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	record, err := operations.NewDailyRecord(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return operations.NewDayOpenedEvent(record)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to a typed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{operations.EventTypeDayOpened}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t)))
		require.Len(t, handler.received, 1)
		assert.Equal(t, operations.EventTypeDayOpened, handler.received[0].EventType())
	})

	t.Run("skips handlers of other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{operations.EventTypeDayClosed}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t)))
		assert.Empty(t, handler.received)
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t), newDayOpenedEvent(t)))
		assert.Len(t, handler.received, 2)
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{operations.EventTypeDayOpened}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{operations.EventTypeDayOpened}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t)))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{operations.EventTypeDayOpened}, panics: true}
		healthy := &recordingHandler{types: []string{operations.EventTypeDayOpened}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t)))
		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{operations.EventTypeDayOpened}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(ctx, newDayOpenedEvent(t)))
	assert.Empty(t, handler.received)
}
