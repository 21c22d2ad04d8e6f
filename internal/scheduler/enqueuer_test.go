package scheduler

import (
	"context"
	"errors"
	"testing"

	"salesmap_backend/internal/events"
	"salesmap_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeEnqueueClient struct {
	payloads []OrderGeocodePayload
	err      error
}

func (f *fakeEnqueueClient) EnqueueGeocodeOrder(_ context.Context, payload OrderGeocodePayload) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestEnqueuerHandlesOrderPaid(t *testing.T) {
	client := &fakeEnqueueClient{}
	enqueuer := NewEnqueuer(client, logger.New("development"))

	bus := events.NewInMemoryBus(logger.New("development"))
	enqueuer.RegisterHandlers(bus)

	orderID := uuid.New()
	err := bus.PublishSync(context.Background(), events.OrderPaid{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   orderID,
		OrderCode: "O1",
		EventID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.payloads) != 1 {
		t.Fatalf("expected 1 enqueued task, got %d", len(client.payloads))
	}
	if client.payloads[0].OrderID != orderID.String() {
		t.Errorf("unexpected payload: %+v", client.payloads[0])
	}
}

func TestEnqueuerSwallowsEnqueueFailure(t *testing.T) {
	client := &fakeEnqueueClient{err: errors.New("redis down")}
	enqueuer := NewEnqueuer(client, logger.New("development"))

	err := enqueuer.Handle(context.Background(), events.OrderPaid{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   uuid.New(),
		OrderCode: "O2",
		EventID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("enqueue failures must not propagate, got %v", err)
	}
}

func TestEnqueuerIgnoresOtherEvents(t *testing.T) {
	client := &fakeEnqueueClient{}
	enqueuer := NewEnqueuer(client, logger.New("development"))

	err := enqueuer.Handle(context.Background(), events.OrderGeocoded{BaseEvent: events.NewBaseEvent()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.payloads) != 0 {
		t.Errorf("no task should be enqueued")
	}
}
