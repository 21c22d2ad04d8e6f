package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salesmap_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
			order = append(order, i)
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestPublishSyncCollectsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	wantErr := errors.New("handler failed")
	ran := false
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		ran = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if !ran {
		t.Errorf("a failing handler must not stop the others")
	}
}

func TestPublishIsAsynchronousAndRecovers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var wg sync.WaitGroup
	wg.Add(2)

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		defer wg.Done()
		panic("boom")
	}))

	handled := false
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		defer wg.Done()
		handled = true
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.event"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run")
	}
	if !handled {
		t.Errorf("a panicking handler must not stop the others")
	}
}

func TestPublishIgnoresUnknownEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
