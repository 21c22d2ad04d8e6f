package scheduler

import (
	"context"

	"salesmap_backend/internal/events"
	"salesmap_backend/platform/logger"
)

// Enqueuer bridges the event bus and the task queue: every OrderPaid event
// becomes a geocode task. Enqueue failures are logged and swallowed so a
// Redis outage never turns into a failed webhook delivery.
type Enqueuer struct {
	client GeocodeEnqueuer
	log    *logger.Logger
}

// NewEnqueuer creates the enqueuer.
func NewEnqueuer(client GeocodeEnqueuer, log *logger.Logger) *Enqueuer {
	return &Enqueuer{client: client, log: log}
}

// RegisterHandlers subscribes the enqueuer to the events it reacts to.
func (e *Enqueuer) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrderPaid{}.EventName(), e)
}

// Handle routes events to the appropriate handler method.
func (e *Enqueuer) Handle(ctx context.Context, event events.Event) error {
	switch typed := event.(type) {
	case events.OrderPaid:
		return e.handleOrderPaid(ctx, typed)
	default:
		return nil
	}
}

func (e *Enqueuer) handleOrderPaid(ctx context.Context, event events.OrderPaid) error {
	payload := OrderGeocodePayload{OrderID: event.OrderID.String()}
	if err := e.client.EnqueueGeocodeOrder(ctx, payload); err != nil {
		e.log.Error("failed to enqueue geocode task",
			"order_id", event.OrderID,
			"order_code", event.OrderCode,
			"error", err,
		)
		return nil
	}

	e.log.Debug("geocode task enqueued", "order_id", event.OrderID, "order_code", event.OrderCode)
	return nil
}

// Compile-time check that Enqueuer implements events.Handler
var _ events.Handler = (*Enqueuer)(nil)
