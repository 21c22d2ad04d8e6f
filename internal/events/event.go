// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"salesmap_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderPaid is published when the host ticketing platform reports that an
// order transitioned to paid. It is the trigger for geocoding work.
type OrderPaid struct {
	BaseEvent
	OrderID   uuid.UUID `json:"orderId"`
	OrderCode string    `json:"orderCode"`
	EventID   uuid.UUID `json:"eventId"`
}

func (e OrderPaid) EventName() string { return "orders.order.paid" }

// =============================================================================
// Geocoding Domain Events
// =============================================================================

// OrderGeocoded is published when a geocode task resolved coordinates for
// an order's invoice address.
type OrderGeocoded struct {
	BaseEvent
	OrderID   uuid.UUID `json:"orderId"`
	OrderCode string    `json:"orderCode"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

func (e OrderGeocoded) EventName() string { return "salesmap.order.geocoded" }

// OrderGeocodeFailed is published when a geocode task could not resolve an
// order's invoice address. Reason is one of "not_found", "timeout",
// "service_error" or "unexpected".
type OrderGeocodeFailed struct {
	BaseEvent
	OrderID   uuid.UUID `json:"orderId"`
	OrderCode string    `json:"orderCode"`
	Reason    string    `json:"reason"`
}

func (e OrderGeocodeFailed) EventName() string { return "salesmap.order.geocode_failed" }
