// Package service implements the sales map use cases: the background geocode
// task body and the map data read.
package service

import (
	"context"
	"fmt"

	"salesmap_backend/internal/events"
	"salesmap_backend/internal/geocode"
	ordersrepo "salesmap_backend/internal/orders/repository"
	"salesmap_backend/internal/salesmap/repository"
	"salesmap_backend/internal/salesmap/transport"
	"salesmap_backend/platform/apperr"
	"salesmap_backend/platform/logger"

	"github.com/google/uuid"
)

// OrderReader loads host orders by identifier.
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ordersrepo.Order, error)
}

// GeocodeStore persists and reads geocode records.
type GeocodeStore interface {
	Upsert(ctx context.Context, orderID uuid.UUID, coords *geocode.Coordinates) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]repository.MapPoint, error)
}

// Service coordinates geocoding and map data reads.
type Service struct {
	orders   OrderReader
	store    GeocodeStore
	geocoder geocode.Geocoder
	bus      events.Bus
	log      *logger.Logger
}

// New creates the sales map service.
func New(orders OrderReader, store GeocodeStore, geocoder geocode.Geocoder, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		orders:   orders,
		store:    store,
		geocoder: geocoder,
		bus:      bus,
		log:      log,
	}
}

// GeocodeOrder is the background task body: load the order, format its
// invoice address, resolve coordinates and record the outcome. An order
// without an address exits without writing a record. A lookup that fails for
// any reason upserts a null-coordinate record so the failure stays visible in
// the store; the error itself is not propagated, because a geocode failure is
// terminal until something external re-triggers the task.
func (s *Service) GeocodeOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.InvoiceAddress == nil {
		s.log.Info("order has no invoice address, skipping geocode", "order_id", order.ID, "order_code", order.Code)
		return nil
	}

	address, ok := geocode.Format(*order.InvoiceAddress)
	if !ok {
		s.log.Info("invoice address is empty, skipping geocode", "order_id", order.ID, "order_code", order.Code)
		return nil
	}

	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.GeocodeResult(order.ID.String(), address, err, geocode.IsNotFound(err))

		if upsertErr := s.store.Upsert(ctx, order.ID, nil); upsertErr != nil {
			s.log.DatabaseError("upsert geocode failure record", upsertErr)
			return apperr.Wrap(apperr.KindInternal, "failed to record geocode outcome", upsertErr)
		}

		s.publish(ctx, events.OrderGeocodeFailed{
			BaseEvent: events.NewBaseEvent(),
			OrderID:   order.ID,
			OrderCode: order.Code,
			Reason:    geocode.ClassifyError(err).Reason(),
		})
		return nil
	}

	if err := s.store.Upsert(ctx, order.ID, &coords); err != nil {
		s.log.DatabaseError("upsert geocode record", err)
		return apperr.Wrap(apperr.KindInternal, "failed to record geocode outcome", err)
	}

	s.log.Info("order geocoded",
		"order_id", order.ID,
		"order_code", order.Code,
		"lat", coords.Latitude,
		"lon", coords.Longitude,
	)

	s.publish(ctx, events.OrderGeocoded{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   order.ID,
		OrderCode: order.Code,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})

	return nil
}

// MapData returns all resolved locations for an event's orders. Records with
// null coordinates never appear; the store filters them out.
func (s *Service) MapData(ctx context.Context, eventID uuid.UUID) ([]transport.Location, error) {
	points, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		s.log.DatabaseError("list geocode records", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not retrieve coordinate data", err)
	}

	locations := make([]transport.Location, 0, len(points))
	for _, point := range points {
		locations = append(locations, transport.Location{
			Lat:     point.Latitude,
			Lon:     point.Longitude,
			Tooltip: fmt.Sprintf("Order: %s", point.OrderCode),
		})
	}

	return locations, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
