// Package salesmap provides the sales map bounded context module.
package salesmap

import (
	"salesmap_backend/internal/events"
	"salesmap_backend/internal/geocode"
	apphttp "salesmap_backend/internal/http"
	ordersrepo "salesmap_backend/internal/orders/repository"
	"salesmap_backend/internal/salesmap/handler"
	"salesmap_backend/internal/salesmap/repository"
	"salesmap_backend/internal/salesmap/service"
	"salesmap_backend/platform/config"
	"salesmap_backend/platform/httpkit"
	"salesmap_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PermissionViewOrders is the permission required to view an event's map.
const PermissionViewOrders = "can_view_orders"

// Module is the sales map bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the sales map module.
func NewModule(pool *pgxpool.Pool, geocoder geocode.Geocoder, bus events.Bus, cfg *config.Config, log *logger.Logger) *Module {
	orders := ordersrepo.New(pool)
	store := repository.New(pool)
	svc := service.New(orders, store, geocoder, bus, log)
	h := handler.New(svc, cfg, log)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "salesmap"
}

// Service returns the service layer for the worker and backfill entrypoints.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sales map routes on the provided router context.
// Both routes require the view-orders permission on top of authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/events/:eventID/sales-map", httpkit.RequirePermission(PermissionViewOrders))
	group.GET("/", m.handler.GetMapPage)
	group.GET("/data", m.handler.GetMapData)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
