// Package webhook provides the inbound webhook bounded context module. It
// receives order lifecycle deliveries from the host ticketing platform and
// turns them into domain events.
package webhook

import (
	"salesmap_backend/internal/events"
	apphttp "salesmap_backend/internal/http"
	"salesmap_backend/platform/config"
	"salesmap_backend/platform/logger"
	"salesmap_backend/platform/validator"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	cfg     config.WebhookConfig
}

// NewModule creates and initializes the webhook module.
func NewModule(bus events.Bus, cfg config.WebhookConfig, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(bus, val, log),
		cfg:     cfg,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
// Deliveries authenticate with a shared secret, not JWT.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook")
	group.Use(SecretAuthMiddleware(m.cfg))
	group.POST("/order-paid", m.handler.HandleOrderPaid)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
