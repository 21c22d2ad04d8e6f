package webhook

import (
	"net/http"

	"salesmap_backend/internal/events"
	"salesmap_backend/platform/httpkit"
	"salesmap_backend/platform/logger"
	"salesmap_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderPaidPayload is the delivery body the host platform sends when an
// order transitions to paid.
type OrderPaidPayload struct {
	OrderID   string `json:"orderId" validate:"required,uuid"`
	OrderCode string `json:"orderCode" validate:"required"`
	EventID   string `json:"eventId" validate:"required,uuid"`
}

// Handler handles incoming webhook deliveries from the host platform.
type Handler struct {
	bus events.Bus
	val *validator.Validator
	log *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(bus events.Bus, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{bus: bus, val: val, log: log}
}

// HandleOrderPaid handles POST /api/v1/webhook/order-paid.
// It acknowledges the delivery as soon as the event is on the bus; the
// geocoding work itself happens in the background.
func (h *Handler) HandleOrderPaid(c *gin.Context) {
	var payload OrderPaidPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(payload); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid order ID", nil)
		return
	}
	eventID, err := uuid.Parse(payload.EventID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid event ID", nil)
		return
	}

	h.log.Info("order paid webhook received", "order_id", orderID, "order_code", payload.OrderCode)

	h.bus.Publish(c.Request.Context(), events.OrderPaid{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   orderID,
		OrderCode: payload.OrderCode,
		EventID:   eventID,
	})

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
