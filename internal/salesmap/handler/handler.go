// Package handler provides HTTP handlers for the sales map endpoints.
package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"salesmap_backend/internal/salesmap/transport"
	"salesmap_backend/platform/config"
	"salesmap_backend/platform/csp"
	"salesmap_backend/platform/httpkit"
	"salesmap_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/map_page.html
var templateFS embed.FS

var mapPage = template.Must(template.ParseFS(templateFS, "templates/map_page.html"))

// MapDataProvider supplies the resolved locations for an event.
type MapDataProvider interface {
	MapData(ctx context.Context, eventID uuid.UUID) ([]transport.Location, error)
}

// Handler handles HTTP requests for the sales map.
type Handler struct {
	service MapDataProvider
	cfg     config.TileConfig
	log     *logger.Logger
}

// New creates a new sales map handler.
func New(service MapDataProvider, cfg config.TileConfig, log *logger.Logger) *Handler {
	return &Handler{service: service, cfg: cfg, log: log}
}

// GetMapData handles GET /api/v1/events/:eventID/sales-map/data.
// It returns the plotted locations for the event; orders whose geocode
// attempt produced no coordinates are not included.
func (h *Handler) GetMapData(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid event ID", nil)
		return
	}

	locations, err := h.service.MapData(c.Request.Context(), eventID)
	if httpkit.HandleError(c, err) {
		return
	}

	viewer := httpkit.GetIdentity(c)
	h.log.Debug("map data served",
		"event_id", eventID,
		"user_id", viewer.UserID(),
		"locations", len(locations),
	)

	httpkit.OK(c, transport.MapDataResponse{Locations: locations})
}

// GetMapPage handles GET /api/v1/events/:eventID/sales-map/.
// It serves the map page and widens the response CSP so the browser may load
// tile images from the configured tile server and apply the page's inline
// styles.
func (h *Handler) GetMapPage(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("eventID")); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid event ID", nil)
		return
	}

	var buf bytes.Buffer
	if err := mapPage.Execute(&buf, map[string]string{"TileURL": h.cfg.GetTileServerURL()}); err != nil {
		h.log.Error("failed to render map page", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	h.patchCSP(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// patchCSP merges the map page's CSP requirements into whatever policy the
// response already carries, so an upstream proxy's restrictions stay intact.
func (h *Handler) patchCSP(c *gin.Context) {
	const headerName = "Content-Security-Policy"

	policy := csp.NewPolicy()
	if existing := c.Writer.Header().Get(headerName); existing != "" {
		policy = csp.Parse(existing)
	}
	policy.Add("img-src", tileOrigin(h.cfg.GetTileServerURL()))
	policy.Add("style-src", "'unsafe-inline'")

	c.Header(headerName, policy.Render())
}

// tileOrigin reduces the tile server URL to its origin for use as a CSP
// source. An unparsable URL is passed through untouched.
func tileOrigin(tileURL string) string {
	parsed, err := url.Parse(tileURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return tileURL
	}
	return parsed.Scheme + "://" + parsed.Host
}
