package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesmap_backend/internal/salesmap/transport"
	"salesmap_backend/platform/httpkit"
	"salesmap_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeProvider struct {
	locations []transport.Location
	err       error
}

func (f *fakeProvider) MapData(_ context.Context, _ uuid.UUID) ([]transport.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.locations, nil
}

type fakeTileConfig struct{ url string }

func (c fakeTileConfig) GetTileServerURL() string { return c.url }

func newTestRouter(provider *fakeProvider, permissions ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := New(provider, fakeTileConfig{url: "https://tile.example.com"}, logger.New("development"))

	group := router.Group("/api/v1/events/:eventID/sales-map")
	group.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextPermissionsKey, permissions)
	})
	group.Use(httpkit.RequirePermission("can_view_orders"))
	group.GET("/", h.GetMapPage)
	group.GET("/data", h.GetMapData)

	return router
}

func TestGetMapData(t *testing.T) {
	provider := &fakeProvider{locations: []transport.Location{
		{Lat: 40.7, Lon: -73.9, Tooltip: "Order: O1"},
	}}
	router := newTestRouter(provider, "can_view_orders")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.New().String()+"/sales-map/data", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body transport.MapDataResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(body.Locations))
	}
	loc := body.Locations[0]
	if loc.Lat != 40.7 || loc.Lon != -73.9 || loc.Tooltip != "Order: O1" {
		t.Errorf("unexpected location: %+v", loc)
	}
}

func TestGetMapDataEmpty(t *testing.T) {
	router := newTestRouter(&fakeProvider{locations: []transport.Location{}}, "can_view_orders")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.New().String()+"/sales-map/data", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"locations":[]}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestGetMapDataInvalidEventID(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, "can_view_orders")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/not-a-uuid/sales-map/data", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetMapDataServiceError(t *testing.T) {
	router := newTestRouter(&fakeProvider{err: errors.New("boom")}, "can_view_orders")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.New().String()+"/sales-map/data", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("error response missing error field: %v", body)
	}
}

func TestGetMapDataWithoutPermission(t *testing.T) {
	router := newTestRouter(&fakeProvider{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.New().String()+"/sales-map/data", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGetMapPage(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, "can_view_orders")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+uuid.New().String()+"/sales-map/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type: %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "https://tile.example.com/{z}/{x}/{y}.png") {
		t.Errorf("page does not reference the tile server:\n%s", rec.Body.String())
	}

	policy := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(policy, "img-src https://tile.example.com") {
		t.Errorf("CSP missing tile server img-src: %q", policy)
	}
	if !strings.Contains(policy, "style-src 'unsafe-inline'") {
		t.Errorf("CSP missing style-src: %q", policy)
	}
}

func TestGetMapPageMergesExistingCSP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := New(&fakeProvider{}, fakeTileConfig{url: "https://tile.example.com"}, logger.New("development"))
	router.GET("/events/:eventID/sales-map/", func(c *gin.Context) {
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self'")
		h.GetMapPage(c)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/"+uuid.New().String()+"/sales-map/", nil)
	router.ServeHTTP(rec, req)

	policy := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(policy, "default-src 'self'") {
		t.Errorf("existing directive dropped: %q", policy)
	}
	if !strings.Contains(policy, "img-src 'self' https://tile.example.com") {
		t.Errorf("tile server not merged into img-src: %q", policy)
	}
}

func TestTileOrigin(t *testing.T) {
	cases := map[string]string{
		"https://tile.openstreetmap.org":     "https://tile.openstreetmap.org",
		"https://tile.example.com/base/path": "https://tile.example.com",
		"http://tiles.internal:8080/osm":     "http://tiles.internal:8080",
		"not a url":                          "not a url",
	}
	for input, want := range cases {
		if got := tileOrigin(input); got != want {
			t.Errorf("tileOrigin(%q) = %q, want %q", input, got, want)
		}
	}
}
