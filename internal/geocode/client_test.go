package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesmap_backend/platform/logger"
)

type testGeocoderConfig struct {
	baseURL     string
	timeout     time.Duration
	minInterval time.Duration
}

func (c testGeocoderConfig) GetGeocoderBaseURL() string  { return c.baseURL }
func (c testGeocoderConfig) GetGeocoderClientID() string { return "SalesMapBackendTest/1.0" }
func (c testGeocoderConfig) GetGeocoderContact() string  { return "ops@example.com" }
func (c testGeocoderConfig) GetGeocoderTimeout() time.Duration {
	if c.timeout == 0 {
		return 2 * time.Second
	}
	return c.timeout
}
func (c testGeocoderConfig) GetGeocoderMinInterval() time.Duration {
	if c.minInterval == 0 {
		return time.Millisecond
	}
	return c.minInterval
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*NominatimClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewNominatimClient(testGeocoderConfig{baseURL: server.URL}, logger.New("development"))
	return client, server
}

func TestGeocodeSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "1 Park Ave, New York, 10001, USA" {
			t.Errorf("unexpected query: %q", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != "SalesMapBackendTest/1.0 (ops@example.com)" {
			t.Errorf("unexpected user agent: %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"New York","lat":"40.7","lon":"-73.9"}]`))
	})

	coords, err := client.Geocode(context.Background(), "1 Park Ave, New York, 10001, USA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords.Latitude != 40.7 || coords.Longitude != -73.9 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Geocode(context.Background(), "Nowhere, Atlantis")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not_found, got %s", ClassifyError(err).Reason())
	}
}

func TestGeocodeTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	client.client.Timeout = 50 * time.Millisecond

	_, err := client.Geocode(context.Background(), "Slowtown")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := ClassifyError(err); got != FailureTimeout {
		t.Fatalf("expected timeout, got %s", got.Reason())
	}
}

func TestGeocodeServiceError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Geocode(context.Background(), "Busytown")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := ClassifyError(err); got != FailureService {
		t.Fatalf("expected service_error, got %s", got.Reason())
	}
}

func TestGeocodeMalformedPayloadIsUnexpected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := client.Geocode(context.Background(), "Oddville")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got := ClassifyError(err); got != FailureUnexpected {
		t.Fatalf("expected unexpected, got %s", got.Reason())
	}
}

func TestGeocodeSerializesRequests(t *testing.T) {
	var calls []time.Time
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, time.Now())
		_, _ = w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	})
	client.limiter.SetLimit(10) // 100ms interval keeps the test fast

	for i := 0; i < 3; i++ {
		if _, err := client.Geocode(context.Background(), "Samestreet 1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i := 1; i < len(calls); i++ {
		if gap := calls[i].Sub(calls[i-1]); gap < 80*time.Millisecond {
			t.Fatalf("requests %d and %d only %v apart", i-1, i, gap)
		}
	}
}
