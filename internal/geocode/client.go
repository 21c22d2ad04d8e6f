package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"salesmap_backend/platform/config"
	"salesmap_backend/platform/logger"

	"golang.org/x/time/rate"
)

// NominatimClient resolves addresses against a Nominatim endpoint. All calls
// in the process share one rate limiter so concurrent workers never exceed
// the service's one-request-per-interval policy; batch callers are serialized
// by the limiter instead of sleeping.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *logger.Logger
}

// NewNominatimClient creates a client from the geocoder configuration. The
// User-Agent identifies this deployment per the Nominatim usage policy.
func NewNominatimClient(cfg config.GeocoderConfig, log *logger.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:   cfg.GetGeocoderBaseURL(),
		userAgent: fmt.Sprintf("%s (%s)", cfg.GetGeocoderClientID(), cfg.GetGeocoderContact()),
		client:    &http.Client{Timeout: cfg.GetGeocoderTimeout()},
		limiter:   rate.NewLimiter(rate.Every(cfg.GetGeocoderMinInterval()), 1),
		log:       log,
	}
}

// nominatimResult mirrors the relevant parts of the search payload.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode resolves a formatted address to coordinates. Failures come back as
// *Error with the failure class set; the caller treats every class as "no
// coordinates" and does not retry.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (Coordinates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, c.fail(FailureUnexpected, address, err)
	}

	params := url.Values{}
	params.Add("q", address)
	params.Add("format", "json")
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinates{}, c.fail(FailureUnexpected, address, err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Coordinates{}, c.fail(FailureTimeout, address, err)
		}
		return Coordinates{}, c.fail(FailureService, address, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, c.fail(FailureService, address,
			fmt.Errorf("upstream api error: %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, c.fail(FailureUnexpected, address, err)
	}

	if len(results) == 0 {
		return Coordinates{}, c.fail(FailureNotFound, address, nil)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, c.fail(FailureUnexpected, address, fmt.Errorf("invalid latitude %q", results[0].Lat))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, c.fail(FailureUnexpected, address, fmt.Errorf("invalid longitude %q", results[0].Lon))
	}

	coords := Coordinates{Latitude: lat, Longitude: lon}
	c.log.Debug("address geocoded", "address", address, "lat", lat, "lon", lon)
	return coords, nil
}

// fail wraps and logs a failure. Lookup misses are routine and log at warn;
// everything else logs at error.
func (c *NominatimClient) fail(failure Failure, address string, err error) *Error {
	ge := &Error{Failure: failure, Address: address, Err: err}
	if failure == FailureNotFound {
		c.log.Warn("address not found", "address", address)
	} else {
		c.log.Error("geocode request failed", "address", address, "reason", failure.Reason(), "error", ge.Error())
	}
	return ge
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

var _ Geocoder = (*NominatimClient)(nil)
