// Package geocode turns postal addresses into coordinates via the Nominatim
// HTTP API. It owns the address formatting rules and the failure taxonomy;
// persistence and scheduling live elsewhere.
package geocode

import (
	"context"
	"errors"
	"fmt"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is the structured invoice address attached to an order. All fields
// are optional; Format decides whether enough of them are present to attempt
// a lookup.
type Address struct {
	Street   string
	City     string
	Postcode string
	Region   string
	Country  string
}

// Geocoder resolves a formatted address string to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Failure classifies why a lookup produced no coordinates.
type Failure int

const (
	// FailureUnexpected covers everything the other classes do not.
	FailureUnexpected Failure = iota
	// FailureNotFound means the service responded but had no match.
	FailureNotFound
	// FailureTimeout means the service did not respond within the deadline.
	FailureTimeout
	// FailureService means the service was reachable but returned an error.
	FailureService
)

// Reason returns the failure class as a short machine-readable string.
func (f Failure) Reason() string {
	switch f {
	case FailureNotFound:
		return "not_found"
	case FailureTimeout:
		return "timeout"
	case FailureService:
		return "service_error"
	default:
		return "unexpected"
	}
}

// Error is a classified geocoding failure.
type Error struct {
	Failure Failure
	Address string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocode %q: %s: %v", e.Address, e.Failure.Reason(), e.Err)
	}
	return fmt.Sprintf("geocode %q: %s", e.Address, e.Failure.Reason())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyError extracts the failure class from an error returned by a
// Geocoder. Unclassified errors count as unexpected.
func ClassifyError(err error) Failure {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Failure
	}
	return FailureUnexpected
}

// IsNotFound reports whether the error is a lookup miss rather than a fault.
func IsNotFound(err error) bool {
	return ClassifyError(err) == FailureNotFound
}
