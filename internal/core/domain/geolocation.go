package domain

import (
	"fmt"
	"time"
)

// LocateRequest configures one geolocation attempt.
type LocateRequest struct {
	HighAccuracy bool          `json:"highAccuracy"`
	Timeout      time.Duration `json:"timeout"`
	MaxAge       time.Duration `json:"maxAge"`
}

// Position is a geolocation fix.
type Position struct {
	Coordinates    Coordinates `json:"coordinates"`
	AccuracyMeters float64     `json:"accuracyMeters"`
}

// LocateErrorKind classifies geolocation failures.
type LocateErrorKind string

// Geolocation failure kinds.
const (
	LocatePermissionDenied    LocateErrorKind = "permission_denied"
	LocatePositionUnavailable LocateErrorKind = "position_unavailable"
	LocateTimeout             LocateErrorKind = "timeout"
	LocateUnsupported         LocateErrorKind = "unsupported"
)

// Message returns the user-facing text for the kind. Each kind has its
// own actionable message.
func (k LocateErrorKind) Message() string {
	switch k {
	case LocatePermissionDenied:
		return "Location access was denied. Allow location access and try again."
	case LocatePositionUnavailable:
		return "Your location could not be determined. Check your connection or location source."
	case LocateTimeout:
		return "Locating took too long. Try again in a moment."
	default:
		return "Location is not available on this device."
	}
}

// LocateError is the typed error returned by geolocators and the locator.
type LocateError struct {
	Kind LocateErrorKind
	Err  error
}

// NewLocateError returns a LocateError of the given kind.
func NewLocateError(kind LocateErrorKind, err error) *LocateError {
	return &LocateError{Kind: kind, Err: err}
}

func (e *LocateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("locate %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("locate %s", e.Kind)
}

func (e *LocateError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text.
func (e *LocateError) Message() string {
	return e.Kind.Message()
}
