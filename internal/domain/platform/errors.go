package platform

import (
	"errors"
	"fmt"

	"github.com/commercehub/backend/internal/domain/standard"
)

var (
	// ErrNotConfigured indicates no credentials exist for the tenant
	ErrNotConfigured = errors.New("platform: adapter not configured for tenant")
	// ErrNotRegistered indicates no adapter is registered for the platform
	ErrNotRegistered = errors.New("platform: adapter not registered")
	// ErrNotFound indicates the requested entity does not exist on the platform
	ErrNotFound = errors.New("platform: entity not found")
	// ErrNotSupported indicates the platform has no endpoint for the operation
	ErrNotSupported = errors.New("platform: operation not supported")
	// ErrInvalidSignature indicates webhook signature verification failed
	ErrInvalidSignature = errors.New("platform: invalid webhook signature")
	// ErrInvalidResponse indicates the platform returned an unparseable body
	ErrInvalidResponse = errors.New("platform: invalid platform response")
)

// APIError indicates the platform rejected a request with a non-2xx response.
// Retryable only for 429 and 5xx statuses.
type APIError struct {
	// Platform identifies the rejecting platform
	Platform standard.Platform
	// Status is the HTTP status code
	Status int
	// PlatformMessage is the error message reported by the platform
	PlatformMessage string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("platform %s: api error %d: %s", e.Platform, e.Status, e.PlatformMessage)
}

// Retryable returns true for rate-limit and server-side failures
func (e *APIError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// NetworkError indicates a transport-level failure before any platform
// response was received. Generally retryable.
type NetworkError struct {
	Platform standard.Platform
	Err      error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("platform %s: network error: %v", e.Platform, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a failed adapter call may be retried
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
