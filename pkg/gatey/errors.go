// errors.go defines the SDK error taxonomy. None of these escape into
// host application control flow from capture paths; they surface only
// from construction and from explicit transport calls.

package gatey

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates the client cannot send events because no
// valid credential (or project ID) is configured.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gatey: improperly configured: %s", e.Reason)
}

// APIError is an error returned by the Gatey API itself, parsed from the
// `error` object of a response body. API errors are never retried.
type APIError struct {
	// Code is the Gatey API error code.
	Code int

	// Message is the API error message.
	Message string

	// Status is the HTTP-like status the API reports in the error body.
	Status int

	// Detail carries additional exception information for validation
	// errors (API error code 3), empty otherwise.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gatey: API error %d: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("gatey: API error %d: %s", e.Code, e.Message)
}

// DeliveryError indicates a transport-level failure: the event could not
// be handed to the remote collection service. Retryable delivery errors
// (server faults, network failures, timeouts) are retried by the queue
// with backoff; non-retryable ones are dropped immediately.
type DeliveryError struct {
	// StatusCode is the HTTP status of the failed request, 0 for
	// network-level failures.
	StatusCode int

	// Retryable reports whether another attempt may succeed.
	Retryable bool

	// Cause is the underlying error, if any.
	Cause error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gatey: delivery failed with HTTP %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("gatey: delivery failed: %v", e.Cause)
	}
	return "gatey: delivery failed"
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// IsRetryable reports whether err represents a transient delivery
// failure worth another attempt.
func IsRetryable(err error) bool {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}
