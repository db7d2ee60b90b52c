// transport.go defines the Transport interface for event destinations.

package gatey

import "context"

// Transport is the destination for captured events.
// Implementations must be safe for concurrent use.
type Transport interface {
	// SendEvent delivers a single event. Called by the delivery queue
	// (or synchronously in immediate mode) after the event is fully
	// built. A returned *DeliveryError with Retryable set signals the
	// queue to retry with backoff.
	SendEvent(ctx context.Context, event Event) error

	// Close releases resources held by the transport. After Close,
	// SendEvent may return errors.
	Close() error
}
