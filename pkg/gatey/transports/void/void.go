// Package void provides a transport that discards all events.
// Useful for tests and for disabling event delivery entirely.
package void

import (
	"context"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// voidTransport discards all events.
type voidTransport struct{}

// NewVoidTransport creates a transport that discards all events.
// All methods return nil and perform no operations.
func NewVoidTransport() gatey.Transport {
	return &voidTransport{}
}

// SendEvent discards the event and returns nil.
func (t *voidTransport) SendEvent(ctx context.Context, event gatey.Event) error {
	return nil
}

// Close is a no-op and returns nil.
func (t *voidTransport) Close() error {
	return nil
}
