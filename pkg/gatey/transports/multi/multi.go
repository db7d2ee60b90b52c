// Package multi provides a transport that fans out to multiple
// transports. All transports receive all events; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// multiTransport fans out to multiple transports.
type multiTransport struct {
	transports []gatey.Transport
}

// NewMultiTransport creates a transport that sends to every given
// transport. Errors are aggregated via errors.Join.
func NewMultiTransport(transports ...gatey.Transport) gatey.Transport {
	return &multiTransport{
		transports: transports,
	}
}

// SendEvent sends the event to all transports, collecting any errors.
// All transports are called even if some return errors.
func (t *multiTransport) SendEvent(ctx context.Context, event gatey.Event) error {
	var errs []error
	for _, transport := range t.transports {
		if err := transport.SendEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on all transports, collecting any errors.
func (t *multiTransport) Close() error {
	var errs []error
	for _, transport := range t.transports {
		if err := transport.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
