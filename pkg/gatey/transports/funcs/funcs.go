// Package funcs provides a transport that hands each event to a user
// function. The idiomatic way to plug custom delivery logic in without
// implementing a full transport.
package funcs

import (
	"context"
	"fmt"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// funcTransport calls a user function for each event.
type funcTransport struct {
	fn func(ctx context.Context, event gatey.Event) error
}

// NewFuncTransport creates a transport backed by fn. Errors returned
// by fn are wrapped as non-retryable delivery errors; a panicking fn is
// contained the same way.
func NewFuncTransport(fn func(ctx context.Context, event gatey.Event) error) gatey.Transport {
	return &funcTransport{fn: fn}
}

// SendEvent passes the event to the user function.
func (t *funcTransport) SendEvent(ctx context.Context, event gatey.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &gatey.DeliveryError{Cause: fmt.Errorf("func transport panicked: %v", recovered)}
		}
	}()
	if fnErr := t.fn(ctx, event); fnErr != nil {
		return &gatey.DeliveryError{Cause: fnErr}
	}
	return nil
}

// Close is a no-op for the func transport.
func (t *funcTransport) Close() error {
	return nil
}
