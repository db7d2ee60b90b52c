// Package printer provides a transport that pretty-prints events as
// JSON instead of sending them anywhere. Useful for development and
// debugging.
package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// PrinterOption configures the printer transport.
type PrinterOption func(*printerConfig)

type printerConfig struct {
	out          io.Writer
	indent       string
	prepareEvent func(gatey.Event) gatey.Event
}

// WithWriter redirects output away from stdout.
func WithWriter(w io.Writer) PrinterOption {
	return func(c *printerConfig) { c.out = w }
}

// WithIndent sets the JSON indentation (default two spaces).
func WithIndent(indent string) PrinterOption {
	return func(c *printerConfig) { c.indent = indent }
}

// WithPrepareEvent sets a hook applied to each event before printing,
// e.g. to strip noisy fields.
func WithPrepareEvent(fn func(gatey.Event) gatey.Event) PrinterOption {
	return func(c *printerConfig) { c.prepareEvent = fn }
}

// printerTransport writes events as indented JSON.
type printerTransport struct {
	out          io.Writer
	indent       string
	prepareEvent func(gatey.Event) gatey.Event
}

// NewPrinterTransport creates a transport that prints events.
func NewPrinterTransport(opts ...PrinterOption) gatey.Transport {
	cfg := printerConfig{
		out:    os.Stdout,
		indent: "  ",
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &printerTransport{
		out:          cfg.out,
		indent:       cfg.indent,
		prepareEvent: cfg.prepareEvent,
	}
}

// SendEvent prints the event. Marshal failures are reported as
// non-retryable delivery errors.
func (t *printerTransport) SendEvent(ctx context.Context, event gatey.Event) error {
	if t.prepareEvent != nil {
		event = t.prepareEvent(event)
	}
	data, err := json.MarshalIndent(event, "", t.indent)
	if err != nil {
		return &gatey.DeliveryError{Cause: err}
	}
	fmt.Fprintln(t.out, string(data))
	return nil
}

// Close is a no-op for the printer transport.
func (t *printerTransport) Close() error {
	return nil
}
