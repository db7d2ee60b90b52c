package funcs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

func TestFuncTransport_CallsFunction(t *testing.T) {
	var got []gatey.Event
	transport := NewFuncTransport(func(ctx context.Context, event gatey.Event) error {
		got = append(got, event)
		return nil
	})

	if err := transport.SendEvent(context.Background(), gatey.Event{ID: "e1"}); err != nil {
		t.Fatalf("SendEvent returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("function received %v, want exactly e1", got)
	}
}

func TestFuncTransport_WrapsFunctionError(t *testing.T) {
	cause := errors.New("downstream unavailable")
	transport := NewFuncTransport(func(ctx context.Context, event gatey.Event) error {
		return cause
	})

	err := transport.SendEvent(context.Background(), gatey.Event{ID: "e"})
	if err == nil {
		t.Fatal("expected an error from the failing function")
	}
	var de *gatey.DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("error type = %T, want *gatey.DeliveryError", err)
	}
	if de.Retryable {
		t.Error("function failures should not be retryable")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to the function's error")
	}
}

func TestFuncTransport_ContainsPanics(t *testing.T) {
	transport := NewFuncTransport(func(ctx context.Context, event gatey.Event) error {
		panic("handler exploded")
	})

	err := transport.SendEvent(context.Background(), gatey.Event{ID: "e"})
	if err == nil {
		t.Fatal("a panicking function should surface as an error")
	}
	if !strings.Contains(err.Error(), "handler exploded") {
		t.Errorf("error = %q, want the panic text included", err.Error())
	}
}

func TestFuncTransport_Close(t *testing.T) {
	transport := NewFuncTransport(func(ctx context.Context, event gatey.Event) error { return nil })
	if err := transport.Close(); err != nil {
		t.Errorf("Close returned %v, want nil", err)
	}
}
