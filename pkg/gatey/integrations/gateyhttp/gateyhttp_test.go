package gateyhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// recordingTransport captures events for verification.
type recordingTransport struct {
	mu     sync.Mutex
	events []gatey.Event
}

func (t *recordingTransport) SendEvent(ctx context.Context, event gatey.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	return nil
}

func (t *recordingTransport) Close() error { return nil }

func (t *recordingTransport) getEvents() []gatey.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]gatey.Event(nil), t.events...)
}

func newTestClient(t *testing.T) (*gatey.Client, *recordingTransport) {
	t.Helper()
	transport := &recordingTransport{}
	client, err := gatey.NewClient(
		gatey.WithProjectID(1),
		gatey.WithTransport(transport),
		gatey.WithImmediateDelivery(),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, transport
}

func TestMiddleware_PassesThroughHealthyRequests(t *testing.T) {
	client, transport := newTestClient(t)

	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if n := len(transport.getEvents()); n != 0 {
		t.Errorf("captured %d events for a healthy request, want 0", n)
	}
}

func TestMiddleware_CapturesAndRepanicksHandlerPanic(t *testing.T) {
	client, transport := newTestClient(t)

	handler := Middleware(client)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler blew up")
	}))

	recovered := func() (recovered any) {
		defer func() { recovered = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/orders?id=7", nil))
		return nil
	}()

	if recovered != "handler blew up" {
		t.Errorf("recovered = %v, want the original panic value re-panicked", recovered)
	}
	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want exactly 1", len(events))
	}
	event := events[0]
	if event.Level != gatey.LevelCritical {
		t.Errorf("level = %q, want %q", event.Level, gatey.LevelCritical)
	}
	if event.Exception == nil || event.Exception.Description != "handler blew up" {
		t.Errorf("exception = %+v, want the panic value", event.Exception)
	}
	if event.Tags["method"] != http.MethodPost {
		t.Errorf("method tag = %q, want POST", event.Tags["method"])
	}
	if event.Tags["path"] != "/orders" {
		t.Errorf("path tag = %q, want /orders", event.Tags["path"])
	}
	if event.Tags["query"] != "id=7" {
		t.Errorf("query tag = %q, want id=7", event.Tags["query"])
	}
}

func TestMiddleware_RequestCapture(t *testing.T) {
	client, transport := newTestClient(t)

	handler := Middleware(client, WithRequestCapture())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items", nil))

	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want 1 debug event per request", len(events))
	}
	if events[0].Level != gatey.LevelDebug {
		t.Errorf("level = %q, want %q", events[0].Level, gatey.LevelDebug)
	}
	if events[0].Message != `GET "/items"` {
		t.Errorf("message = %q, want the method and path", events[0].Message)
	}
}

func TestMiddleware_ExtraTags(t *testing.T) {
	client, transport := newTestClient(t)

	handler := Middleware(client, WithExtraTags(map[string]string{"service": "checkout"}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("x") }))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}()

	events := transport.getEvents()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want 1", len(events))
	}
	if events[0].Tags["service"] != "checkout" {
		t.Errorf("service tag = %q, want checkout", events[0].Tags["service"])
	}
}
