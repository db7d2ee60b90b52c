package gatey

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestQueue(transport Transport, retry RetryConfig, maxSize int) *queue {
	return newQueue(transport, zap.NewNop(), retry, maxSize)
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestQueue_DeliversInFIFOOrder(t *testing.T) {
	transport := &testTransport{}
	q := newTestQueue(transport, fastRetryConfig(), 100)

	q.Enqueue(Event{ID: "e1"})
	q.Enqueue(Event{ID: "e2"})
	q.Enqueue(Event{ID: "e3"})

	if !q.Flush(2 * time.Second) {
		t.Fatal("flush did not drain the queue")
	}
	if err := q.Close(time.Second); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	events := transport.getEvents()
	if len(events) != 3 {
		t.Fatalf("delivered %d events, want 3", len(events))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if events[i].ID != want {
			t.Errorf("events[%d].ID = %q, want %q", i, events[i].ID, want)
		}
	}
}

// flakyTransport fails the first failures calls with the configured
// error, then succeeds.
type flakyTransport struct {
	mu       sync.Mutex
	failures int
	err      error
	attempts int
	events   []Event
}

func (f *flakyTransport) SendEvent(ctx context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *flakyTransport) Close() error { return nil }

func (f *flakyTransport) snapshot() (attempts int, events []Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts, append([]Event(nil), f.events...)
}

func TestQueue_RetriesTransientFailures(t *testing.T) {
	transport := &flakyTransport{failures: 2, err: &DeliveryError{StatusCode: 503, Retryable: true}}
	q := newTestQueue(transport, fastRetryConfig(), 100)

	q.Enqueue(Event{ID: "e1"})

	if !q.Flush(2 * time.Second) {
		t.Fatal("flush did not drain the queue")
	}
	q.Close(time.Second)

	attempts, events := transport.snapshot()
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (two failures then success)", attempts)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("delivered events = %v, want exactly e1", events)
	}
	delivered, dropped, _ := q.stats()
	if delivered != 1 || dropped != 0 {
		t.Errorf("delivered/dropped = %d/%d, want 1/0", delivered, dropped)
	}
}

func TestQueue_NonRetryableDropsImmediately(t *testing.T) {
	transport := &flakyTransport{failures: 100, err: &DeliveryError{StatusCode: 400, Retryable: false}}
	q := newTestQueue(transport, fastRetryConfig(), 100)

	q.Enqueue(Event{ID: "rejected"})

	q.Flush(2 * time.Second)
	q.Close(time.Second)

	attempts, events := transport.snapshot()
	if attempts != 1 {
		t.Errorf("attempts = %d, want a single attempt for a non-retryable failure", attempts)
	}
	if len(events) != 0 {
		t.Errorf("delivered %d events, want 0", len(events))
	}
	delivered, dropped, _ := q.stats()
	if delivered != 0 || dropped != 1 {
		t.Errorf("delivered/dropped = %d/%d, want 0/1", delivered, dropped)
	}
}

func TestQueue_ExhaustedAttemptsDropEvent(t *testing.T) {
	transport := &flakyTransport{failures: 100, err: &DeliveryError{StatusCode: 502, Retryable: true}}
	q := newTestQueue(transport, fastRetryConfig(), 100)

	q.Enqueue(Event{ID: "doomed"})

	q.Flush(2 * time.Second)
	q.Close(time.Second)

	attempts, _ := transport.snapshot()
	if attempts != 3 {
		t.Errorf("attempts = %d, want the configured maximum of 3", attempts)
	}
	_, dropped, _ := q.stats()
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestQueue_FlushZeroDropsBacklog(t *testing.T) {
	transport := &testTransport{block: make(chan struct{})}
	q := newTestQueue(transport, fastRetryConfig(), 100)

	q.Enqueue(Event{ID: "e1"})
	waitFor(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return q.inFlight
	}, "worker never picked up the first event")

	q.Enqueue(Event{ID: "e2"})
	q.Enqueue(Event{ID: "e3"})

	if q.Flush(0) {
		t.Error("Flush(0) reported a drained queue while delivery was stuck")
	}
	_, dropped, pending := q.stats()
	if pending != 0 {
		t.Errorf("pending = %d, want 0 after a timed-out flush", pending)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want the 2 backlogged events", dropped)
	}

	close(transport.block)
	if !q.Flush(2 * time.Second) {
		t.Fatal("flush did not complete after unblocking the transport")
	}
	q.Close(time.Second)

	events := transport.getEvents()
	if len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("delivered events = %v, want only the in-flight e1", events)
	}
}

func TestQueue_OverflowDropsOldest(t *testing.T) {
	transport := &testTransport{block: make(chan struct{})}
	q := newTestQueue(transport, fastRetryConfig(), 2)

	q.Enqueue(Event{ID: "e1"})
	waitFor(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return q.inFlight
	}, "worker never picked up the first event")

	q.Enqueue(Event{ID: "e2"})
	q.Enqueue(Event{ID: "e3"})
	q.Enqueue(Event{ID: "e4"}) // capacity 2: e2 is dropped

	close(transport.block)
	if !q.Flush(2 * time.Second) {
		t.Fatal("flush did not drain the queue")
	}
	q.Close(time.Second)

	events := transport.getEvents()
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	want := []string{"e1", "e3", "e4"}
	if len(ids) != len(want) {
		t.Fatalf("delivered %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("delivered %v, want %v", ids, want)
			break
		}
	}
}

func TestQueue_EnqueueAfterCloseIsDropped(t *testing.T) {
	transport := &testTransport{}
	q := newTestQueue(transport, fastRetryConfig(), 100)
	q.Close(time.Second)

	q.Enqueue(Event{ID: "late"})

	_, dropped, pending := q.stats()
	if pending != 0 || dropped != 1 {
		t.Errorf("dropped/pending = %d/%d, want 1/0", dropped, pending)
	}
	if len(transport.getEvents()) != 0 {
		t.Error("no event should be delivered after Close")
	}
}
