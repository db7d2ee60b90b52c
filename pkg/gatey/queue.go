// queue.go decouples event capture from network delivery. Capture-side
// enqueue is a non-blocking O(1) append; a single background worker
// drains the queue in FIFO order and performs the wire calls, so
// delivery order matches enqueue order per client.

package gatey

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// queue buffers built events and delivers them asynchronously.
type queue struct {
	transport Transport
	logger    *zap.Logger
	retry     RetryConfig
	maxSize   int

	mu       sync.Mutex
	cond     *sync.Cond
	events   []Event
	inFlight bool
	closed   bool

	done chan struct{}

	// counters, guarded by mu
	delivered int
	dropped   int
}

func newQueue(transport Transport, logger *zap.Logger, retry RetryConfig, maxSize int) *queue {
	q := &queue{
		transport: transport,
		logger:    logger,
		retry:     retry,
		maxSize:   maxSize,
		done:      make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.worker()
	return q
}

// Enqueue appends an event for background delivery. Never blocks; when
// the queue is at capacity the oldest pending event is dropped to make
// room.
func (q *queue) Enqueue(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.dropped++
		q.logger.Warn("queue closed, dropping event", zap.String("event_id", event.ID))
		return
	}

	if q.maxSize > 0 && len(q.events) >= q.maxSize {
		oldest := q.events[0]
		q.events = q.events[1:]
		q.dropped++
		q.logger.Warn("queue full, dropping oldest event", zap.String("event_id", oldest.ID))
	}

	q.events = append(q.events, event)
	q.cond.Signal()
}

// worker is the single delivery goroutine.
func (q *queue) worker() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.events) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.events) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		event := q.events[0]
		q.events = q.events[1:]
		q.inFlight = true
		q.mu.Unlock()

		ok := q.deliver(event)

		q.mu.Lock()
		q.inFlight = false
		if ok {
			q.delivered++
		} else {
			q.dropped++
		}
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// deliver attempts delivery of one event, retrying transient failures
// with exponential backoff. Terminal failures drop the event with a
// local diagnostic; nothing propagates to capture callers.
func (q *queue) deliver(event Event) bool {
	var err error
	for attempt := 1; attempt <= q.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(backoffDelay(q.retry, attempt-1))
		}
		err = q.transport.SendEvent(context.Background(), event)
		if err == nil {
			return true
		}
		if !IsRetryable(err) {
			q.logger.Warn("dropping event after non-retryable delivery failure",
				zap.String("event_id", event.ID),
				zap.Error(err))
			return false
		}
		q.logger.Debug("delivery attempt failed",
			zap.String("event_id", event.ID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	q.logger.Warn("dropping event after exhausting delivery attempts",
		zap.String("event_id", event.ID),
		zap.Int("attempts", q.retry.MaxAttempts),
		zap.Error(err))
	return false
}

// Flush blocks until the queue drains (including any in-flight
// delivery) or the timeout elapses. On timeout the remaining queued
// events are dropped; an in-flight wire call is not aborted. Reports
// whether the queue fully drained.
func (q *queue) Flush(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.events) > 0 || q.inFlight {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if n := len(q.events); n > 0 {
				q.dropped += n
				q.events = nil
				q.logger.Warn("flush timed out, dropping queued events", zap.Int("count", n))
			}
			return false
		}
		timer := time.AfterFunc(remaining, q.cond.Broadcast)
		q.cond.Wait()
		timer.Stop()
	}
	return true
}

// Close drains the queue within timeout, stops the worker and closes
// the transport.
func (q *queue) Close(timeout time.Duration) error {
	q.Flush(timeout)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.events = nil
	q.cond.Broadcast()
	q.mu.Unlock()

	select {
	case <-q.done:
	case <-time.After(timeout):
		q.logger.Warn("queue worker did not stop before timeout")
	}
	return q.transport.Close()
}

// stats returns delivery counters, for diagnostics.
func (q *queue) stats() (delivered, dropped, pending int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delivered, q.dropped, len(q.events)
}
