package async

import (
	"sync"

	"github.com/amniuelmohamed/freshconcept/internal/notifier"
)

// EventQueue buffers outbound webhook requests for background dispatch so
// order writes never block on a slow client endpoint.
type EventQueue struct {
	mu     sync.Mutex
	events []notifier.WebhookRequest
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]notifier.WebhookRequest, 0)}
}

// Enqueue appends a pending webhook request. Requests without a URL are
// dropped silently: not every account configures a webhook.
func (q *EventQueue) Enqueue(req notifier.WebhookRequest) {
	if q == nil || req.URL == "" {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, req)
	q.mu.Unlock()
}

// Drain returns all pending requests and clears the buffer.
func (q *EventQueue) Drain() []notifier.WebhookRequest {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.events
	q.events = make([]notifier.WebhookRequest, 0)
	return drained
}

// Requeue prepends a request for retry on the next drain.
func (q *EventQueue) Requeue(req notifier.WebhookRequest) {
	if q == nil || req.URL == "" {
		return
	}
	q.mu.Lock()
	q.events = append([]notifier.WebhookRequest{req}, q.events...)
	q.mu.Unlock()
}

// Pending reports the buffered request count.
func (q *EventQueue) Pending() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
